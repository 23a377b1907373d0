// cryptoctl is a local, no-server demonstration of the pkg/ciphers and
// symmetric packages, the role the teacher's algorithm/main.go played
// for its own RC5/ECB scratch run before the gRPC service existed.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"cryptolab/dh"
	"cryptolab/pkg/ciphers/rijndael"
	"cryptolab/rsa"
	"cryptolab/symmetric"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "aes-demo":
		runAESDemo()
	case "rsa-keygen":
		runRSAKeygen(os.Args[2:])
	case "dh-demo":
		runDHDemo(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: cryptoctl <aes-demo|rsa-keygen|dh-demo> [flags]")
}

// runAESDemo round-trips a fixed message through AES-128/CBC/PKCS7 to
// show the cipher and symmetric packages wired together end to end.
func runAESDemo() {
	key := make([]byte, 16)
	iv := make([]byte, 16)
	if _, err := rand.Read(key); err != nil {
		panic(fmt.Errorf("cryptoctl: generating key: %w", err))
	}
	if _, err := rand.Read(iv); err != nil {
		panic(fmt.Errorf("cryptoctl: generating iv: %w", err))
	}

	cipher, err := rijndael.New(16, 16, 0x1B)
	if err != nil {
		panic(fmt.Errorf("cryptoctl: constructing rijndael: %w", err))
	}

	ctx, err := symmetric.New(cipher, symmetric.CBC, symmetric.PKCS7, key, iv)
	if err != nil {
		panic(fmt.Errorf("cryptoctl: constructing symmetric context: %w", err))
	}
	defer ctx.Dispose()

	message := []byte("the quick brown fox jumps over the lazy dog")
	ciphertext, err := ctx.Encrypt(message)
	if err != nil {
		panic(fmt.Errorf("cryptoctl: encrypting: %w", err))
	}
	plaintext, err := ctx.Decrypt(ciphertext)
	if err != nil {
		panic(fmt.Errorf("cryptoctl: decrypting: %w", err))
	}

	fmt.Printf("key:        %s\n", hex.EncodeToString(key))
	fmt.Printf("iv:         %s\n", hex.EncodeToString(iv))
	fmt.Printf("ciphertext: %s\n", hex.EncodeToString(ciphertext))
	fmt.Printf("round-trip: %s\n", plaintext)
}

// runRSAKeygen generates an RSA key pair under a chosen primality test
// and prints its public and private components in hex.
func runRSAKeygen(args []string) {
	fs := flag.NewFlagSet("rsa-keygen", flag.ExitOnError)
	bits := fs.Int("bits", 512, "modulus bit length")
	prob := fs.Float64("min-probability", 0.999, "minimum primality confidence")
	test := fs.String("test", "MillerRabin", "Fermat|SolovayStrassen|MillerRabin")
	fs.Parse(args)

	var kind rsa.PrimeTestKind
	switch *test {
	case "Fermat":
		kind = rsa.Fermat
	case "SolovayStrassen":
		kind = rsa.SolovayStrassen
	default:
		kind = rsa.MillerRabin
	}

	gen, err := rsa.NewKeyGenerator(kind, *prob, *bits)
	if err != nil {
		panic(fmt.Errorf("cryptoctl: constructing key generator: %w", err))
	}
	pub, priv, err := gen.GenerateKeyPair()
	if err != nil {
		panic(fmt.Errorf("cryptoctl: generating key pair: %w", err))
	}

	fmt.Printf("n: %s\n", pub.N.Text(16))
	fmt.Printf("e: %s\n", pub.E.Text(16))
	fmt.Printf("d: %s\n", priv.D.Text(16))
	fmt.Printf("p: %s\n", priv.P.Text(16))
	fmt.Printf("q: %s\n", priv.Q.Text(16))
}

// runDHDemo negotiates a shared secret between two in-process parties
// over a freshly generated safe prime.
func runDHDemo(args []string) {
	fs := flag.NewFlagSet("dh-demo", flag.ExitOnError)
	bits := fs.Int("bits", 512, "safe prime bit length")
	fs.Parse(args)

	alice, err := dh.NewWithSafePrime(*bits)
	if err != nil {
		panic(fmt.Errorf("cryptoctl: generating parameters: %w", err))
	}
	bob, err := dh.New(alice.Prime(), alice.Generator())
	if err != nil {
		panic(fmt.Errorf("cryptoctl: constructing peer exchange: %w", err))
	}

	aliceShared, err := alice.ComputeShared(bob.PublicKey())
	if err != nil {
		panic(fmt.Errorf("cryptoctl: computing alice's shared secret: %w", err))
	}
	bobShared, err := bob.ComputeShared(alice.PublicKey())
	if err != nil {
		panic(fmt.Errorf("cryptoctl: computing bob's shared secret: %w", err))
	}

	fmt.Printf("prime:        %s\n", alice.Prime().Text(16))
	fmt.Printf("generator:    %s\n", alice.Generator().Text(16))
	fmt.Printf("alice shared: %s\n", aliceShared.Text(16))
	fmt.Printf("bob shared:   %s\n", bobShared.Text(16))
	fmt.Printf("match:        %v\n", aliceShared.Cmp(bobShared) == 0)
}
