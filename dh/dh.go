// Package dh is the Diffie-Hellman external collaborator of spec.md
// §6: new(p, g), public_key(), compute_shared(peer_public), and
// set_private_key(k), plus safe-prime/generator discovery so a caller
// can stand up parameters without supplying their own.
package dh

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

var (
	ErrInvalidParameter  = errors.New("dh: p and g must both be > 0")
	ErrInvalidPublicKey  = errors.New("dh: peer public key must satisfy 0 < key < p")
	ErrInvalidPrivateKey = errors.New("dh: private key must satisfy 1 < k < p-1")
	ErrBitSizeTooSmall   = errors.New("dh: bit size must be at least 256")
	ErrGeneratorNotFound = errors.New("dh: could not find a generator")
)

// Exchange holds one party's Diffie-Hellman state: shared parameters
// (p, g) plus this party's private/public key pair.
type Exchange struct {
	p          *big.Int
	g          *big.Int
	privateKey *big.Int
}

// New builds an Exchange around caller-supplied parameters and draws a
// fresh private key in (1, p-1).
func New(p, g *big.Int) (*Exchange, error) {
	if p.Sign() <= 0 || g.Sign() <= 0 {
		return nil, ErrInvalidParameter
	}
	ex := &Exchange{p: new(big.Int).Set(p), g: new(big.Int).Set(g)}
	if err := ex.generatePrivateKey(); err != nil {
		return nil, err
	}
	return ex, nil
}

// GenerateSafePrime finds a prime p of the given bit size such that
// (p-1)/2 is also prime.
func GenerateSafePrime(bits int) (*big.Int, error) {
	if bits < 256 {
		return nil, ErrBitSizeTooSmall
	}
	for {
		p, err := rand.Prime(rand.Reader, bits)
		if err != nil {
			return nil, fmt.Errorf("dh: generating candidate prime: %w", err)
		}
		q := new(big.Int).Sub(p, big.NewInt(1))
		q.Div(q, big.NewInt(2))
		if q.ProbablyPrime(20) {
			return p, nil
		}
	}
}

// FindGenerator returns the first candidate g with
// g^((prime-1)/2) != 1 mod prime (a quadratic non-residue, which for a
// safe prime generates the whole multiplicative group), trying 2, 3, 5,
// 7, 11 and 13 first and then every integer from 14 to 999.
func FindGenerator(prime *big.Int) (*big.Int, error) {
	pMinus1 := new(big.Int).Sub(prime, big.NewInt(1))
	exp := new(big.Int).Div(pMinus1, big.NewInt(2))

	for _, candidate := range []int64{2, 3, 5, 7, 11, 13} {
		g := big.NewInt(candidate)
		if new(big.Int).Exp(g, exp, prime).Cmp(big.NewInt(1)) != 0 {
			return g, nil
		}
	}
	for i := int64(14); i < 1000; i++ {
		g := big.NewInt(i)
		if new(big.Int).Exp(g, exp, prime).Cmp(big.NewInt(1)) != 0 {
			return g, nil
		}
	}
	return nil, ErrGeneratorNotFound
}

// NewWithSafePrime generates a bits-sized safe prime, finds a
// generator for it, and builds an Exchange around that pair.
func NewWithSafePrime(bits int) (*Exchange, error) {
	p, err := GenerateSafePrime(bits)
	if err != nil {
		return nil, err
	}
	g, err := FindGenerator(p)
	if err != nil {
		return nil, err
	}
	return New(p, g)
}

func (ex *Exchange) generatePrivateKey() error {
	max := new(big.Int).Sub(ex.p, big.NewInt(3))
	if max.Sign() <= 0 {
		return ErrInvalidParameter
	}
	k, err := rand.Int(rand.Reader, max)
	if err != nil {
		return fmt.Errorf("dh: generating private key: %w", err)
	}
	k.Add(k, big.NewInt(2))
	ex.privateKey = k
	return nil
}

// SetPrivateKey overrides the randomly generated private key with a
// caller-supplied one satisfying 1 < k < p-1.
func (ex *Exchange) SetPrivateKey(k *big.Int) error {
	pMinus1 := new(big.Int).Sub(ex.p, big.NewInt(1))
	if k.Cmp(big.NewInt(1)) <= 0 || k.Cmp(pMinus1) >= 0 {
		return ErrInvalidPrivateKey
	}
	ex.privateKey = new(big.Int).Set(k)
	return nil
}

// PublicKey returns g^privateKey mod p.
func (ex *Exchange) PublicKey() *big.Int {
	return new(big.Int).Exp(ex.g, ex.privateKey, ex.p)
}

// ComputeShared returns peerPublic^privateKey mod p, validating
// 0 < peerPublic < p first.
func (ex *Exchange) ComputeShared(peerPublic *big.Int) (*big.Int, error) {
	if peerPublic.Sign() <= 0 || peerPublic.Cmp(ex.p) >= 0 {
		return nil, ErrInvalidPublicKey
	}
	return new(big.Int).Exp(peerPublic, ex.privateKey, ex.p), nil
}

// Prime and Generator expose the shared parameters.
func (ex *Exchange) Prime() *big.Int     { return new(big.Int).Set(ex.p) }
func (ex *Exchange) Generator() *big.Int { return new(big.Int).Set(ex.g) }

// PrivateKey exposes this party's private exponent, so a caller that
// must resume an exchange across a stateless boundary (e.g. an HTTP
// request/response pair) can persist and later restore it via
// SetPrivateKey.
func (ex *Exchange) PrivateKey() *big.Int { return new(big.Int).Set(ex.privateKey) }
