package rsa

import (
	"crypto/rand"
	"math"
	"math/big"
)

// PrimeTestKind selects which probabilistic primality test key
// generation runs the candidate through.
type PrimeTestKind int

const (
	Fermat PrimeTestKind = iota
	SolovayStrassen
	MillerRabin
)

func (k PrimeTestKind) String() string {
	switch k {
	case Fermat:
		return "Fermat"
	case SolovayStrassen:
		return "Solovay-Strassen"
	case MillerRabin:
		return "Miller-Rabin"
	default:
		return "Unknown"
	}
}

// isProbablyPrime runs n through the test selected by kind, for enough
// independent rounds that the false-positive probability is at most
// 1 - minProbability.
func isProbablyPrime(kind PrimeTestKind, n *big.Int, minProbability float64) bool {
	switch kind {
	case Fermat:
		return probabilisticTest(n, minProbability, fermatRound)
	case SolovayStrassen:
		return probabilisticTest(n, minProbability, solovayStrassenRound)
	default:
		return probabilisticTest(n, minProbability, millerRabinRound)
	}
}

func roundsFor(minProbability float64) int {
	if minProbability >= 1.0 || minProbability < 0.5 {
		minProbability = 0.99999
	}
	errorProb := 1.0 - minProbability
	rounds := int(math.Ceil(math.Log(errorProb) / math.Log(0.5)))
	if rounds < 1 {
		rounds = 1
	}
	return rounds
}

func probabilisticTest(n *big.Int, minProbability float64, round func(n, a *big.Int) bool) bool {
	two := big.NewInt(2)
	switch n.Cmp(two) {
	case 0:
		return true
	case -1:
		return false
	}
	if new(big.Int).Mod(n, two).Sign() == 0 {
		return false
	}

	rounds := roundsFor(minProbability)
	for i := 0; i < rounds; i++ {
		a, err := rand.Int(rand.Reader, new(big.Int).Sub(n, big.NewInt(3)))
		if err != nil {
			return false
		}
		a.Add(a, two)
		if !round(n, a) {
			return false
		}
	}
	return true
}

func fermatRound(n, a *big.Int) bool {
	exp := new(big.Int).Sub(n, big.NewInt(1))
	return modPow(a, exp, n).Cmp(big.NewInt(1)) == 0
}

func solovayStrassenRound(n, a *big.Int) bool {
	jacobi := jacobiSymbol(a, n)
	exp := new(big.Int).Sub(n, big.NewInt(1))
	exp.Div(exp, big.NewInt(2))
	result := modPow(a, exp, n)

	jacobiMod := big.NewInt(int64(jacobi))
	if jacobiMod.Sign() < 0 {
		jacobiMod.Add(jacobiMod, n)
	}
	return result.Cmp(jacobiMod) == 0
}

func millerRabinRound(n, a *big.Int) bool {
	nMinus1 := new(big.Int).Sub(n, big.NewInt(1))
	s := 0
	d := new(big.Int).Set(nMinus1)
	for new(big.Int).Mod(d, big.NewInt(2)).Sign() == 0 {
		s++
		d.Div(d, big.NewInt(2))
	}

	x := modPow(a, d, n)
	if x.Cmp(big.NewInt(1)) == 0 || x.Cmp(nMinus1) == 0 {
		return true
	}

	for i := 0; i < s-1; i++ {
		x = modPow(x, big.NewInt(2), n)
		if x.Cmp(nMinus1) == 0 {
			return true
		}
	}
	return false
}
