// Package rsa is the RSA external collaborator of spec.md §6: key
// generation over a selectable primality test, PKCS#1 v1.5 type-2
// padded encrypt/decrypt (buffers and streamed files), and the Wiener
// low-exponent attack as a diagnostic tool.
package rsa

import "math/big"

// legendreSymbol computes (a/p) for an odd prime p.
func legendreSymbol(a, p *big.Int) int {
	if a.Sign() == 0 {
		return 0
	}
	exp := new(big.Int).Sub(p, big.NewInt(1))
	exp.Div(exp, big.NewInt(2))
	result := new(big.Int).Exp(a, exp, p)

	switch {
	case result.Sign() == 0:
		return 0
	case result.Cmp(big.NewInt(1)) == 0:
		return 1
	default:
		return -1
	}
}

// jacobiSymbol computes (a/n) for odd n > 0.
func jacobiSymbol(a, n *big.Int) int {
	if n.Cmp(big.NewInt(1)) == 0 {
		return 1
	}
	if a.Sign() == 0 {
		return 0
	}

	aTemp := new(big.Int).Set(a)
	nTemp := new(big.Int).Set(n)
	result := 1

	for aTemp.Sign() != 0 {
		for new(big.Int).Mod(aTemp, big.NewInt(2)).Sign() == 0 {
			aTemp.Div(aTemp, big.NewInt(2))
			nMod8 := new(big.Int).Mod(nTemp, big.NewInt(8))
			if nMod8.Cmp(big.NewInt(3)) == 0 || nMod8.Cmp(big.NewInt(5)) == 0 {
				result = -result
			}
		}

		aTemp, nTemp = nTemp, aTemp

		if new(big.Int).Mod(aTemp, big.NewInt(4)).Cmp(big.NewInt(3)) == 0 &&
			new(big.Int).Mod(nTemp, big.NewInt(4)).Cmp(big.NewInt(3)) == 0 {
			result = -result
		}

		aTemp.Mod(aTemp, nTemp)
	}

	if nTemp.Cmp(big.NewInt(1)) == 0 {
		return result
	}
	return 0
}

// extendedGCD solves ax + by = gcd(a,b), returning (gcd, x, y).
func extendedGCD(a, b *big.Int) (*big.Int, *big.Int, *big.Int) {
	if b.Sign() == 0 {
		return new(big.Int).Set(a), big.NewInt(1), big.NewInt(0)
	}

	oldR, r := new(big.Int).Set(a), new(big.Int).Set(b)
	oldS, s := big.NewInt(1), big.NewInt(0)
	oldT, t := big.NewInt(0), big.NewInt(1)

	for r.Sign() != 0 {
		q := new(big.Int).Div(oldR, r)
		oldR, r = r, new(big.Int).Sub(oldR, new(big.Int).Mul(q, r))
		oldS, s = s, new(big.Int).Sub(oldS, new(big.Int).Mul(q, s))
		oldT, t = t, new(big.Int).Sub(oldT, new(big.Int).Mul(q, t))
	}

	return oldR, oldS, oldT
}

// modPow is base^exp mod m via square-and-multiply.
func modPow(base, exp, m *big.Int) *big.Int {
	result := big.NewInt(1)
	b := new(big.Int).Mod(base, m)
	e := new(big.Int).Set(exp)

	for e.Sign() > 0 {
		if e.Bit(0) == 1 {
			result.Mul(result, b)
			result.Mod(result, m)
		}
		e.Rsh(e, 1)
		b.Mul(b, b)
		b.Mod(b, m)
	}
	return result
}
