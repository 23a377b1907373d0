package rsa

import "math/big"

// Convergent is one continued-fraction convergent k/d of e/n.
type Convergent struct {
	K *big.Int
	D *big.Int
}

// WienerResult is the outcome of the low-exponent attack.
type WienerResult struct {
	D           *big.Int
	Phi         *big.Int
	Convergents []Convergent
	Success     bool
}

// continuedFractionExpansion computes the convergents of e/n via the
// Euclidean algorithm.
func continuedFractionExpansion(e, n *big.Int) []Convergent {
	a := new(big.Int).Set(e)
	b := new(big.Int).Set(n)

	var convergents []Convergent
	h0, h1 := big.NewInt(1), big.NewInt(0)
	k0, k1 := big.NewInt(0), big.NewInt(1)

	for b.Sign() != 0 {
		q := new(big.Int).Div(a, b)

		h := new(big.Int).Add(new(big.Int).Mul(q, h0), h1)
		k := new(big.Int).Add(new(big.Int).Mul(q, k0), k1)
		convergents = append(convergents, Convergent{K: new(big.Int).Set(h), D: new(big.Int).Set(k)})

		h1, h0 = h0, h
		k1, k0 = k0, k
		a, b = b, new(big.Int).Mod(a, b)
	}
	return convergents
}

// WienerAttack attempts to recover the private exponent of pub from
// its public components alone, exploiting a small d via continued
// fractions (valid when d < n^(1/4)/3). It is a diagnostic over an
// already-generated key, not a key-generation step.
func WienerAttack(pub *PublicKey) *WienerResult {
	result := &WienerResult{}
	convergents := continuedFractionExpansion(pub.E, pub.N)
	result.Convergents = convergents

	for _, cf := range convergents {
		k, d := cf.K, cf.D
		if k.Sign() == 0 {
			continue
		}

		numerator := new(big.Int).Mul(pub.E, d)
		numerator.Sub(numerator, big.NewInt(1))
		if new(big.Int).Mod(numerator, k).Sign() != 0 {
			continue
		}

		phi := new(big.Int).Div(numerator, k)

		b := new(big.Int).Sub(pub.N, phi)
		b.Add(b, big.NewInt(1))

		discriminant := new(big.Int).Mul(b, b)
		discriminant.Sub(discriminant, new(big.Int).Mul(big.NewInt(4), pub.N))
		if discriminant.Sign() < 0 {
			continue
		}

		sqrtD := new(big.Int).Sqrt(discriminant)
		if new(big.Int).Mul(sqrtD, sqrtD).Cmp(discriminant) != 0 {
			continue
		}

		p := new(big.Int).Add(b, sqrtD)
		p.Div(p, big.NewInt(2))
		q := new(big.Int).Sub(b, sqrtD)
		q.Div(q, big.NewInt(2))

		if new(big.Int).Mul(p, q).Cmp(pub.N) == 0 {
			result.D = d
			result.Phi = phi
			result.Success = true
			return result
		}
	}
	return result
}
