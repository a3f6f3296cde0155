package game

import (
	"hash/fnv"
	"math"
	mathrand "math/rand"
)

// RNG is the single source of randomness for every stochastic step.
// *math/rand.Rand satisfies it.
type RNG interface {
	Float64() float64
	Intn(n int) int
}

func NewRNG(seed int64) *mathrand.Rand {
	return mathrand.New(mathrand.NewSource(seed))
}

// DeriveRNG builds a reproducible stream for one operation on one state.
// The same (seed, month, nextID, salt) always yields the same stream.
func DeriveRNG(seed int64, month int, nextID int64, salt string) *mathrand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(salt))
	mixed := seed ^ int64(h.Sum64()) ^ (int64(month) * 0x9E3779B1) ^ (nextID * 0x85EBCA77)
	return NewRNG(mixed)
}

func rollRange(rng RNG, lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + int64(math.Round(rng.Float64()*float64(hi-lo)))
}

func chance(rng RNG, p float64) bool {
	if p <= 0 {
		return false
	}
	return rng.Float64() < p
}

func normalish(seed float64) float64 {
	return seed + seed - 1
}

func signedShock(magSeed, signSeed, base float64) float64 {
	mag := base * (0.35 + 2.8*magSeed*magSeed)
	if signSeed < 0.5 {
		return -mag
	}
	return mag
}

// shuffle returns a random permutation of [0, n) using Fisher-Yates.
func shuffle(rng RNG, n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}
