package mockgen

import "math"

// largePrime spreads the [0,1) float across branch indices so that nearby
// seeds do not consistently pick branch 0.
const largePrime = 2147483647

const lowercase = "abcdefghijklmnopqrstuvwxyz"
const alphanumeric = "abcdefghijklmnopqrstuvwxyz0123456789"

// Rand is a deterministic pseudo-random source seeded by the caller.
// It is not safe for concurrent use; each generation run owns its own Rand.
type Rand struct {
	state uint64
}

// NewRand returns a Rand seeded with seed. A zero seed is valid and distinct
// from seed 1.
func NewRand(seed int64) *Rand {
	return &Rand{state: uint64(seed) + 0x9e3779b97f4a7c15}
}

// next advances the state with a splitmix64 step.
func (r *Rand) next() uint64 {
	r.state += 0x9e3779b97f4a7c15
	z := r.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Float64 returns a float in [0, 1).
func (r *Rand) Float64() float64 {
	return float64(r.next()>>11) / (1 << 53)
}

// Int63 returns a non-negative pseudo-random int64.
func (r *Rand) Int63() int64 {
	return int64(r.next() >> 1)
}

// IndexFor selects an index in [0, n). The prime multiplication mirrors the
// branch-selection formula used for union and enum choices, so a fixed seed
// and path always choose the same branch.
func (r *Rand) IndexFor(n int) int {
	if n <= 0 {
		return 0
	}
	return int(math.Floor(math.Mod(r.Float64()*largePrime, float64(n))))
}

// IntBetween returns a uniform integer in [min, max].
func (r *Rand) IntBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + r.IndexFor(max-min+1)
}

// Alpha returns a lower-case alphabetic string of length n.
func (r *Rand) Alpha(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = lowercase[r.IndexFor(len(lowercase))]
	}
	return string(b)
}

// AlphaNum returns a lower-case alphanumeric string of length n.
func (r *Rand) AlphaNum(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = alphanumeric[r.IndexFor(len(alphanumeric))]
	}
	return string(b)
}
