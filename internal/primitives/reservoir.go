package primitives

import "math/rand"

// lcg is a 32-bit POSIX-parameter linear congruential generator, used when
// a seed is supplied so that reservoir draws are reproducible across runs
// and across languages implementing the same constants.
type lcg struct {
	state uint32
}

const (
	lcgA = 1103515245
	lcgC = 12345
	// lcgM is 2^31; the generator's modulus.
)

func newLCG(seed uint32) *lcg {
	return &lcg{state: seed}
}

// next returns the next pseudo-random value in [0, 2^31).
func (l *lcg) next() uint32 {
	l.state = (lcgA*l.state + lcgC) & 0x7fffffff
	return l.state
}

// intn returns a uniform pseudo-random integer in [0, n).
func (l *lcg) intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(l.next() % uint32(n))
}

// rng is the minimal interface reservoir sampling needs from a random
// source, satisfied by both the seeded LCG and the host's *rand.Rand.
type rng interface {
	intn(n int) int
}

type hostRNG struct{ r *rand.Rand }

func (h hostRNG) intn(n int) int {
	if n <= 0 {
		return 0
	}
	return h.r.Intn(n)
}

// Reservoir implements Algorithm R: a uniform random sample of fixed size
// k drawn from a stream of unknown length. With a seed, draws are fully
// deterministic; without one, the host RNG is used.
type Reservoir[T any] struct {
	k      int
	seen   int64
	items  []T
	source rng
}

// NewReservoir returns an empty reservoir of capacity k. If seed is
// non-nil, draws are deterministic; otherwise the host RNG seeds itself
// from the runtime.
func NewReservoir[T any](k int, seed *uint32) *Reservoir[T] {
	var src rng
	if seed != nil {
		src = newLCG(*seed)
	} else {
		src = hostRNG{r: rand.New(rand.NewSource(rand.Int63()))}
	}
	return &Reservoir[T]{k: k, items: make([]T, 0, k), source: src}
}

// Update offers one item to the reservoir.
func (r *Reservoir[T]) Update(item T) {
	r.seen++
	if len(r.items) < r.k {
		r.items = append(r.items, item)
		return
	}
	j := r.source.intn(int(r.seen))
	if j < r.k {
		r.items[j] = item
	}
}

// Items returns the current sample. The slice is owned by the caller and
// safe to retain; it is a snapshot, not a live view.
func (r *Reservoir[T]) Items() []T {
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}

// Len returns the number of items currently held (<=k).
func (r *Reservoir[T]) Len() int { return len(r.items) }

// Seen returns the total number of items offered so far.
func (r *Reservoir[T]) Seen() int64 { return r.seen }
