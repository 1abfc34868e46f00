package damage

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// RandomSource yields uniform values in [0, 1) for damage rolls.
// Implementations must be safe for concurrent use.
type RandomSource interface {
	Float64() float64
}

// RandomSourceFunc adapts a plain function to RandomSource.
type RandomSourceFunc func() float64

func (f RandomSourceFunc) Float64() float64 { return f() }

// DefaultRNG reads crypto/rand, which needs no shared state between requests.
func DefaultRNG() RandomSource { return RandomSourceFunc(cryptoFloat64) }

func cryptoFloat64() float64 {
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		return rand.Float64()
	}
	u := binary.BigEndian.Uint64(buf[:]) >> 11 // 53 bits
	return float64(u) / (1 << 53)
}

// lockedRand serializes a seeded generator so one replayable roll sequence
// can be shared by concurrent callers.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// NewSeededRNG returns a reproducible roll sequence for seed.
func NewSeededRNG(seed uint64) RandomSource {
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed))}
}
