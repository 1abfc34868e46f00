// Package server exposes the damage pipeline over HTTP, gRPC and a websocket
// live channel. All three share one catalog store and one pattern book.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/xtding233/damage-coeff/internal/catalog"
	"github.com/xtding233/damage-coeff/internal/damage"
	"github.com/xtding233/damage-coeff/internal/pattern"
)

// Server holds the shared state behind every transport.
type Server struct {
	store    *catalog.Store
	book     *pattern.Book
	random   damage.RandomCoeffConfig
	rng      damage.RandomSource
	now      func() time.Time
	upgrader websocket.Upgrader
}

type Option func(*Server)

// WithRandomDefaults sets the damage roll used when a request omits it.
func WithRandomDefaults(min, max float64) Option {
	return func(s *Server) { s.random = damage.RandomCoeffConfig{Min: min, Max: max} }
}

// WithRNG replaces the sampling source; tests pass a seeded one.
func WithRNG(rng damage.RandomSource) Option {
	return func(s *Server) { s.rng = rng }
}

// WithClock replaces time.Now for enemy window filtering.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func New(store *catalog.Store, book *pattern.Book, opts ...Option) *Server {
	s := &Server{
		store:  store,
		book:   book,
		random: damage.RandomCoeffConfig{Min: damage.DefaultRandomMin, Max: damage.DefaultRandomMax},
		rng:    damage.DefaultRNG(),
		now:    time.Now,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// defaultConfig is the base a request body is decoded onto, so omitted
// fields keep neutral values.
func (s *Server) defaultConfig() damage.Config {
	cfg := damage.DefaultConfig()
	cfg.Random = s.random
	return cfg
}

func (s *Server) decodeConfig(data []byte) (damage.Config, error) {
	cfg := s.defaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return damage.Config{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := validateConfig(cfg); err != nil {
		return damage.Config{}, err
	}
	return cfg, nil
}

// evaluation is the full result for one config.
type evaluation struct {
	Config             damage.Config    `json:"config"`
	OptimizationFactor float64          `json:"optimization_factor"`
	Estimate           damage.Estimate  `json:"estimate"`
	Breakdown          damage.Breakdown `json:"breakdown"`
	Sample             float64          `json:"sample"`
}

func (s *Server) evaluate(cfg damage.Config) evaluation {
	return evaluation{
		Config:             cfg,
		OptimizationFactor: damage.CalculateOptimizationFactor(cfg),
		Estimate:           damage.CalculateDamage(cfg),
		Breakdown:          damage.AnalyzeDamage(cfg),
		Sample:             damage.SampleDamage(cfg, s.rng),
	}
}

// resolveInput validates a pattern input and resolves it against the catalog.
func (s *Server) resolveInput(in pattern.Input) (damage.Config, error) {
	if err := validateInput(in); err != nil {
		return damage.Config{}, err
	}
	cfg, err := in.Resolve(s.store)
	if err != nil {
		return damage.Config{}, err
	}
	if in.Random == nil {
		cfg.Random = s.random
	}
	return cfg, nil
}
