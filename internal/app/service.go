package app

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jaminalder/tictac/internal/domain"
	"github.com/jaminalder/tictac/internal/engine"
)

// Thresholds on the score returned for a state that end the game: the
// last mover has won, or the engine wins on its reply.
const (
	scoreWon      = 1.0
	scoreLostNext = -0.9
)

// Errors exposed by the service layer.
var (
	ErrInvalidState    = errors.New("invalid state")
	ErrImpossibleState = engine.ErrImpossibleState
)

// Square is one board position as presented to a player. Next is the
// state after the player to move marks this square, or empty when the
// square cannot be played.
type Square struct {
	Index int         `json:"index"`
	Piece domain.Cell `json:"-"`
	Mark  string      `json:"mark"`
	Next  string      `json:"next,omitempty"`
}

// Analysis is the engine's response to a submitted state.
type Analysis struct {
	State    string   `json:"state"`
	Score    float64  `json:"score"`
	Next     string   `json:"next"`
	GameOver bool     `json:"game_over"`
	Squares  []Square `json:"squares"`
}

// Service owns one evaluator and its cache and serializes access to them.
type Service struct {
	mu    sync.Mutex
	cache *engine.MemoCache
	eval  *engine.Evaluator
	log   zerolog.Logger
}

// NewService creates a service with an empty cache.
func NewService() *Service { return NewServiceWithLogger(log.Logger) }

// NewServiceWithLogger allows injecting the logger used for evaluations.
func NewServiceWithLogger(l zerolog.Logger) *Service {
	c := engine.NewMemoCache()
	return &Service{
		cache: c,
		eval:  engine.New(c),
		log:   l.With().Str("component", "engine").Logger(),
	}
}

// Prewarm evaluates the empty board, which fills the cache with every
// reachable state.
func (s *Service) Prewarm() error {
	if _, err := s.evaluate(domain.EmptyBoard); err != nil {
		return err
	}
	s.log.Info().Int("states", s.CacheStats().Size).Msg("cache prewarmed")
	return nil
}

// Evaluate validates raw and returns the engine result for it.
func (s *Service) Evaluate(raw string) (engine.Result, error) {
	b, err := domain.Parse(raw)
	if err != nil {
		return engine.Result{}, errors.Join(ErrInvalidState, err)
	}
	return s.evaluate(b)
}

func (s *Service) evaluate(b domain.Board) (engine.Result, error) {
	s.mu.Lock()
	r, err := s.eval.Evaluate(b)
	size := s.cache.Len()
	s.mu.Unlock()
	if err != nil {
		s.log.Warn().Err(err).Str("state", b.String()).Msg("evaluation failed")
		return engine.Result{}, err
	}
	s.log.Debug().
		Str("state", b.String()).
		Float64("score", r.Score).
		Str("next", r.Next.String()).
		Int("cache_size", size).
		Msg("evaluated")
	return r, nil
}

// Analyze evaluates raw and derives what a player sees next. An empty raw
// starts a new game in which the human moves first.
func (s *Service) Analyze(raw string) (*Analysis, error) {
	a := &Analysis{State: raw}
	next := domain.EmptyBoard
	if raw != "" {
		r, err := s.Evaluate(raw)
		if err != nil {
			return nil, err
		}
		a.Score, next = r.Score, r.Next
	}
	a.Next = next.String()
	a.GameOver = GameOver(a.Score, next)
	a.Squares = squares(next, a.GameOver)
	return a, nil
}

// GameOver reports whether play stops after next: the board is full, the
// submitted move won, or the engine's reply wins.
func GameOver(score float64, next domain.Board) bool {
	return next.Full() || score == scoreWon || score <= scoreLostNext
}

func squares(b domain.Board, over bool) []Square {
	side := domain.ToMove(b)
	out := make([]Square, len(b))
	for i, c := range b {
		sq := Square{Index: i, Piece: c, Mark: c.String()}
		if !over && c == domain.Empty {
			sq.Next = b.Place(i, side).String()
		}
		out[i] = sq
	}
	return out
}

// Moves validates raw and lists the states reachable by the player to move.
func (s *Service) Moves(raw string) ([]string, error) {
	b, err := domain.Parse(raw)
	if err != nil {
		return nil, errors.Join(ErrInvalidState, err)
	}
	out := []string{}
	for child := range domain.MovesFor(b, domain.ToMove(b)) {
		out = append(out, child.String())
	}
	return out, nil
}

// CacheStats reports the size and hit counters of the evaluation cache.
func (s *Service) CacheStats() engine.CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Stats()
}
