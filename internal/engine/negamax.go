// Package engine scores tic-tac-toe states by exhaustive negamax search
// and picks the best reachable next state.
package engine

import (
	"errors"
	"fmt"

	"github.com/jaminalder/tictac/internal/domain"
)

// Damping discounts a result by one ply so faster wins rank above slower ones.
const Damping = 0.9

// ErrImpossibleState is returned for a state in which both players hold a
// completed line.
var ErrImpossibleState = errors.New("it is impossible for both players to have won")

// Result is the value of a state for the player who made the last move,
// together with the state after the best reply. For terminal states Next
// equals the input.
type Result struct {
	Score float64
	Next  domain.Board
}

// Evaluator runs the memoized search. It is not safe for concurrent use
// unless its cache is guarded by the caller.
type Evaluator struct {
	cache Cache
}

// New returns an Evaluator backed by cache. A nil cache gets a fresh MemoCache.
func New(cache Cache) *Evaluator {
	if cache == nil {
		cache = NewMemoCache()
	}
	return &Evaluator{cache: cache}
}

// Cache returns the cache the evaluator reads and fills.
func (e *Evaluator) Cache() Cache { return e.cache }

// Evaluate returns the score of b and the best next state. b must already
// have passed domain.Validate.
//
// A score of 1 means the last mover has won, -1 that the other side has,
// 0 a draw. Non-terminal scores are -Damping times the best child score;
// ties on score go to the child whose encoding compares greatest.
func (e *Evaluator) Evaluate(b domain.Board) (Result, error) {
	if r, ok := e.cache.Get(b); ok {
		return r, nil
	}
	r, err := e.evaluate(b)
	if err != nil {
		return Result{}, err
	}
	e.cache.Put(b, r)
	return r, nil
}

func (e *Evaluator) evaluate(b domain.Board) (Result, error) {
	mover := domain.LastMover(b)
	next := domain.Opponent(mover)
	win, loss := domain.HasWon(b, mover), domain.HasWon(b, next)

	switch {
	case win && loss:
		return Result{}, fmt.Errorf("evaluate %s: %w", b, ErrImpossibleState)
	case win:
		return Result{Score: 1, Next: b}, nil
	case loss:
		return Result{Score: -1, Next: b}, nil
	case b.Full():
		return Result{Score: 0, Next: b}, nil
	}

	var (
		best      domain.Board
		bestScore float64
		found     bool
	)
	for child := range domain.MovesFor(b, next) {
		r, err := e.Evaluate(child)
		if err != nil {
			return Result{}, err
		}
		if !found || r.Score > bestScore || (r.Score == bestScore && child.Compare(best) > 0) {
			best, bestScore, found = child, r.Score, true
		}
	}
	return Result{Score: -Damping * bestScore, Next: best}, nil
}

// Score is Evaluate without the next state.
func (e *Evaluator) Score(b domain.Board) (float64, error) {
	r, err := e.Evaluate(b)
	return r.Score, err
}

// Move is Evaluate without the score.
func (e *Evaluator) Move(b domain.Board) (domain.Board, error) {
	r, err := e.Evaluate(b)
	return r.Next, err
}
