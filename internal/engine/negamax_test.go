package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jaminalder/tictac/internal/domain"
)

// countingCache records how often each state is written.
type countingCache struct {
	*MemoCache
	puts map[domain.Board]int
}

func newCountingCache() *countingCache {
	return &countingCache{MemoCache: NewMemoCache(), puts: make(map[domain.Board]int)}
}

func (c *countingCache) Put(b domain.Board, r Result) {
	c.puts[b]++
	c.MemoCache.Put(b, r)
}

// reachable walks every state reachable from b under alternating play,
// stopping at terminal states.
func reachable(b domain.Board, seen map[domain.Board]struct{}) {
	if _, ok := seen[b]; ok {
		return
	}
	seen[b] = struct{}{}
	if domain.HasWon(b, domain.X) || domain.HasWon(b, domain.O) || b.Full() {
		return
	}
	for child := range domain.MovesFor(b, domain.ToMove(b)) {
		reachable(child, seen)
	}
}

func TestEvaluateWinInOneExample(t *testing.T) {
	e := New(nil)
	root := domain.MustParse("x-----o--")

	r, err := e.Evaluate(root)
	require.NoError(t, err)
	require.Equal(t, "xx----o--", r.Next.String(), "ties on score go to the greatest encoding")
	require.InDelta(t, -Damping*0.6561, r.Score, 1e-9)

	next, err := e.Evaluate(r.Next)
	require.NoError(t, err)
	require.InDelta(t, 0.6561, next.Score, 1e-9)
}

func TestEvaluateChildScores(t *testing.T) {
	e := New(nil)
	want := map[string]float64{
		"xx----o--": 0.66,
		"x-x---o--": 0.66,
		"x--x--o--": -0.59,
		"x---x-o--": 0.00,
		"x----xo--": 0.00,
		"x-----ox-": 0.00,
		"x-----o-x": 0.66,
	}
	var got []string
	for child := range domain.MovesFor(domain.MustParse("x-----o--"), domain.X) {
		got = append(got, child.String())
		score, err := e.Score(child)
		require.NoError(t, err)
		require.InDelta(t, want[child.String()], score, 0.005, "score of %s", child)
	}
	require.Len(t, got, len(want))
}

func TestEvaluateTerminalStates(t *testing.T) {
	cases := []struct {
		raw   string
		score float64
	}{
		// X just completed the top row
		{"xxxoo----", 1},
		// O just completed the middle row
		{"xx-ooo-x-", 1},
		// full board, no line
		{"xoxxoooxx", 0},
		// X wins on the last empty square
		{"xoxoxoxox", 1},
	}
	e := New(nil)
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			b := domain.MustParse(tc.raw)
			r, err := e.Evaluate(b)
			require.NoError(t, err)
			require.Equal(t, tc.score, r.Score)
			require.Equal(t, b, r.Next, "terminal states do not change")
		})
	}
}

func TestEvaluateLossForLastMover(t *testing.T) {
	// X moved last but O already holds the middle column. Only a caller that
	// kept playing after the game ended produces such a state.
	b := domain.MustParse("xox-oxxo-")
	require.Equal(t, domain.X, domain.LastMover(b))
	require.True(t, domain.HasWon(b, domain.O))
	require.False(t, domain.HasWon(b, domain.X))

	r, err := New(nil).Evaluate(b)
	require.NoError(t, err)
	require.Equal(t, -1.0, r.Score)
	require.Equal(t, b, r.Next)
}

func TestEvaluateImpossibleState(t *testing.T) {
	for _, raw := range []string{"oooxxxxxo", "xxxooo---"} {
		c := NewMemoCache()
		_, err := New(c).Evaluate(domain.Unchecked(raw))
		require.ErrorIs(t, err, ErrImpossibleState, raw)
		require.Zero(t, c.Len(), "failed evaluations are not cached")
	}
}

func TestSelfPlayFromEmptyBoardDraws(t *testing.T) {
	e := New(nil)
	state := domain.EmptyBoard
	for ply := 0; !state.Full(); ply++ {
		require.Less(t, ply, 9, "game did not finish: %s", state)
		r, err := e.Evaluate(state)
		require.NoError(t, err)
		require.Zero(t, r.Score, "optimal play never leaves the draw at %s", state)
		require.NotEqual(t, state, r.Next, "no player should have won at %s", state)
		require.Equal(t, state.Count(domain.Empty)-1, r.Next.Count(domain.Empty))
		state = r.Next
	}
	require.False(t, domain.HasWon(state, domain.X))
	require.False(t, domain.HasWon(state, domain.O))
	r, err := e.Evaluate(state)
	require.NoError(t, err)
	require.Zero(t, r.Score)
	require.Equal(t, state, r.Next)
}

func TestFirstMoveIsTopLeft(t *testing.T) {
	next, err := New(nil).Move(domain.EmptyBoard)
	require.NoError(t, err)
	require.Equal(t, "x--------", next.String())
}

func TestEvaluateAllReachableStates(t *testing.T) {
	seen := make(map[domain.Board]struct{})
	reachable(domain.EmptyBoard, seen)
	require.LessOrEqual(t, len(seen), 6046)

	c := newCountingCache()
	e := New(c)
	_, err := e.Evaluate(domain.EmptyBoard)
	require.NoError(t, err)
	require.Equal(t, len(seen), c.Len(), "every reachable state is cached")

	for b := range seen {
		require.NoError(t, domain.Validate(b.String()))
		r, err := e.Evaluate(b)
		require.NoError(t, err)
		require.GreaterOrEqual(t, r.Score, -1.0)
		require.LessOrEqual(t, r.Score, 1.0)

		if b.Full() {
			require.Equal(t, b, r.Next)
			require.Contains(t, []float64{-1, 0, 1}, r.Score)
		}
		if r.Next != b {
			require.Equal(t, b.Count(domain.Empty)-1, r.Next.Count(domain.Empty), "next state is one move away")
		}
	}
	for b, n := range c.puts {
		require.Equal(t, 1, n, "state %s written more than once", b)
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	states := []string{"---------", "x-----o--", "xox--o---", "xxooxx--o", "x-ooxx-xo", "o-ox-xx--"}
	shared := New(nil)
	for _, raw := range states {
		b := domain.MustParse(raw)
		first, err := shared.Evaluate(b)
		require.NoError(t, err)
		again, err := shared.Evaluate(b)
		require.NoError(t, err)
		fresh, err := New(nil).Evaluate(b)
		require.NoError(t, err)
		require.Equal(t, first, again, raw)
		require.Equal(t, first, fresh, "fresh cache must agree for %s", raw)
	}
}

func TestMemoCacheKeepsFirstWrite(t *testing.T) {
	c := NewMemoCache()
	b := domain.MustParse("x--------")
	c.Put(b, Result{Score: 0.5, Next: b})
	c.Put(b, Result{Score: -0.5})

	r, ok := c.Get(b)
	require.True(t, ok)
	require.Equal(t, 0.5, r.Score)
	_, ok = c.Get(domain.EmptyBoard)
	require.False(t, ok)
	require.Equal(t, CacheStats{Size: 1, Hits: 1, Misses: 1}, c.Stats())
}
