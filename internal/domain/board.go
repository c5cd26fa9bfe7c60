package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Cell represents a board cell state.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

// Encoding characters used at every boundary that exchanges state.
const (
	charEmpty = '-'
	charX     = 'x'
	charO     = 'o'
)

// Byte returns the encoding character for c.
func (c Cell) Byte() byte {
	switch c {
	case X:
		return charX
	case O:
		return charO
	default:
		return charEmpty
	}
}

func (c Cell) String() string { return string(c.Byte()) }

// Board is a fixed 3x3 board stored row-major, top-left to bottom-right.
// It is a value type: equality is structural and it can be used as a map key.
type Board [9]Cell

// EmptyBoard is the state before either player has moved.
var EmptyBoard Board

// Errors returned by validation.
var (
	ErrWrongLength      = errors.New("state must be exactly 9 characters long")
	ErrInvalidCharacter = errors.New("state must contain only the characters x, o, or -")
	ErrTurnOrder        = errors.New("state indicates a player moved out-of-turn")
)

// StateError reports a rejected raw state. Kind is one of the validation
// sentinels above and is what errors.Is matches against.
type StateError struct {
	State string
	Kind  error
}

func (e *StateError) Error() string { return fmt.Sprintf("invalid state %q: %v", e.State, e.Kind) }

func (e *StateError) Unwrap() error { return e.Kind }

// Validate checks length, alphabet and turn order, in that order, and
// reports the first failure.
func Validate(raw string) error {
	if len(raw) != len(Board{}) {
		return &StateError{State: raw, Kind: ErrWrongLength}
	}
	if strings.Trim(raw, "xo-") != "" {
		return &StateError{State: raw, Kind: ErrInvalidCharacter}
	}
	if d := strings.Count(raw, "x") - strings.Count(raw, "o"); d != 0 && d != 1 {
		return &StateError{State: raw, Kind: ErrTurnOrder}
	}
	return nil
}

// Parse validates raw and decodes it into a Board.
func Parse(raw string) (Board, error) {
	if err := Validate(raw); err != nil {
		return Board{}, err
	}
	return decode(raw), nil
}

// MustParse is like Parse but panics on invalid input. Intended for
// fixtures and tests.
func MustParse(raw string) Board {
	b, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return b
}

// Unchecked decodes a 9-character state without the turn-order check.
// Characters outside the alphabet decode as Empty. Callers that accept
// external input must use Parse.
func Unchecked(raw string) Board {
	return decode(raw)
}

func decode(raw string) Board {
	var b Board
	for i := 0; i < len(b) && i < len(raw); i++ {
		switch raw[i] {
		case charX:
			b[i] = X
		case charO:
			b[i] = O
		}
	}
	return b
}

// String returns the canonical 9-character encoding.
func (b Board) String() string {
	var buf [9]byte
	for i, c := range b {
		buf[i] = c.Byte()
	}
	return string(buf[:])
}

// Compare orders boards by their encodings, the same order as comparing
// b.String() with o.String().
func (b Board) Compare(o Board) int {
	for i := range b {
		x, y := b[i].Byte(), o[i].Byte()
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Count returns how many cells hold c.
func (b Board) Count(c Cell) int {
	n := 0
	for _, v := range b {
		if v == c {
			n++
		}
	}
	return n
}

// Full reports whether no Empty cell remains.
func (b Board) Full() bool { return b.Count(Empty) == 0 }

// Rows splits the board into its three rows, e.g. for printing.
func (b Board) Rows() [3]string {
	s := b.String()
	return [3]string{s[0:3], s[3:6], s[6:9]}
}
