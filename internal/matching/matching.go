package matching

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
	"unicode/utf8"

	"github.com/abhisek/pharmdrill/internal/dataset"
)

// MaxPairs is the largest board a game deals.
const MaxPairs = 8

// DisplayWidth is the number of runes a card shows before truncation.
const DisplayWidth = 50

// Presentation delays between a second pick and its verdict, and between a
// mismatch verdict and the cards returning to the board.
const (
	ResolveDelay = 500 * time.Millisecond
	FlashDelay   = time.Second
)

var (
	// ErrInvalidColumnChoice is returned when the two columns are equal or unknown.
	ErrInvalidColumnChoice = errors.New("matching: choose two different attributes")

	// ErrNoPairs is returned when no selected drug has both attributes filled in.
	ErrNoPairs = errors.New("matching: no drugs have both attributes")
)

// Side is a board column.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// SlotState tracks one card through the board.
type SlotState int

const (
	Unselected SlotState = iota
	Selected
	Matched
	Mismatched
)

func (s SlotState) String() string {
	switch s {
	case Unselected:
		return "unselected"
	case Selected:
		return "selected"
	case Matched:
		return "matched"
	case Mismatched:
		return "mismatched"
	default:
		return fmt.Sprintf("SlotState(%d)", int(s))
	}
}

// Pair is one drug's values for the two chosen columns.
type Pair struct {
	DrugID int
	Left   string
	Right  string
}

// Card is one value on the board.
type Card struct {
	Value string
	State SlotState
}

// Display returns the value truncated to DisplayWidth runes.
func (c Card) Display() string {
	return Truncate(c.Value, DisplayWidth)
}

// Ref addresses a card by column and row.
type Ref struct {
	Side  Side
	Index int
}

// Verdict is the outcome of resolving two picks.
type Verdict struct {
	Refs    [2]Ref
	Matched bool
}

// Game is a single matching board. Cards compare on their full values;
// truncation only affects Display.
type Game struct {
	ColA, ColB dataset.Attribute
	Pairs      []Pair
	Left       []Card
	Right      []Card

	picks    []Ref
	attempts int
	misses   int
}

// Options tunes game construction.
type Options struct {
	MaxPairs int
	Rand     *rand.Rand
}

// New deals a board from the working subset. Only drugs with both columns
// filled in are eligible; up to MaxPairs of them are sampled without replacement.
func New(subset []dataset.DrugRecord, colA, colB dataset.Attribute, opts Options) (*Game, error) {
	if !colA.Valid() || !colB.Valid() || colA == colB {
		return nil, ErrInvalidColumnChoice
	}
	limit := opts.MaxPairs
	if limit <= 0 {
		limit = MaxPairs
	}
	shuffle := rand.Shuffle
	if opts.Rand != nil {
		shuffle = opts.Rand.Shuffle
	}

	var eligible []dataset.DrugRecord
	for _, r := range subset {
		if r.Has(colA) && r.Has(colB) {
			eligible = append(eligible, r)
		}
	}
	if len(eligible) == 0 {
		return nil, ErrNoPairs
	}

	shuffle(len(eligible), func(i, j int) { eligible[i], eligible[j] = eligible[j], eligible[i] })
	if len(eligible) > limit {
		eligible = eligible[:limit]
	}

	g := &Game{ColA: colA, ColB: colB}
	for _, r := range eligible {
		p := Pair{DrugID: r.ID, Left: r.Value(colA), Right: r.Value(colB)}
		g.Pairs = append(g.Pairs, p)
		g.Left = append(g.Left, Card{Value: p.Left})
		g.Right = append(g.Right, Card{Value: p.Right})
	}
	shuffle(len(g.Left), func(i, j int) { g.Left[i], g.Left[j] = g.Left[j], g.Left[i] })
	shuffle(len(g.Right), func(i, j int) { g.Right[i], g.Right[j] = g.Right[j], g.Right[i] })
	return g, nil
}

// Card returns the card at ref.
func (g *Game) Card(ref Ref) (Card, bool) {
	col := g.column(ref.Side)
	if ref.Index < 0 || ref.Index >= len(col) {
		return Card{}, false
	}
	return col[ref.Index], true
}

func (g *Game) column(s Side) []Card {
	if s == Left {
		return g.Left
	}
	return g.Right
}

func (g *Game) card(ref Ref) *Card {
	col := g.column(ref.Side)
	if ref.Index < 0 || ref.Index >= len(col) {
		return nil
	}
	return &col[ref.Index]
}

// Select picks a card. Matched cards, cards already picked, and a third pick
// are ignored. It reports whether two cards are now awaiting Resolve.
func (g *Game) Select(ref Ref) bool {
	c := g.card(ref)
	if c == nil || c.State == Matched || c.State == Selected || len(g.picks) >= 2 {
		return len(g.picks) == 2
	}
	c.State = Selected
	g.picks = append(g.picks, ref)
	return len(g.picks) == 2
}

// Picks returns the currently selected cards in pick order.
func (g *Game) Picks() []Ref {
	return append([]Ref(nil), g.picks...)
}

// Ready reports whether two cards are awaiting Resolve.
func (g *Game) Ready() bool {
	return len(g.picks) == 2
}

// Resolve checks the two picked cards against the dealt pairs in either
// orientation. Matched cards leave the board; mismatched cards stay flagged
// until ClearMismatch. The pick list is emptied either way.
func (g *Game) Resolve() (Verdict, bool) {
	if len(g.picks) != 2 {
		return Verdict{}, false
	}
	a, b := g.card(g.picks[0]), g.card(g.picks[1])
	v := Verdict{Refs: [2]Ref{g.picks[0], g.picks[1]}, Matched: g.isPair(a.Value, b.Value)}

	state := Mismatched
	if v.Matched {
		state = Matched
	} else {
		g.misses++
	}
	a.State, b.State = state, state
	g.attempts++
	g.picks = g.picks[:0]
	return v, true
}

func (g *Game) isPair(x, y string) bool {
	for _, p := range g.Pairs {
		if (p.Left == x && p.Right == y) || (p.Right == x && p.Left == y) {
			return true
		}
	}
	return false
}

// ClearMismatch returns every mismatched card to the board.
func (g *Game) ClearMismatch() {
	for _, col := range [][]Card{g.Left, g.Right} {
		for i := range col {
			if col[i].State == Mismatched {
				col[i].State = Unselected
			}
		}
	}
}

// Remaining counts cards not yet matched.
func (g *Game) Remaining() int {
	n := 0
	for _, col := range [][]Card{g.Left, g.Right} {
		for _, c := range col {
			if c.State != Matched {
				n++
			}
		}
	}
	return n
}

// Done reports whether every card has been matched.
func (g *Game) Done() bool {
	return g.Remaining() == 0
}

// Attempts returns how many pick pairs have been resolved.
func (g *Game) Attempts() int { return g.attempts }

// Misses returns how many resolved pick pairs were wrong.
func (g *Game) Misses() int { return g.misses }

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
