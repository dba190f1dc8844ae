package flashcard

import (
	"errors"
	"math/rand/v2"

	"github.com/abhisek/pharmdrill/internal/dataset"
)

// ErrEmptyDeck is returned when a deck is built from no records.
var ErrEmptyDeck = errors.New("flashcard: no drugs to show")

// Field is one labelled line on a card.
type Field struct {
	Attribute dataset.Attribute
	Value     string
}

// Card wraps a record for display.
type Card struct {
	Record dataset.DrugRecord
}

// Title is the card heading.
func (c Card) Title() string {
	return c.Record.Label()
}

// Fields returns the populated attributes in display order.
func (c Card) Fields() []Field {
	var out []Field
	for _, a := range dataset.AllAttributes() {
		if v := c.Record.Value(a); v != "" {
			out = append(out, Field{Attribute: a, Value: v})
		}
	}
	return out
}

// Deck is a shuffled sequence with a cursor. Moving past the last card
// completes the deck; only Reshuffle starts it over.
type Deck struct {
	cards []Card
	pos   int
	rng   *rand.Rand
}

// NewDeck shuffles subset into a deck. A nil rng uses the global source.
func NewDeck(subset []dataset.DrugRecord, rng *rand.Rand) (*Deck, error) {
	if len(subset) == 0 {
		return nil, ErrEmptyDeck
	}
	d := &Deck{rng: rng}
	for _, r := range subset {
		d.cards = append(d.cards, Card{Record: r})
	}
	d.shuffle()
	return d, nil
}

func (d *Deck) shuffle() {
	swap := func(i, j int) { d.cards[i], d.cards[j] = d.cards[j], d.cards[i] }
	if d.rng != nil {
		d.rng.Shuffle(len(d.cards), swap)
	} else {
		rand.Shuffle(len(d.cards), swap)
	}
}

// Len returns the number of cards.
func (d *Deck) Len() int { return len(d.cards) }

// Position returns the zero-based cursor.
func (d *Deck) Position() int { return d.pos }

// Complete reports whether the cursor has moved past the last card.
func (d *Deck) Complete() bool { return d.pos >= len(d.cards) }

// Current returns the card under the cursor.
func (d *Deck) Current() (Card, bool) {
	if d.Complete() {
		return Card{}, false
	}
	return d.cards[d.pos], true
}

// Next advances the cursor. It returns false once the deck is complete.
func (d *Deck) Next() bool {
	if d.pos < len(d.cards) {
		d.pos++
	}
	return !d.Complete()
}

// Previous moves back one card; at the first card it does nothing.
func (d *Deck) Previous() bool {
	if d.pos == 0 {
		return false
	}
	d.pos--
	return true
}

// Reshuffle re-randomises the order and returns to the first card.
func (d *Deck) Reshuffle() {
	d.shuffle()
	d.pos = 0
}
