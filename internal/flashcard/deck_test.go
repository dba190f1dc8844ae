package flashcard

import (
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pharmdrill/internal/dataset"
)

func records(n int) []dataset.DrugRecord {
	var recs []dataset.DrugRecord
	for i := 0; i < n; i++ {
		recs = append(recs, dataset.DrugRecord{GenericName: string(rune('A' + i))})
	}
	return dataset.FromRecords(recs).Records
}

func TestNewDeck_Empty(t *testing.T) {
	_, err := NewDeck(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyDeck)
}

func TestDeck_Navigation(t *testing.T) {
	d, err := NewDeck(records(3), rand.New(rand.NewPCG(5, 6)))
	require.NoError(t, err)
	assert.Equal(t, 3, d.Len())

	assert.False(t, d.Previous(), "previous at the first card is a no-op")
	assert.Equal(t, 0, d.Position())

	assert.True(t, d.Next())
	assert.True(t, d.Next())
	assert.True(t, d.Previous())
	assert.Equal(t, 1, d.Position())

	assert.True(t, d.Next())
	assert.False(t, d.Next(), "moving past the last card completes the deck")
	assert.True(t, d.Complete())
	_, ok := d.Current()
	assert.False(t, ok)

	assert.False(t, d.Next())
	assert.Equal(t, 3, d.Position())
}

func TestDeck_ShowsEveryRecordOnce(t *testing.T) {
	d, err := NewDeck(records(5), rand.New(rand.NewPCG(1, 1)))
	require.NoError(t, err)

	var seen []int
	for {
		c, ok := d.Current()
		if !ok {
			break
		}
		seen = append(seen, c.Record.ID)
		d.Next()
	}
	sort.Ints(seen)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, seen)
}

func TestDeck_Reshuffle(t *testing.T) {
	d, err := NewDeck(records(4), rand.New(rand.NewPCG(2, 3)))
	require.NoError(t, err)
	d.Next()
	d.Next()
	d.Reshuffle()
	assert.Equal(t, 0, d.Position())
	assert.Equal(t, 4, d.Len())
	assert.False(t, d.Complete())
}

func TestCard_Fields(t *testing.T) {
	c := Card{Record: dataset.DrugRecord{
		GenericName:    "Lisinopril",
		BrandNames:     "Zestril",
		ClinicalPearls: "Check potassium",
	}}
	fields := c.Fields()
	require.Len(t, fields, 3)
	assert.Equal(t, dataset.GenericName, fields[0].Attribute)
	assert.Equal(t, dataset.BrandNames, fields[1].Attribute)
	assert.Equal(t, dataset.ClinicalPearls, fields[2].Attribute)
	assert.Equal(t, "Check potassium", fields[2].Value)
}
