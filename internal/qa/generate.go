package qa

import (
	"errors"
	"math/rand/v2"

	"github.com/abhisek/pharmdrill/internal/dataset"
)

// ErrNoExercises is returned when no selected drug yields a question.
var ErrNoExercises = errors.New("qa: selected drugs have no attribute pairs to ask about")

// Exercise is one generated question. It is immutable once generated.
type Exercise struct {
	Prompt   string
	Expected string
	DrugID   int
	DrugName string
	Kind     RelationKind
}

// Generate emits one exercise per (record, relation) with both attributes
// present, then shuffles them. A nil rng uses the global source.
func Generate(subset []dataset.DrugRecord, rng *rand.Rand) ([]Exercise, error) {
	var out []Exercise
	for _, r := range subset {
		for _, k := range RelationKinds() {
			if !r.Has(k.Question()) || !r.Has(k.Answer()) {
				continue
			}
			out = append(out, Exercise{
				Prompt:   k.Prompt(r.Value(k.Question())),
				Expected: r.Value(k.Answer()),
				DrugID:   r.ID,
				DrugName: r.GenericName,
				Kind:     k,
			})
		}
	}
	if len(out) == 0 {
		return nil, ErrNoExercises
	}

	swap := func(i, j int) { out[i], out[j] = out[j], out[i] }
	if rng != nil {
		rng.Shuffle(len(out), swap)
	} else {
		rand.Shuffle(len(out), swap)
	}
	return out, nil
}
