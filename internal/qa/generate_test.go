package qa

import (
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pharmdrill/internal/dataset"
)

func threeDrugs() []dataset.DrugRecord {
	return dataset.FromRecords([]dataset.DrugRecord{
		{
			Section: "Cardio", GenericName: "Lisinopril", BrandNames: "Zestril",
			DrugClass: "ACE Inhibitor", Indication: "Hypertension", SideEffects: "Dry cough",
		},
		{Section: "Cardio", GenericName: "Amlodipine", BrandNames: "Norvasc", DrugClass: "Calcium Channel Blocker"},
		{Section: "Cardio", GenericName: "Metoprolol"},
	}).Records
}

func TestGenerate_CountsPopulatedRelations(t *testing.T) {
	ex, err := Generate(threeDrugs(), rand.New(rand.NewPCG(7, 7)))
	require.NoError(t, err)
	// Lisinopril: all six. Amlodipine: brand both ways, class, class->generic. Metoprolol: none.
	assert.Len(t, ex, 10)

	perDrug := map[int]int{}
	for _, e := range ex {
		perDrug[e.DrugID]++
	}
	assert.Equal(t, map[int]int{0: 6, 1: 4}, perDrug)
}

func TestGenerate_SameSetAnyOrder(t *testing.T) {
	a, err := Generate(threeDrugs(), rand.New(rand.NewPCG(1, 1)))
	require.NoError(t, err)
	b, err := Generate(threeDrugs(), rand.New(rand.NewPCG(9, 9)))
	require.NoError(t, err)

	prompts := func(ex []Exercise) []string {
		var out []string
		for _, e := range ex {
			out = append(out, e.Prompt+"|"+e.Expected)
		}
		sort.Strings(out)
		return out
	}
	assert.Equal(t, prompts(a), prompts(b))
}

func TestGenerate_Templates(t *testing.T) {
	subset := threeDrugs()[:1]
	ex, err := Generate(subset, nil)
	require.NoError(t, err)

	byKind := map[RelationKind]Exercise{}
	for _, e := range ex {
		byKind[e.Kind] = e
	}
	assert.Equal(t, "What is the brand name for Lisinopril?", byKind[GenericToBrand].Prompt)
	assert.Equal(t, "Zestril", byKind[GenericToBrand].Expected)
	assert.Equal(t, "What is the generic name for Zestril?", byKind[BrandToGeneric].Prompt)
	assert.Equal(t, "What drug class does Lisinopril belong to?", byKind[GenericToClass].Prompt)
	assert.Equal(t, "What is Lisinopril used for?", byKind[GenericToIndication].Prompt)
	assert.Equal(t, "What are the main side effects of Lisinopril?", byKind[GenericToSideEffects].Prompt)
	assert.Equal(t, "Name a drug from the ACE Inhibitor class:", byKind[ClassToGeneric].Prompt)
	assert.Equal(t, "Lisinopril", byKind[ClassToGeneric].Expected)
	assert.Equal(t, "Lisinopril", byKind[ClassToGeneric].DrugName)
}

func TestGenerate_NothingToAsk(t *testing.T) {
	_, err := Generate(threeDrugs()[2:], nil)
	assert.ErrorIs(t, err, ErrNoExercises)

	_, err = Generate(nil, nil)
	assert.ErrorIs(t, err, ErrNoExercises)
}

func TestRelationKind_Tag(t *testing.T) {
	assert.Equal(t, "Generic Name_to_Brand Name(s)", GenericToBrand.Tag())
	assert.Equal(t, "Drug Class_to_Generic Name", ClassToGeneric.Tag())
	assert.Equal(t, "generic-to-side-effects", GenericToSideEffects.String())
	assert.Empty(t, RelationKind(99).Tag())
}
