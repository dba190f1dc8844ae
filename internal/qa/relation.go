package qa

import (
	"fmt"

	"github.com/abhisek/pharmdrill/internal/dataset"
)

// RelationKind names a (question attribute, answer attribute, prompt) triple.
type RelationKind int

const (
	GenericToBrand RelationKind = iota
	BrandToGeneric
	GenericToClass
	GenericToIndication
	GenericToSideEffects
	ClassToGeneric
)

type relation struct {
	question dataset.Attribute
	answer   dataset.Attribute
	template string
}

var relations = [...]relation{
	GenericToBrand:       {dataset.GenericName, dataset.BrandNames, "What is the brand name for %s?"},
	BrandToGeneric:       {dataset.BrandNames, dataset.GenericName, "What is the generic name for %s?"},
	GenericToClass:       {dataset.GenericName, dataset.DrugClass, "What drug class does %s belong to?"},
	GenericToIndication:  {dataset.GenericName, dataset.Indication, "What is %s used for?"},
	GenericToSideEffects: {dataset.GenericName, dataset.SideEffects, "What are the main side effects of %s?"},
	ClassToGeneric:       {dataset.DrugClass, dataset.GenericName, "Name a drug from the %s class:"},
}

// RelationKinds returns all six kinds in generation order.
func RelationKinds() []RelationKind {
	return []RelationKind{GenericToBrand, BrandToGeneric, GenericToClass, GenericToIndication, GenericToSideEffects, ClassToGeneric}
}

func (k RelationKind) valid() bool {
	return k >= GenericToBrand && k <= ClassToGeneric
}

// Question is the attribute substituted into the prompt.
func (k RelationKind) Question() dataset.Attribute { return relations[k].question }

// Answer is the attribute holding the expected answer.
func (k RelationKind) Answer() dataset.Attribute { return relations[k].answer }

// Prompt renders the question text for a value.
func (k RelationKind) Prompt(value string) string {
	return fmt.Sprintf(relations[k].template, value)
}

// Tag is the stable "<question>_to_<answer>" label used in logs and events.
func (k RelationKind) Tag() string {
	if !k.valid() {
		return ""
	}
	return k.Question().Header() + "_to_" + k.Answer().Header()
}

func (k RelationKind) String() string {
	if !k.valid() {
		return fmt.Sprintf("RelationKind(%d)", int(k))
	}
	return k.Question().Slug() + "-to-" + k.Answer().Slug()
}
