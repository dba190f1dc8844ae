package study

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccuracy(t *testing.T) {
	assert.Equal(t, 0.0, Accuracy(0, 0))
	assert.Equal(t, 50.0, Accuracy(1, 2))
	assert.Equal(t, 100.0, Accuracy(3, 3))
}

func TestRating(t *testing.T) {
	tests := []struct {
		acc  float64
		want string
	}{
		{100, "Outstanding!"},
		{90, "Outstanding!"},
		{89.9, "Great job!"},
		{75, "Great job!"},
		{60, "Good progress!"},
		{59.9, "Keep practicing!"},
		{0, "Keep practicing!"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Rating(tt.acc), "accuracy %v", tt.acc)
	}
}

func TestModeTags(t *testing.T) {
	assert.Equal(t, "qa_practice", QA.Tag())
	assert.Equal(t, "matching", Matching.Tag())
	assert.Empty(t, ProgressView.Tag())
	assert.Len(t, Modes(), 5)
	assert.Equal(t, "Q&A Practice", QA.Label())
}

func TestModeForTag(t *testing.T) {
	m, ok := ModeForTag("qa_practice")
	assert.True(t, ok)
	assert.Equal(t, QA, m)

	_, ok = ModeForTag("")
	assert.False(t, ok, "empty tag must not match untagged modes")

	assert.Equal(t, "Learn Mode", TagLabel("learn"))
	assert.Equal(t, "legacy_mode", TagLabel("legacy_mode"))
}
