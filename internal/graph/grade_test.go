package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFilterRelevantPreservesOrder(t *testing.T) {
	grader := &fakeGrader{relevance: []string{"yes", "no", "Yes, it is relevant."}}
	g := NewRelevanceGrader(grader, AffirmativeSubstring, zap.NewNop())

	got, err := g.FilterRelevant(context.Background(), "q", docs("first", "second", "third"))
	require.NoError(t, err)
	assert.Equal(t, docs("first", "third"), got)
}

func TestFilterRelevantFallsBackToUnfilteredSet(t *testing.T) {
	grader := &fakeGrader{relevance: []string{"no", "no"}}
	g := NewRelevanceGrader(grader, AffirmativeSubstring, zap.NewNop())

	original := docs("first", "second")
	got, err := g.FilterRelevant(context.Background(), "q", original)
	require.NoError(t, err)
	assert.Equal(t, original, got, "empty filter result must restore the original set")
}

func TestFilterRelevantSurfacesError(t *testing.T) {
	grader := &fakeGrader{err: errors.New("boom")}
	g := NewRelevanceGrader(grader, AffirmativeSubstring, zap.NewNop())

	_, err := g.FilterRelevant(context.Background(), "q", docs("first"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestAffirmativeSubstring(t *testing.T) {
	tests := []struct {
		response string
		want     bool
	}{
		{"yes", true},
		{"Yes", true},
		{"YES, the document is relevant.", true},
		{"The answer is yes.", true},
		{"no", false},
		{"not relevant", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AffirmativeSubstring(tt.response), "response %q", tt.response)
	}
}
