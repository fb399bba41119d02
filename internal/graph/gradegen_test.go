package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDecideHardCapSkipsGrading(t *testing.T) {
	// A grader that fails on any call proves the cap short-circuits.
	grader := &fakeGrader{err: errors.New("must not be called")}
	g := NewGenerationGrader(grader, AffirmativeSubstring, zap.NewNop())

	s := &State{Generation: "answer", GenerateAttempts: 2}
	decision, err := g.Decide(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, Accept, decision)
}

func TestDecideOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		grounded string
		useful   string
		want     Decision
	}{
		{"grounded and useful", "yes", "yes", Accept},
		{"not grounded", "no", "yes", Regenerate},
		{"grounded but not useful", "yes", "no", Rewrite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grader := &fakeGrader{
				grounded: []string{tt.grounded},
				useful:   []string{tt.useful},
			}
			g := NewGenerationGrader(grader, AffirmativeSubstring, zap.NewNop())
			s := &State{
				Question:         "q",
				Documents:        docs("context"),
				Generation:       "answer",
				GenerateAttempts: 1,
			}
			decision, err := g.Decide(context.Background(), s)
			require.NoError(t, err)
			assert.Equal(t, tt.want, decision)
		})
	}
}

func TestDecideSkipsRelevanceWhenNotGrounded(t *testing.T) {
	grader := &fakeGrader{grounded: []string{"no"}}
	g := NewGenerationGrader(grader, AffirmativeSubstring, zap.NewNop())

	s := &State{Question: "q", Documents: docs("d"), Generation: "a", GenerateAttempts: 1}
	_, err := g.Decide(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, 1, grader.groundedCalls)
	assert.Equal(t, 0, grader.usefulCalls)
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "accept", Accept.String())
	assert.Equal(t, "regenerate", Regenerate.String())
	assert.Equal(t, "rewrite", Rewrite.String())
}

func TestJoinContext(t *testing.T) {
	assert.Equal(t, "a\n\nb\n\nc", joinContext(docs("a", "b", "c")))
	assert.Equal(t, "", joinContext(nil))
}
