package graph

import (
	"context"
	"fmt"
	"strings"
)

// Generator produces an answer for a question from the retrieved context.
type Generator struct {
	llm Capability
}

func NewGenerator(llm Capability) *Generator {
	return &Generator{llm: llm}
}

// Generate answers the question from the joined document texts, records the
// answer on the state and bumps GenerateAttempts. It knows nothing about the
// retry policy beyond incrementing the counter.
func (g *Generator) Generate(ctx context.Context, s *State, temperature float64) error {
	answer, err := g.llm.Complete(ctx, generateSystem, generatePrompt(s.Question, joinContext(s.Documents)), temperature)
	if err != nil {
		return fmt.Errorf("generating answer: %w", err)
	}
	s.Generation = answer
	s.GenerateAttempts++
	return nil
}

// joinContext concatenates document texts in their existing order, separated
// by blank lines.
func joinContext(docs []Document) string {
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}
	return strings.Join(texts, "\n\n")
}
