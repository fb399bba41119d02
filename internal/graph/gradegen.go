package graph

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Decision is the outcome of grading a generated answer.
type Decision int

const (
	// Accept terminates the run with the current generation.
	Accept Decision = iota
	// Regenerate loops back to the generator with the same question and
	// documents.
	Regenerate
	// Rewrite reformulates the question and re-retrieves.
	Rewrite
)

func (d Decision) String() string {
	switch d {
	case Accept:
		return "accept"
	case Regenerate:
		return "regenerate"
	case Rewrite:
		return "rewrite"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// maxGradedGenerations is the hard cap on answer attempts. Once a run has
// completed this many generations, the next grading pass accepts
// unconditionally, which is what guarantees the cyclic graph terminates.
const maxGradedGenerations = 1

// GenerationGrader decides whether a generated answer is good enough to
// return, needs regenerating, or calls for a question rewrite.
type GenerationGrader struct {
	grader  Capability
	verdict VerdictPolicy
	logger  *zap.Logger
}

func NewGenerationGrader(grader Capability, verdict VerdictPolicy, logger *zap.Logger) *GenerationGrader {
	return &GenerationGrader{grader: grader, verdict: verdict, logger: logger}
}

// Decide grades the state's generation. The hard cap is checked before any
// grading call: past it, the best-available answer is returned rather than
// burning more attempts. Otherwise groundedness is checked first (fail means
// regenerate), then answer relevance (fail means rewrite).
func (g *GenerationGrader) Decide(ctx context.Context, s *State) (Decision, error) {
	if s.GenerateAttempts > maxGradedGenerations {
		g.logger.Info("max generation attempts reached, accepting answer",
			zap.Int("attempts", s.GenerateAttempts))
		return Accept, nil
	}

	grounded, err := g.grader.Complete(ctx, groundednessSystem,
		groundednessPrompt(joinContext(s.Documents), s.Generation), 0)
	if err != nil {
		return 0, fmt.Errorf("grading groundedness: %w", err)
	}
	if !g.verdict(grounded) {
		g.logger.Info("generation not grounded in documents, regenerating",
			zap.String("verdict", grounded))
		return Regenerate, nil
	}

	useful, err := g.grader.Complete(ctx, answerSystem,
		answerPrompt(s.Question, s.Generation), 0)
	if err != nil {
		return 0, fmt.Errorf("grading answer relevance: %w", err)
	}
	if !g.verdict(useful) {
		g.logger.Info("generation does not address question, rewriting",
			zap.String("verdict", useful))
		return Rewrite, nil
	}

	return Accept, nil
}
