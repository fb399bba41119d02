package graph

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// RelevanceGrader filters retrieved documents down to the ones a classifier
// judges topically related to the question.
type RelevanceGrader struct {
	grader  Capability
	verdict VerdictPolicy
	logger  *zap.Logger
}

func NewRelevanceGrader(grader Capability, verdict VerdictPolicy, logger *zap.Logger) *RelevanceGrader {
	return &RelevanceGrader{grader: grader, verdict: verdict, logger: logger}
}

// FilterRelevant grades each document independently, in retrieval order, and
// keeps the ones graded relevant. If every document is filtered out, the
// original unfiltered set is returned instead: a degraded answer from
// imperfect context beats a dead end when the classifier is miscalibrated.
// The returned set is therefore never empty for a non-empty input.
func (g *RelevanceGrader) FilterRelevant(ctx context.Context, question string, docs []Document) ([]Document, error) {
	filtered := make([]Document, 0, len(docs))
	for i, d := range docs {
		resp, err := g.grader.Complete(ctx, relevanceSystem, relevancePrompt(d.Text, question), 0)
		if err != nil {
			return nil, fmt.Errorf("grading document %d: %w", i, err)
		}
		relevant := g.verdict(resp)
		g.logger.Debug("document graded",
			zap.Int("index", i),
			zap.Bool("relevant", relevant),
			zap.String("verdict", resp),
		)
		if relevant {
			filtered = append(filtered, d)
		}
	}

	if len(filtered) == 0 {
		g.logger.Warn("all documents filtered out, keeping original retrieval",
			zap.Int("count", len(docs)))
		return docs, nil
	}
	return filtered, nil
}
