package graph

import (
	"context"
	"fmt"
	"strings"
)

// Rewriter reformulates the working question for better retrieval recall.
// It sees only the question, never the documents.
type Rewriter struct {
	llm Capability
}

func NewRewriter(llm Capability) *Rewriter {
	return &Rewriter{llm: llm}
}

func (r *Rewriter) Rewrite(ctx context.Context, question string) (string, error) {
	better, err := r.llm.Complete(ctx, rewriteSystem, rewritePrompt(question), 0)
	if err != nil {
		return "", fmt.Errorf("rewriting question: %w", err)
	}
	return strings.TrimSpace(better), nil
}
