package graph

import "context"

// Document is a single retrieved text unit. Documents are normalized to this
// shape at the retrieval boundary and are read-only inside the loop.
type Document struct {
	Text string
}

// State is the mutable record threaded through one workflow run. A fresh
// State is created per question and discarded once the answer is returned.
type State struct {
	// Question is the current working question. Rewrites replace it; the
	// original question is not retained.
	Question string

	// Documents holds the latest retrieval in retriever order. Each
	// retrieval and each relevance-grading pass replaces it wholesale.
	Documents []Document

	// Generation is the latest generated answer, overwritten on regeneration.
	Generation string

	// GenerateAttempts counts Generator invocations across the whole run.
	// It is never reset, not even by a question rewrite; it is the sole
	// termination guard for the corrective cycles.
	GenerateAttempts int
}

// Result is what a completed run yields: the accepted answer and the question
// it was finally answered against, so callers can see whether a rewrite
// happened. Attempts is how many generations the run needed.
type Result struct {
	Answer        string
	FinalQuestion string
	Attempts      int
}

// Retriever produces the ordered candidate documents for a query. The loop
// trusts the retriever's ranking: no dedup, no re-ranking, no caching.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]Document, error)
}

// Capability is the text-completion contract the loop consumes for both
// grading and generation. A failed call aborts the in-flight run.
type Capability interface {
	Complete(ctx context.Context, system, prompt string, temperature float64) (string, error)
}
