package graph

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Node identifies a state of the workflow state machine.
type Node int

const (
	NodeRetrieve Node = iota
	NodeGradeDocuments
	NodeGenerate
	NodeGradeGeneration
	NodeRewrite
	NodeDone
)

func (n Node) String() string {
	switch n {
	case NodeRetrieve:
		return "retrieve"
	case NodeGradeDocuments:
		return "grade_documents"
	case NodeGenerate:
		return "generate"
	case NodeGradeGeneration:
		return "grade_generation"
	case NodeRewrite:
		return "rewrite"
	case NodeDone:
		return "done"
	default:
		return fmt.Sprintf("Node(%d)", int(n))
	}
}

// outcome tags the result of executing a node, for transition lookup.
type outcome string

const (
	outcomeNext        outcome = "next" // nodes with a single outgoing edge
	outcomeDocuments   outcome = "documents"
	outcomeNoDocuments outcome = "no_documents"
	outcomeAccept      outcome = "accept"
	outcomeRegenerate  outcome = "regenerate"
	outcomeRewrite     outcome = "rewrite"
)

// transitions is the full edge set of the corrective loop. Keeping it as data
// makes the shape of the graph, including the termination argument, auditable
// without reading any node code.
//
// The no_documents edge out of grade_documents is unreachable while the
// relevance grader falls back to the unfiltered set on an empty result. It
// stays in the table because it is part of the graph's shape: a stricter
// grading policy would make it live again.
var transitions = map[Node]map[outcome]Node{
	NodeRetrieve: {
		outcomeNext: NodeGradeDocuments,
	},
	NodeGradeDocuments: {
		outcomeDocuments:   NodeGenerate,
		outcomeNoDocuments: NodeRewrite,
	},
	NodeGenerate: {
		outcomeNext: NodeGradeGeneration,
	},
	NodeGradeGeneration: {
		outcomeAccept:     NodeDone,
		outcomeRegenerate: NodeGenerate,
		outcomeRewrite:    NodeRewrite,
	},
	NodeRewrite: {
		outcomeNext: NodeRetrieve,
	},
}

// Workflow is the self-correcting question-answering loop: retrieve, grade
// documents, generate, grade the generation, and loop through regeneration or
// question rewrites until an answer is accepted. All branching lives here;
// the nodes are pure functions of their inputs.
type Workflow struct {
	retriever Retriever
	relevance *RelevanceGrader
	generator *Generator
	genGrader *GenerationGrader
	rewriter  *Rewriter
	logger    *zap.Logger
}

// NewWorkflow wires the loop. reasoning handles generation and rewriting;
// grader handles the three classification calls.
func NewWorkflow(retriever Retriever, reasoning, grader Capability, logger *zap.Logger) *Workflow {
	return &Workflow{
		retriever: retriever,
		relevance: NewRelevanceGrader(grader, AffirmativeSubstring, logger),
		generator: NewGenerator(reasoning),
		genGrader: NewGenerationGrader(grader, AffirmativeSubstring, logger),
		rewriter:  NewRewriter(reasoning),
		logger:    logger,
	}
}

// Run executes the loop for one question. temperature applies to generation
// only; grading and rewriting always run deterministic. Any external-call
// failure aborts the run with no partial answer. The hard cap on generation
// attempts guarantees Run terminates for every input.
func (w *Workflow) Run(ctx context.Context, question string, temperature float64) (*Result, error) {
	s := &State{Question: question}
	node := NodeRetrieve

	for node != NodeDone {
		w.logger.Debug("entering node", zap.Stringer("node", node))
		out, err := w.step(ctx, node, s, temperature)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", node, err)
		}
		next, ok := transitions[node][out]
		if !ok {
			return nil, fmt.Errorf("no transition from %s on outcome %q", node, out)
		}
		node = next
	}

	return &Result{Answer: s.Generation, FinalQuestion: s.Question, Attempts: s.GenerateAttempts}, nil
}

func (w *Workflow) step(ctx context.Context, node Node, s *State, temperature float64) (outcome, error) {
	switch node {
	case NodeRetrieve:
		docs, err := w.retriever.Retrieve(ctx, s.Question)
		if err != nil {
			return "", err
		}
		s.Documents = docs
		return outcomeNext, nil

	case NodeGradeDocuments:
		docs, err := w.relevance.FilterRelevant(ctx, s.Question, s.Documents)
		if err != nil {
			return "", err
		}
		s.Documents = docs
		if len(s.Documents) == 0 {
			return outcomeNoDocuments, nil
		}
		return outcomeDocuments, nil

	case NodeGenerate:
		if err := w.generator.Generate(ctx, s, temperature); err != nil {
			return "", err
		}
		return outcomeNext, nil

	case NodeGradeGeneration:
		decision, err := w.genGrader.Decide(ctx, s)
		if err != nil {
			return "", err
		}
		switch decision {
		case Regenerate:
			return outcomeRegenerate, nil
		case Rewrite:
			return outcomeRewrite, nil
		default:
			return outcomeAccept, nil
		}

	case NodeRewrite:
		better, err := w.rewriter.Rewrite(ctx, s.Question)
		if err != nil {
			return "", err
		}
		s.Question = better
		return outcomeNext, nil

	default:
		return "", fmt.Errorf("unexpected node %s", node)
	}
}
