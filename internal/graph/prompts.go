package graph

import "fmt"

const generateSystem = "You are an assistant for question-answering tasks. " +
	"Use the following pieces of retrieved context to answer the question. " +
	"If you don't know the answer, just say that you don't know. " +
	"Use three sentences maximum and keep the answer concise."

const relevanceSystem = "You are a grader assessing relevance of a retrieved document to a user question. " +
	"If the document contains keyword(s) or semantic meaning related to the user question, grade it as relevant. " +
	"Give a binary score 'yes' or 'no' score to indicate whether the document is relevant to the question."

const groundednessSystem = "You are a grader assessing whether an LLM generation is grounded in / supported by a set of retrieved facts. " +
	"Give a binary score 'yes' or 'no'. 'Yes' means the answer is grounded in and supported by the set of facts."

const answerSystem = "You are a grader assessing whether an answer addresses / resolves a question. " +
	"Give a binary score 'yes' or 'no'. 'Yes' means the answer resolves the question."

const rewriteSystem = "You are a question re-writer that converts an input question to a better version that is optimized " +
	"for vectorstore retrieval. Look at the input and try to reason about the underlying semantic intent / meaning."

func generatePrompt(question, context string) string {
	return fmt.Sprintf("Question: %s\nContext: %s\nAnswer:", question, context)
}

func relevancePrompt(document, question string) string {
	return fmt.Sprintf("Retrieved document:\n\n%s\n\nUser question: %s", document, question)
}

func groundednessPrompt(facts, generation string) string {
	return fmt.Sprintf("Set of facts:\n\n%s\n\nLLM generation: %s", facts, generation)
}

func answerPrompt(question, generation string) string {
	return fmt.Sprintf("User question:\n\n%s\n\nLLM generation: %s", question, generation)
}

func rewritePrompt(question string) string {
	return fmt.Sprintf("Here is the initial question:\n\n%s\n\nFormulate an improved question.", question)
}
