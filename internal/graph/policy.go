package graph

import "strings"

// VerdictPolicy turns a grader's raw response into a binary verdict.
type VerdictPolicy func(response string) bool

// AffirmativeSubstring treats any response containing "yes" (case-insensitive,
// substring, not exact) as affirmative. Local models rarely emit a clean
// one-token verdict, so strict parsing would reject many correct grades.
// Swapping in a stricter policy must not require touching the controller.
func AffirmativeSubstring(response string) bool {
	return strings.Contains(strings.ToLower(response), "yes")
}
