package rag

import "fmt"

// GenerationError marks a failed LLM call in the final answer step. Unlike
// refinement failures it is surfaced to the caller; no partial answer is
// fabricated.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("answer generation: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
