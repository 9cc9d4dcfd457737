package entities

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput rejects a planning run before any netting happens
	ErrInvalidInput = errors.New("invalid input")
	// ErrCycleDetected rejects a BOM graph in which an item is its own component
	ErrCycleDetected = errors.New("BOM cycle detected")
)

// ValidationError collects every input problem found in a planning run
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	switch len(e.Problems) {
	case 0:
		return ErrInvalidInput.Error()
	case 1:
		return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Problems[0])
	default:
		return fmt.Sprintf("%s: %d problems: %s", ErrInvalidInput, len(e.Problems), strings.Join(e.Problems, "; "))
	}
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// CycleError names the items forming a BOM cycle.
// Path starts and ends with the same item, e.g. [A B A].
type CycleError struct {
	Path []ItemCode
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, code := range e.Path {
		parts[i] = string(code)
	}
	return fmt.Sprintf("%s: %s", ErrCycleDetected, strings.Join(parts, " -> "))
}

func (e *CycleError) Unwrap() error {
	return ErrCycleDetected
}
