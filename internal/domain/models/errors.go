package models

import (
	"errors"
	"fmt"
)

// InsufficientDataError signals that a window is too short for a requested
// statistic. Recoverable: the caller skips that pair/window.
type InsufficientDataError struct {
	Op   string
	Need int
	Got  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: insufficient data: need %d samples, got %d", e.Op, e.Need, e.Got)
}

// NewInsufficientData builds an InsufficientDataError.
func NewInsufficientData(op string, need, got int) error {
	return &InsufficientDataError{Op: op, Need: need, Got: got}
}

// IsInsufficientData reports whether err is an InsufficientDataError.
func IsInsufficientData(err error) bool {
	var ide *InsufficientDataError
	return errors.As(err, &ide)
}

// NotFittedError signals a predictor was asked to predict before fit.
// An ordering bug: it fails the single pair's evaluation, not the cycle.
type NotFittedError struct {
	Pair string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("predictor for %s: predict called before fit", e.Pair)
}

// IsNotFitted reports whether err is a NotFittedError.
func IsNotFitted(err error) bool {
	var nfe *NotFittedError
	return errors.As(err, &nfe)
}

// InvalidConfigurationError signals a parameter outside its valid range.
// Surfaced at startup; the process must not run with it.
type InvalidConfigurationError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Reason)
}
