package verify

import (
	"errors"
	"fmt"
)

// Outcome taxonomy. None of these reach callers of VerifyAuthenticity as
// errors; they are reported through Analysis.Err for logging and storage.
var (
	ErrNoEvidence       = errors.New("no reference content to compare against")
	ErrModelUnavailable = errors.New("language model produced no output")
	ErrMalformedOutput  = errors.New("language model output is malformed")

	errJSONNotFound = fmt.Errorf("%w: no JSON object found", ErrMalformedOutput)
	errJSONParse    = fmt.Errorf("%w: JSON object does not decode", ErrMalformedOutput)
)

// Reasons placed in key_findings of an error result
const (
	reasonJSONNotFound = "Could not find JSON in model response"
	reasonJSONParse    = "Failed to parse model response"
	reasonNoOutput     = "Invalid response from model"
)

// Outcome names how a verification call ended
type Outcome string

const (
	OutcomeOK               Outcome = "ok"
	OutcomeNoEvidence       Outcome = "no_evidence"
	OutcomeModelUnavailable Outcome = "model_unavailable"
	OutcomeMalformedOutput  Outcome = "malformed_output"
)
