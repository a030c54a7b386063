package terminal

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind is the closed vocabulary of user-facing failure kinds.
type ErrorKind string

const (
	ErrorKindValidation ErrorKind = "validation"
	ErrorKindConfig     ErrorKind = "config"
	ErrorKindAPI        ErrorKind = "api"
	ErrorKindSubmission ErrorKind = "submission"
	ErrorKindReverted   ErrorKind = "reverted"
	ErrorKindReceipt    ErrorKind = "receipt"
	ErrorKindUnknown    ErrorKind = "unknown"
)

// matchRule maps a raw failure substring to an error kind and a targeted
// human-readable hint. Rules are evaluated in order, first match wins.
type matchRule struct {
	contains string
	kind     ErrorKind
	hint     string
}

// Hints keep documented, matchable substrings ("too long", "insufficient
// payment", "invalid signature") stable for callers that string-match.
var matchRules = []matchRule{
	{"insufficient payment", ErrorKindReverted, "payment below the current mint price"},
	{"message too long", ErrorKindReverted, "message text too long for the contract"},
	{"invalid signature", ErrorKindReverted, "mint signature rejected by the contract"},
	{"insufficient funds", ErrorKindSubmission, "wallet balance too low to cover price and gas"},
	{"nonce too low", ErrorKindSubmission, "stale nonce, a competing transaction was mined first"},
}

// classify maps a raw failure message to an error kind and a user-facing
// message. Unmatched messages keep the fallback kind and surface the raw
// text untouched.
func classify(fallback ErrorKind, raw string) (ErrorKind, string) {
	lowered := strings.ToLower(raw)
	for _, rule := range matchRules {
		if strings.Contains(lowered, rule.contains) {
			return rule.kind, fmt.Sprintf("%s: %s", rule.hint, raw)
		}
	}

	if fallback == "" {
		fallback = ErrorKindUnknown
	}

	return fallback, raw
}

// stageError is an error tagged with the pipeline stage kind that produced
// it, so the orchestrator can fold it into a PostResult without re-deriving
// where it came from.
type stageError struct {
	kind ErrorKind
	msg  string
}

func (e *stageError) Error() string {
	return e.msg
}

func newStageError(kind ErrorKind, msg string) error {
	return &stageError{kind: kind, msg: msg}
}

// stageKind extracts the tagged kind of err, or returns fallback for plain
// errors.
func stageKind(err error, fallback ErrorKind) ErrorKind {
	var se *stageError
	if errors.As(err, &se) {
		return se.kind
	}

	return fallback
}

// ConfigFailure folds a configuration resolution error into the result
// shape, for callers that report failures as data instead of raising.
func ConfigFailure(err error) PostResult {
	return PostResult{
		Success:   false,
		ErrorKind: ErrorKindConfig,
		Error:     err.Error(),
	}
}
