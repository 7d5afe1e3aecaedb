package weather

import (
	"fmt"
	"strings"
)

// FailurePolicy decides what the gateway does when a provider call fails.
type FailurePolicy int

const (
	// UseFallback logs the failure and serves the fixed fallback payload.
	UseFallback FailurePolicy = iota
	// PropagateError returns the failure to the caller.
	PropagateError
)

func (p FailurePolicy) String() string {
	switch p {
	case UseFallback:
		return "fallback"
	case PropagateError:
		return "propagate"
	default:
		return fmt.Sprintf("FailurePolicy(%d)", int(p))
	}
}

// ParseFailurePolicy parses "fallback" or "propagate" (case-insensitive).
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fallback", "":
		return UseFallback, nil
	case "propagate":
		return PropagateError, nil
	default:
		return UseFallback, fmt.Errorf("unknown failure policy %q", s)
	}
}
