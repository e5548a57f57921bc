package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"not found", NotFound("participant not found"), KindNotFound},
		{"access denied", AccessDenied("no access"), KindAccessDenied},
		{"rule violation", RuleViolation("phase already completed"), KindRuleViolation},
		{"conflict", Conflict("signature already exists"), KindConflict},
		{"internal", Internal("render failed", errors.New("boom")), KindInternal},
		{"plain error", errors.New("something"), KindInternal},
		{"wrapped", fmt.Errorf("while signing: %w", Conflict("dup")), KindConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMessageOf(t *testing.T) {
	if got := MessageOf(NotFound("annex not found")); got != "annex not found" {
		t.Errorf("MessageOf() = %q", got)
	}

	wrapped := fmt.Errorf("context: %w", AccessDenied("nope"))
	if got := MessageOf(wrapped); got != "nope" {
		t.Errorf("MessageOf(wrapped) = %q", got)
	}

	plain := errors.New("raw failure")
	if got := MessageOf(plain); got != "raw failure" {
		t.Errorf("MessageOf(plain) = %q", got)
	}
}

func TestInternalUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal("could not persist annex", cause)

	if !errors.Is(err, cause) {
		t.Error("Internal() should wrap its cause")
	}
}
