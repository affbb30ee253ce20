package metrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/skillswap/skillswap-api/internal/core/domain"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "success"},
		{domain.ErrAlreadyExists, "already_exists"},
		{fmt.Errorf("login: %w", domain.ErrUnknownPrincipal), "unknown_principal"},
		{domain.ErrAuthenticationFailed, "bad_credentials"},
		{domain.ErrTooManyAttempts, "locked"},
		{fmt.Errorf("%w: username is required", domain.ErrInvalidInput), "invalid_input"},
		{domain.ErrForbidden, "forbidden"},
		{domain.ErrProfileNotFound, "not_found"},
		{errors.New("connection refused"), "error"},
	}

	for _, tt := range tests {
		if got := Outcome(tt.err); got != tt.want {
			t.Errorf("Outcome(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestLoginsTotal_CountsByLabel(t *testing.T) {
	before := testutil.ToFloat64(LoginsTotal.WithLabelValues("admin", "locked"))

	LoginsTotal.WithLabelValues("admin", Outcome(domain.ErrTooManyAttempts)).Inc()

	if got := testutil.ToFloat64(LoginsTotal.WithLabelValues("admin", "locked")); got != before+1 {
		t.Fatalf("expected %v, got %v", before+1, got)
	}
}
