package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusByKind(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
		code string
	}{
		{Unauthorized("x"), http.StatusUnauthorized, CodeUnauthorized},
		{Forbidden("x"), http.StatusForbidden, CodeForbidden},
		{NotFound("x"), http.StatusNotFound, CodeNotFound},
		{Validation("x"), http.StatusUnprocessableEntity, CodeValidation},
		{Duplicate("x"), http.StatusConflict, CodeDuplicate},
		{RateLimited("x"), http.StatusTooManyRequests, CodeRateLimited},
	}
	for _, tc := range cases {
		if got := tc.err.Status(); got != tc.want {
			t.Fatalf("%s: status got=%d want=%d", tc.code, got, tc.want)
		}
		if tc.err.Code != tc.code {
			t.Fatalf("code got=%s want=%s", tc.err.Code, tc.code)
		}
	}
}

func TestDerivedErrorMatchesSentinel(t *testing.T) {
	sentinel := NotFound("track not found")
	other := NotFound("track not found")

	derived := sentinel.Wrap(errors.New("record not found")).WithDetail("track_id", 7)
	wrapped := fmt.Errorf("get track: %w", derived)

	if !errors.Is(wrapped, sentinel) {
		t.Fatalf("derived error should match its sentinel")
	}
	if errors.Is(wrapped, other) {
		t.Fatalf("derived error should not match an unrelated sentinel")
	}
	if sentinel.Details != nil {
		t.Fatalf("sentinel details must stay untouched, got %v", sentinel.Details)
	}

	e, ok := As(wrapped)
	if !ok {
		t.Fatalf("As should find *Error in chain")
	}
	if e.Details["track_id"] != 7 {
		t.Fatalf("unexpected details: %v", e.Details)
	}
	if !IsKind(wrapped, KindNotFound) {
		t.Fatalf("IsKind should report not found")
	}
}
