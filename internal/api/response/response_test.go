package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"music-go/pkg/apperr"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func render(t *testing.T, err error) (int, ErrorResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	Error(c, err)

	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return w.Code, body
}

func TestErrorEnvelopeForAppError(t *testing.T) {
	notFound := apperr.NotFound("音轨不存在")
	code, body := render(t, fmt.Errorf("lookup: %w", notFound.WithDetail("track_id", 7)))

	if code != http.StatusNotFound {
		t.Fatalf("status got=%d", code)
	}
	if body.Error.Code != apperr.CodeNotFound || body.Error.Message != "音轨不存在" {
		t.Fatalf("unexpected envelope %+v", body.Error)
	}
	if body.Error.Details["track_id"] != float64(7) {
		t.Fatalf("details got=%v", body.Error.Details)
	}
}

func TestErrorEnvelopeHidesInternalErrors(t *testing.T) {
	code, body := render(t, errors.New("pq: connection reset by peer"))

	if code != http.StatusInternalServerError {
		t.Fatalf("status got=%d", code)
	}
	if body.Error.Code != apperr.CodeInternalError {
		t.Fatalf("code got=%s", body.Error.Code)
	}
	if body.Error.Message == "pq: connection reset by peer" {
		t.Fatalf("internal message leaked")
	}
	if body.Error.Details == nil {
		t.Fatalf("details should be an empty object")
	}
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.Unauthorized("x"), http.StatusUnauthorized},
		{apperr.Forbidden("x"), http.StatusForbidden},
		{apperr.Validation("x"), http.StatusUnprocessableEntity},
		{apperr.Duplicate("x"), http.StatusConflict},
		{apperr.RateLimited("x"), http.StatusTooManyRequests},
	}
	for _, tc := range cases {
		if code, _ := render(t, tc.err); code != tc.want {
			t.Fatalf("%v: status got=%d want=%d", tc.err, code, tc.want)
		}
	}
}
