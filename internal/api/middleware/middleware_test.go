package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"music-go/internal/api/response"
	"music-go/internal/auth"
	"music-go/internal/model"
	"music-go/pkg/apperr"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, token string) (*auth.Identity, error) {
	if token == "good" {
		return &auth.Identity{ExternalID: "ext-1", Roles: []string{}}, nil
	}
	return nil, auth.ErrTokenInvalid
}

type stubProfiles struct{}

func (stubProfiles) EnsureProfile(identity *auth.Identity) (*model.UserProfile, error) {
	return &model.UserProfile{ID: 42, UserID: identity.ExternalID, IsActive: true}, nil
}

func newAuthRouter() *gin.Engine {
	a := NewAuthenticator(stubVerifier{}, stubProfiles{})
	r := gin.New()
	whoami := func(c *gin.Context) {
		id, ok := GetCurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id, "authenticated": ok})
	}
	r.GET("/required", a.Required(), whoami)
	r.GET("/optional", a.Optional(), whoami)
	return r
}

func do(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequiredAuth(t *testing.T) {
	r := newAuthRouter()

	w := do(r, http.MethodGet, "/required", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: status got=%d", w.Code)
	}
	var body response.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != apperr.CodeUnauthorized {
		t.Fatalf("code got=%s", body.Error.Code)
	}

	if w := do(r, http.MethodGet, "/required", "bad"); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status got=%d", w.Code)
	}

	w = do(r, http.MethodGet, "/required", "good")
	if w.Code != http.StatusOK {
		t.Fatalf("good token: status got=%d body=%s", w.Code, w.Body.String())
	}
	var ok struct {
		UserID int64 `json:"user_id"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &ok)
	if ok.UserID != 42 {
		t.Fatalf("principal not attached, got %d", ok.UserID)
	}
}

func TestOptionalAuthFallsBackToAnonymous(t *testing.T) {
	r := newAuthRouter()

	for _, token := range []string{"", "bad"} {
		w := do(r, http.MethodGet, "/optional", token)
		if w.Code != http.StatusOK {
			t.Fatalf("token %q: status got=%d", token, w.Code)
		}
		var body struct {
			Authenticated bool `json:"authenticated"`
		}
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body.Authenticated {
			t.Fatalf("token %q should be anonymous", token)
		}
	}

	w := do(r, http.MethodGet, "/optional", "good")
	var body struct {
		Authenticated bool `json:"authenticated"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if !body.Authenticated {
		t.Fatalf("valid token should attach identity")
	}
}

func TestRateLimitReturns429(t *testing.T) {
	limiter := NewIPRateLimiter(1, time.Minute, 2, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.WithNowFunc(func() time.Time { return now })

	r := gin.New()
	r.POST("/upload", RateLimit(limiter), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 2; i++ {
		if w := do(r, http.MethodPost, "/upload", ""); w.Code != http.StatusNoContent {
			t.Fatalf("request %d within burst: status got=%d", i, w.Code)
		}
	}
	w := do(r, http.MethodPost, "/upload", "")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}

	now = now.Add(2 * time.Minute)
	if w := do(r, http.MethodPost, "/upload", ""); w.Code != http.StatusNoContent {
		t.Fatalf("limiter should refill, got %d", w.Code)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("allow origin got=%q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("unknown origin should be rejected, got %d", w.Code)
	}
}

func TestRecoveryUsesErrorEnvelope(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := do(r, http.MethodGet, "/boom", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status got=%d", w.Code)
	}
	var body response.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != apperr.CodeInternalError {
		t.Fatalf("code got=%s", body.Error.Code)
	}
}
