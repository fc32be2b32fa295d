package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"music-go/internal/cache"
	"music-go/pkg/apperr"

	"github.com/golang-jwt/jwt/v5"
)

type jwksServer struct {
	*httptest.Server
	hits   atomic.Int32
	status atomic.Int32
}

func newJWKSServer(t *testing.T, key *rsa.PrivateKey, kid string) *jwksServer {
	t.Helper()
	s := &jwksServer{}
	s.status.Store(http.StatusOK)
	set := KeySet{Keys: []JSONWebKey{{
		Kty: "RSA",
		Kid: kid,
		Alg: "RS256",
		N:   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
	}}}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		code := int(s.status.Load())
		if code != http.StatusOK {
			w.WriteHeader(code)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(set)
	}))
	t.Cleanup(s.Close)
	return s
}

func generateKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return key
}

func signToken(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if kid != "" {
		tok.Header["kid"] = kid
	}
	signed, err := tok.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func baseClaims(now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   "auth0|user-1",
		"email": "listener@example.com",
		"name":  "Listener",
		"roles": []string{"user"},
		"aud":   "music-app",
		"iss":   "https://issuer.example.com/",
		"iat":   now.Add(-time.Minute).Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
}

func newTestVerifier(url string, c cache.Cache) *JWKSVerifier {
	return NewJWKSVerifier(VerifierOptions{
		JWKSURL:  url,
		Audience: "music-app",
		Issuer:   "https://issuer.example.com/",
	}, c)
}

func TestVerifyValidToken(t *testing.T) {
	key := generateKey(t)
	srv := newJWKSServer(t, key, "k1")
	v := newTestVerifier(srv.URL, cache.NewMemoryCache())

	claims := baseClaims(time.Now())
	claims["nickname"] = "dj-one"
	id, err := v.Verify(context.Background(), signToken(t, key, "k1", claims))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.ExternalID != "auth0|user-1" {
		t.Fatalf("external id got=%q", id.ExternalID)
	}
	if id.Email != "listener@example.com" {
		t.Fatalf("email got=%q", id.Email)
	}
	if id.DisplayName != "dj-one" {
		t.Fatalf("nickname should win over name, got %q", id.DisplayName)
	}
	if len(id.Roles) != 1 || id.Roles[0] != "user" {
		t.Fatalf("roles got=%v", id.Roles)
	}
}

func TestVerifyDefaultsRolesAndFallsBackToName(t *testing.T) {
	key := generateKey(t)
	srv := newJWKSServer(t, key, "k1")
	v := newTestVerifier(srv.URL, cache.NewMemoryCache())

	claims := baseClaims(time.Now())
	delete(claims, "roles")
	id, err := v.Verify(context.Background(), signToken(t, key, "k1", claims))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.Roles == nil || len(id.Roles) != 0 {
		t.Fatalf("roles should default to empty list, got %v", id.Roles)
	}
	if id.DisplayName != "Listener" {
		t.Fatalf("display name got=%q", id.DisplayName)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	key := generateKey(t)
	srv := newJWKSServer(t, key, "k1")
	v := newTestVerifier(srv.URL, cache.NewMemoryCache())

	claims := baseClaims(time.Now().Add(-3 * time.Hour))
	_, err := v.Verify(context.Background(), signToken(t, key, "k1", claims))
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected expired error, got %v", err)
	}
	if !apperr.IsKind(err, apperr.KindAuthentication) {
		t.Fatalf("expired token should be an authentication error")
	}
}

func TestVerifyClaimMismatch(t *testing.T) {
	key := generateKey(t)
	srv := newJWKSServer(t, key, "k1")
	v := newTestVerifier(srv.URL, cache.NewMemoryCache())

	claims := baseClaims(time.Now())
	claims["aud"] = "another-app"
	_, err := v.Verify(context.Background(), signToken(t, key, "k1", claims))
	if !errors.Is(err, ErrClaimsInvalid) {
		t.Fatalf("expected claims error for audience, got %v", err)
	}

	claims = baseClaims(time.Now())
	claims["iss"] = "https://evil.example.com/"
	_, err = v.Verify(context.Background(), signToken(t, key, "k1", claims))
	if !errors.Is(err, ErrClaimsInvalid) {
		t.Fatalf("expected claims error for issuer, got %v", err)
	}
}

func TestVerifyUnknownKid(t *testing.T) {
	key := generateKey(t)
	srv := newJWKSServer(t, key, "k1")
	v := newTestVerifier(srv.URL, cache.NewMemoryCache())

	_, err := v.Verify(context.Background(), signToken(t, key, "other", baseClaims(time.Now())))
	if !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected unknown kid error, got %v", err)
	}

	_, err = v.Verify(context.Background(), signToken(t, key, "", baseClaims(time.Now())))
	if !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("missing kid should be rejected, got %v", err)
	}
}

func TestVerifyWrongSignature(t *testing.T) {
	key := generateKey(t)
	forged := generateKey(t)
	srv := newJWKSServer(t, key, "k1")
	v := newTestVerifier(srv.URL, cache.NewMemoryCache())

	_, err := v.Verify(context.Background(), signToken(t, forged, "k1", baseClaims(time.Now())))
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestVerifyMissingSubject(t *testing.T) {
	key := generateKey(t)
	srv := newJWKSServer(t, key, "k1")
	v := newTestVerifier(srv.URL, cache.NewMemoryCache())

	claims := baseClaims(time.Now())
	delete(claims, "sub")
	_, err := v.Verify(context.Background(), signToken(t, key, "k1", claims))
	if !errors.Is(err, ErrSubjectMissing) {
		t.Fatalf("expected missing sub error, got %v", err)
	}
}

func TestKeySetIsCachedBetweenCalls(t *testing.T) {
	key := generateKey(t)
	srv := newJWKSServer(t, key, "k1")
	c := cache.NewMemoryCache()
	v := newTestVerifier(srv.URL, c)

	token := signToken(t, key, "k1", baseClaims(time.Now()))
	for i := 0; i < 3; i++ {
		if _, err := v.Verify(context.Background(), token); err != nil {
			t.Fatalf("Verify #%d: %v", i, err)
		}
	}
	if got := srv.hits.Load(); got != 1 {
		t.Fatalf("jwks should be fetched once, got %d fetches", got)
	}

	var cached KeySet
	hit, err := c.Get(context.Background(), KeySetCacheKey, &cached)
	if err != nil || !hit {
		t.Fatalf("key set should be cached under %s", KeySetCacheKey)
	}
}

func TestConcurrentVerifyStaysCorrect(t *testing.T) {
	key := generateKey(t)
	srv := newJWKSServer(t, key, "k1")
	v := newTestVerifier(srv.URL, cache.NewMemoryCache())
	token := signToken(t, key, "k1", baseClaims(time.Now()))

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := v.Verify(context.Background(), token); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent verify failed: %v", err)
	}
}

func TestKeySetFetchFailure(t *testing.T) {
	key := generateKey(t)
	srv := newJWKSServer(t, key, "k1")
	srv.status.Store(http.StatusInternalServerError)
	v := newTestVerifier(srv.URL, cache.NewMemoryCache())

	_, err := v.Verify(context.Background(), signToken(t, key, "k1", baseClaims(time.Now())))
	if !errors.Is(err, ErrKeySetFetch) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	e, _ := apperr.As(err)
	if e.Status() != http.StatusUnauthorized {
		t.Fatalf("fetch failure should map to 401, got %d", e.Status())
	}
	if _, ok := e.Details["error"]; !ok {
		t.Fatalf("fetch failure should carry details.error")
	}
}

func TestKeySetFetchIgnoresCallerCancellation(t *testing.T) {
	key := generateKey(t)
	srv := newJWKSServer(t, key, "k1")
	v := newTestVerifier(srv.URL, cache.NewMemoryCache())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	token := signToken(t, key, "k1", baseClaims(time.Now()))
	if _, err := v.Verify(ctx, token); err != nil {
		t.Fatalf("Verify with cancelled caller context: %v", err)
	}
	if got := srv.hits.Load(); got != 1 {
		t.Fatalf("expected one fetch, got %d", got)
	}
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string, interface{}) (bool, error) {
	return false, errors.New("connection refused")
}

func (brokenCache) Set(context.Context, string, interface{}, time.Duration) error {
	return errors.New("connection refused")
}

func (brokenCache) Delete(context.Context, string) error {
	return errors.New("connection refused")
}

func TestBrokenCacheDegradesToDirectFetch(t *testing.T) {
	key := generateKey(t)
	srv := newJWKSServer(t, key, "k1")
	v := newTestVerifier(srv.URL, brokenCache{})

	token := signToken(t, key, "k1", baseClaims(time.Now()))
	if _, err := v.Verify(context.Background(), token); err != nil {
		t.Fatalf("Verify with broken cache: %v", err)
	}
	if _, err := v.Verify(context.Background(), token); err != nil {
		t.Fatalf("second Verify with broken cache: %v", err)
	}
	if got := srv.hits.Load(); got != 2 {
		t.Fatalf("each call should fetch directly, got %d fetches", got)
	}
}

func TestDevBypass(t *testing.T) {
	key := generateKey(t)
	srv := newJWKSServer(t, key, "k1")
	v := NewDevBypass("dev-token-2025", newTestVerifier(srv.URL, cache.NewMemoryCache()))

	id, err := v.Verify(context.Background(), "dev-token-2025")
	if err != nil {
		t.Fatalf("dev token: %v", err)
	}
	if id.ExternalID != "dev_user_1" || id.DisplayName != "Developer" || id.Roles[0] != "admin" {
		t.Fatalf("unexpected dev identity: %+v", id)
	}
	if srv.hits.Load() != 0 {
		t.Fatalf("dev token must not reach the key set")
	}

	id, err = v.Verify(context.Background(), signToken(t, key, "k1", baseClaims(time.Now())))
	if err != nil {
		t.Fatalf("real token through bypass: %v", err)
	}
	if id.ExternalID != "auth0|user-1" {
		t.Fatalf("real token should be verified normally, got %+v", id)
	}

	if _, err := v.Verify(context.Background(), "dev-token-2024"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("near-miss dev token should be rejected, got %v", err)
	}
}
