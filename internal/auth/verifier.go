package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"music-go/internal/cache"
	"music-go/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// KeySetCacheKey 密钥集在缓存中的键
const KeySetCacheKey = "jwks:cache"

// VerifierOptions 令牌校验参数
type VerifierOptions struct {
	JWKSURL      string
	Audience     string
	Issuer       string
	Algorithms   []string
	CacheTTL     time.Duration
	FetchTimeout time.Duration
	HTTPClient   *http.Client
}

// JWKSVerifier 使用远程 JWKS 校验令牌，密钥集经由缓存复用
type JWKSVerifier struct {
	opts  VerifierOptions
	cache cache.Cache
	group singleflight.Group
	now   func() time.Time
}

func NewJWKSVerifier(opts VerifierOptions, c cache.Cache) *JWKSVerifier {
	if len(opts.Algorithms) == 0 {
		opts.Algorithms = []string{"RS256"}
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Hour
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 10 * time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.FetchTimeout}
	}
	return &JWKSVerifier{opts: opts, cache: c, now: time.Now}
}

// WithNowFunc 替换时间源，供测试使用
func (v *JWKSVerifier) WithNowFunc(now func() time.Time) {
	v.now = now
}

// Verify 校验签名与声明并提取身份
func (v *JWKSVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrTokenMissing
	}
	if v.opts.JWKSURL == "" {
		return nil, ErrNotConfigured
	}

	unverified, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, ErrTokenInvalid.Wrap(err).WithDetail("error", err.Error())
	}
	kid, _ := unverified.Header["kid"].(string)
	if kid == "" {
		return nil, ErrUnknownKey
	}

	keys, err := v.keySet(ctx)
	if err != nil {
		return nil, ErrKeySetFetch.Wrap(err).WithDetail("error", err.Error())
	}
	jwk, ok := keys.find(kid)
	if !ok {
		return nil, ErrUnknownKey
	}
	publicKey, err := jwk.PublicKey()
	if err != nil {
		return nil, ErrTokenInvalid.Wrap(err).WithDetail("error", err.Error())
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods(v.opts.Algorithms),
		jwt.WithTimeFunc(v.now),
	}
	if v.opts.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(v.opts.Audience))
	}
	if v.opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(v.opts.Issuer))
	}

	claims := jwt.MapClaims{}
	_, err = jwt.NewParser(parserOpts...).ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return publicKey, nil
	})
	if err != nil {
		return nil, classifyParseError(err)
	}

	return identityFromClaims(claims)
}

func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired.Wrap(err)
	case errors.Is(err, jwt.ErrTokenInvalidAudience),
		errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued),
		errors.Is(err, jwt.ErrTokenInvalidClaims):
		return ErrClaimsInvalid.Wrap(err).WithDetail("error", err.Error())
	default:
		return ErrTokenInvalid.Wrap(err).WithDetail("error", err.Error())
	}
}

// keySet 先查缓存，未命中时拉取远程密钥集；并发未命中合并为一次请求
func (v *JWKSVerifier) keySet(ctx context.Context) (*KeySet, error) {
	var cached KeySet
	hit, err := v.cache.Get(ctx, KeySetCacheKey, &cached)
	if err != nil {
		logger.Warn("JWKS cache read failed, fetching directly", zap.Error(err))
	} else if hit && len(cached.Keys) > 0 {
		return &cached, nil
	}

	// 合并后的拉取不随首个调用方取消，只受拉取超时约束
	fetchCtx := context.WithoutCancel(ctx)
	res, err, _ := v.group.Do(KeySetCacheKey, func() (interface{}, error) {
		set, err := v.fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		if err := v.cache.Set(fetchCtx, KeySetCacheKey, set, v.opts.CacheTTL); err != nil {
			logger.Warn("JWKS cache write failed", zap.Error(err))
		}
		return set, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*KeySet), nil
}

func (v *JWKSVerifier) fetch(ctx context.Context) (*KeySet, error) {
	ctx, cancel := context.WithTimeout(ctx, v.opts.FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.opts.JWKSURL, nil)
	if err != nil {
		return nil, err
	}
	res, err := v.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jwks request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("jwks fetch failed: %s", res.Status)
	}

	var set KeySet
	if err := json.NewDecoder(res.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("decode jwks: %w", err)
	}
	if len(set.Keys) == 0 {
		return nil, fmt.Errorf("jwks contained no keys")
	}

	logger.Info("JWKS fetched", zap.String("url", v.opts.JWKSURL), zap.Int("keys", len(set.Keys)))
	return &set, nil
}

func identityFromClaims(claims jwt.MapClaims) (*Identity, error) {
	sub, _ := claims["sub"].(string)
	if strings.TrimSpace(sub) == "" {
		return nil, ErrSubjectMissing
	}

	identity := &Identity{
		ExternalID: sub,
		Roles:      []string{},
	}
	identity.Email, _ = claims["email"].(string)

	switch roles := claims["roles"].(type) {
	case []interface{}:
		for _, r := range roles {
			if s, ok := r.(string); ok {
				identity.Roles = append(identity.Roles, s)
			}
		}
	case string:
		if roles != "" {
			identity.Roles = append(identity.Roles, roles)
		}
	}

	if nickname, _ := claims["nickname"].(string); nickname != "" {
		identity.DisplayName = nickname
	} else if name, _ := claims["name"].(string); name != "" {
		identity.DisplayName = name
	}

	return identity, nil
}

var (
	_ TokenVerifier = (*JWKSVerifier)(nil)
	_ TokenVerifier = (*DevBypass)(nil)
)
