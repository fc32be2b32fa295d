package middleware

import (
	"strings"

	"music-go/internal/api/response"
	"music-go/internal/auth"
	"music-go/internal/model"
	"music-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ContextKeyIdentity  = "currentIdentity"
	ContextKeyPrincipal = "currentPrincipal"
)

// Principal 当前请求对应的本地用户
type Principal struct {
	ProfileID int64
	Profile   *model.UserProfile
}

// ProfileResolver 按令牌身份取本地用户资料，不存在时创建
type ProfileResolver interface {
	EnsureProfile(identity *auth.Identity) (*model.UserProfile, error)
}

// Authenticator 校验 Bearer 令牌并把身份写入上下文
type Authenticator struct {
	verifier auth.TokenVerifier
	profiles ProfileResolver
}

func NewAuthenticator(verifier auth.TokenVerifier, profiles ProfileResolver) *Authenticator {
	return &Authenticator{verifier: verifier, profiles: profiles}
}

// Required 必须携带有效令牌
func (a *Authenticator) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Abort(c, auth.ErrTokenMissing)
			return
		}
		if err := a.authenticate(c, token); err != nil {
			response.Abort(c, err)
			return
		}
		c.Next()
	}
}

// Optional 有令牌时解析身份，令牌无效按匿名处理
func (a *Authenticator) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if err := a.authenticate(c, token); err != nil {
				logger.Debug("Optional auth ignored invalid token",
					zap.String("path", c.Request.URL.Path),
					zap.Error(err),
				)
			}
		}
		c.Next()
	}
}

func (a *Authenticator) authenticate(c *gin.Context, token string) error {
	identity, err := a.verifier.Verify(c.Request.Context(), token)
	if err != nil {
		return err
	}
	profile, err := a.profiles.EnsureProfile(identity)
	if err != nil {
		return err
	}
	c.Set(ContextKeyIdentity, identity)
	c.Set(ContextKeyPrincipal, &Principal{ProfileID: profile.ID, Profile: profile})
	return nil
}

// GetIdentity 获取令牌身份
func GetIdentity(c *gin.Context) (*auth.Identity, bool) {
	val, exists := c.Get(ContextKeyIdentity)
	if !exists {
		return nil, false
	}
	identity, ok := val.(*auth.Identity)
	return identity, ok
}

// GetPrincipal 获取当前本地用户
func GetPrincipal(c *gin.Context) (*Principal, bool) {
	val, exists := c.Get(ContextKeyPrincipal)
	if !exists {
		return nil, false
	}
	p, ok := val.(*Principal)
	return p, ok
}

// GetCurrentUserID 当前用户资料ID，匿名时返回 0,false
func GetCurrentUserID(c *gin.Context) (int64, bool) {
	p, ok := GetPrincipal(c)
	if !ok {
		return 0, false
	}
	return p.ProfileID, true
}

// extractToken 从 Authorization 头中提取 Bearer Token
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
