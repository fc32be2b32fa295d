// Package auth 校验外部身份提供方签发的 JWT，并从中提取调用方身份。
package auth

import (
	"context"

	"music-go/pkg/apperr"
)

// Identity 令牌中解析出的调用方身份
type Identity struct {
	ExternalID  string   `json:"user_id"`
	Email       string   `json:"email,omitempty"`
	Roles       []string `json:"roles"`
	DisplayName string   `json:"display_name,omitempty"`
}

// TokenVerifier 校验令牌并返回身份
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

var (
	ErrTokenMissing   = apperr.Unauthorized("缺少认证令牌")
	ErrTokenInvalid   = apperr.Unauthorized("无效的认证令牌")
	ErrTokenExpired   = apperr.Unauthorized("token expired")
	ErrClaimsInvalid  = apperr.Unauthorized("令牌声明校验失败")
	ErrUnknownKey     = apperr.Unauthorized("Invalid kid in token header")
	ErrKeySetFetch    = apperr.Unauthorized("无法获取签名公钥")
	ErrSubjectMissing = apperr.Unauthorized("令牌缺少 sub 声明")
	ErrNotConfigured  = apperr.Unauthorized("未配置令牌校验")
)
