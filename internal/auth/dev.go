package auth

import (
	"context"
	"crypto/subtle"
)

// DevIdentity 开发令牌对应的固定身份
func DevIdentity() *Identity {
	return &Identity{
		ExternalID:  "dev_user_1",
		Email:       "dev@example.com",
		Roles:       []string{"admin"},
		DisplayName: "Developer",
	}
}

// DevBypass 仅在开发模式下装配：命中固定令牌时跳过校验
type DevBypass struct {
	token string
	next  TokenVerifier
}

func NewDevBypass(token string, next TokenVerifier) *DevBypass {
	return &DevBypass{token: token, next: next}
}

func (d *DevBypass) Verify(ctx context.Context, token string) (*Identity, error) {
	if d.token != "" && len(token) == len(d.token) &&
		subtle.ConstantTimeCompare([]byte(token), []byte(d.token)) == 1 {
		return DevIdentity(), nil
	}
	return d.next.Verify(ctx, token)
}
