package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// 角色
const (
	RoleTenantAdmin  = "TENANT_ADMIN"
	RoleTenantMember = "TENANT_MEMBER"
)

var (
	// ErrInvalidToken Token 无效
	ErrInvalidToken = errors.New("invalid token")
	// ErrUnknownRole 未知角色
	ErrUnknownRole = errors.New("unknown role")
)

// IsValidRole 判断角色是否受支持
func IsValidRole(role string) bool {
	return role == RoleTenantAdmin || role == RoleTenantMember
}

// Claims JWT 声明
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Manager 签发和校验 HS256 Token
type Manager struct {
	secretKey []byte
	ttl       time.Duration
}

// NewManager 创建 Token 管理器，ttl 为 0 时默认 24 小时
func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{secretKey: []byte(secret), ttl: ttl}
}

// IssueToken 为 subject 签发指定角色的 Token
func (m *Manager) IssueToken(subject, role string) (string, error) {
	if !IsValidRole(role) {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}

	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// ParseToken 校验签名和有效期并返回声明
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("无效的签名算法")
		}
		return m.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !IsValidRole(claims.Role) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrUnknownRole)
	}

	return claims, nil
}
