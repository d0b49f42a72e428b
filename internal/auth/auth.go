package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	RolePayrollAdmin = "payroll_admin"
	RolePayrollClerk = "payroll_clerk"
	RoleAuditor      = "auditor"

	PermPayrollPreview = "payroll.preview"
	PermPayrollRead    = "payroll.read"
	PermPayrollApprove = "payroll.approve"
	PermPayrollExport  = "payroll.export"
)

type Claims struct {
	UserID   string `json:"uid"`
	TenantID string `json:"tid"`
	RoleName string `json:"role"`
	jwt.RegisteredClaims
}

// UserContext is what the auth middleware places on the request context.
type UserContext struct {
	UserID   string
	TenantID string
	RoleName string
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func GenerateToken(secret string, claims Claims, ttl time.Duration) (string, error) {
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.UserID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// RolePermissions is a fixed role to permission table. Roles are issued by
// the identity provider; this service only checks them.
type RolePermissions map[string][]string

func DefaultRolePermissions() RolePermissions {
	return RolePermissions{
		RolePayrollAdmin: {PermPayrollPreview, PermPayrollRead, PermPayrollApprove, PermPayrollExport},
		RolePayrollClerk: {PermPayrollPreview, PermPayrollRead, PermPayrollExport},
		RoleAuditor:      {PermPayrollRead, PermPayrollExport},
	}
}

func (p RolePermissions) HasPermission(_ context.Context, role, permission string) (bool, error) {
	for _, granted := range p[role] {
		if granted == permission {
			return true, nil
		}
	}
	return false, nil
}
