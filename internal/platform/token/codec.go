// Package token implements the signed session credential: issuing, verification,
// the session cookie, and the Gin middleware gates built on top of it.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the session credential lifetime. There is no refresh flow;
// clients re-authenticate after expiry.
const TokenTTL = 7 * 24 * time.Hour

// Role is the canonical authorization role carried in the credential.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Claims is the decoded identity carried by a verified credential.
// Exactly one of the two identity forms is populated:
// the environment admin has Email set and UserID zero,
// a database-backed user has UserID set and Email empty.
type Claims struct {
	UserID uint
	Email  string
	Role   Role
}

// IsEnvAdmin reports whether the claims describe the environment-configured
// admin rather than a database-backed account.
func (c Claims) IsEnvAdmin() bool {
	return c.UserID == 0 && c.Email != ""
}

// ErrInvalidToken is returned by Verify for any credential that fails
// signature, structure, or expiry checks.
var ErrInvalidToken = errors.New("invalid token")

// Codec issues and verifies signed session credentials.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a Codec with the provided signing secret and lifetime.
// If ttl is zero, TokenTTL is used.
func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = TokenTTL
	}
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// IssueUser creates a signed credential for a database-backed user.
func (c *Codec) IssueUser(userID uint, role Role) (string, error) {
	return c.sign(jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"exp":  time.Now().Add(c.ttl).Unix(),
		"iat":  time.Now().Unix(),
	})
}

// IssueAdmin creates a signed credential for the environment admin.
func (c *Codec) IssueAdmin(email string) (string, error) {
	return c.sign(jwt.MapClaims{
		"email": email,
		"role":  string(RoleAdmin),
		"exp":   time.Now().Add(c.ttl).Unix(),
		"iat":   time.Now().Unix(),
	})
}

func (c *Codec) sign(claims jwt.MapClaims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of a credential and decodes its claims.
// Any verification failure is reported as ErrInvalidToken; callers must not
// distinguish the cause toward the client.
func (c *Codec) Verify(tokenStr string) (Claims, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// Check signing algorithm (only HMAC allowed)
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}

	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	out := Claims{}
	if sub, ok := mc["sub"].(float64); ok { // JWT numbers are decoded as float64
		out.UserID = uint(sub)
	}
	if email, ok := mc["email"].(string); ok {
		out.Email = email
	}
	role, ok := mc["role"].(string)
	if !ok || (role != string(RoleUser) && role != string(RoleAdmin)) {
		return Claims{}, ErrInvalidToken
	}
	out.Role = Role(role)

	if out.UserID == 0 && out.Email == "" {
		return Claims{}, ErrInvalidToken
	}
	return out, nil
}
