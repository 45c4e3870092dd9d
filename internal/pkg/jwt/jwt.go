package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Token types carried in the "type" claim
const (
	TypeAccess = "access"
	TypeSSE    = "sse"
)

var ErrMissingClaim = errors.New("missing or invalid claim")

// Claims identifies the person behind a request.
type Claims struct {
	PersonID string
	Name     string
	Role     attendance.Role
}

type Service interface {
	GenerateAccessToken(personID string, name string, role attendance.Role) (token string, expiresAt int64, err error)
	GenerateSSEToken(personID string) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (personID string, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime time.Duration
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) (Service, error) {
	expDuration, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration %q: %w", accessTokenExpirationTime, err)
	}

	return &JWTService{
		accessTokenExpirationTime: expDuration,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}, nil
}

func (j *JWTService) GenerateAccessToken(personID string, name string, role attendance.Role) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenExpirationTime).Unix()

	claims := map[string]interface{}{
		"person_id": personID,
		"name":      name,
		"role":      string(role),
		"type":      TypeAccess,
		"exp":       expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// GenerateSSEToken generates a short-lived token for SSE connections
func (j *JWTService) GenerateSSEToken(personID string) (token string, expiresIn int, err error) {
	// SSE tokens are short-lived (5 minutes)
	expiresIn = 300 // 5 minutes in seconds
	expiresAt := time.Now().Add(5 * time.Minute).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"person_id": personID,
		"type":      TypeSSE,
		"exp":       expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, expiresIn, nil
}

// ValidateSSEToken validates an SSE token and returns the person ID
func (j *JWTService) ValidateSSEToken(tokenString string) (personID string, err error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return "", err
	}

	// Check token type
	tokenType, ok := token.Get("type")
	if !ok || tokenType != TypeSSE {
		return "", jwt.ErrInvalidJWT()
	}

	personIDVal, ok := token.Get("person_id")
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}

	personID, ok = personIDVal.(string)
	if !ok || personID == "" {
		return "", jwt.ErrInvalidJWT()
	}

	return personID, nil
}

// ClaimsFromContext reads the verified access token claims placed in ctx by jwtauth.Verifier.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	personID, ok := claims["person_id"].(string)
	if !ok || personID == "" {
		return Claims{}, fmt.Errorf("%w: person_id", ErrMissingClaim)
	}

	name, _ := claims["name"].(string)

	role := attendance.RoleEmployee
	if r, ok := claims["role"].(string); ok && r != "" {
		role = attendance.Role(r)
	}

	return Claims{PersonID: personID, Name: name, Role: role}, nil
}
