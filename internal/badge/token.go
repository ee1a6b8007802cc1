package badge

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	id "waangu/pkg/domain"
	dErrors "waangu/pkg/domain-errors"
)

const (
	tokenAudience = "badge-validation"
	tokenTTL      = 30 * 24 * time.Hour
)

// TokenSigner mints and verifies the signed scan tokens embedded in badge QR
// codes.
type TokenSigner struct {
	secret []byte
}

func NewTokenSigner(secret string) *TokenSigner {
	return &TokenSigner{secret: []byte(secret)}
}

// Sign mints an HS256 token for the registration, valid for 30 days.
func (s *TokenSigner) Sign(regID id.RegistrationID, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"regId": regID.String(),
		"aud":   tokenAudience,
		"iat":   now.Unix(),
		"exp":   now.Add(tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign scan token: %w", err)
	}
	return token, nil
}

// Verify checks signature, audience, and expiry, and returns the registration
// ID the token was minted for.
func (s *TokenSigner) Verify(tokenString string) (id.RegistrationID, error) {
	token, err := jwt.Parse(tokenString,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return id.RegistrationID{}, dErrors.Wrap(err, dErrors.CodeValidation, "invalid scan token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return id.RegistrationID{}, dErrors.New(dErrors.CodeValidation, "invalid scan token claims")
	}
	regID, ok := claims["regId"].(string)
	if !ok {
		return id.RegistrationID{}, dErrors.New(dErrors.CodeValidation, "scan token missing registration id")
	}
	return id.ParseRegistrationID(regID)
}
