package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"matchai-service/config"

	"github.com/golang-jwt/jwt/v5"
)

// Tokens struct to describe tokens object.
type Tokens struct {
	Access  string
	Refresh string
}

// TokenMetadata struct to describe metadata in JWT.
type TokenMetadata struct {
	Id  string
	Otp bool
	Exp int64
}

// UserID parses the subject of the token.
func (m *TokenMetadata) UserID() (uint, error) {
	id, err := strconv.ParseUint(m.Id, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid subject %q", m.Id)
	}
	return uint(id), nil
}

// GenerateTokens func for generate a new Access & Refresh tokens.
func GenerateTokens(id string, otp bool) (*Tokens, error) {
	accessToken, err := generateToken(id, otp, "JWT_ACCESS_EXPIRE", "JWT_ACCESS_KEY")
	if err != nil {
		return nil, err
	}

	refreshToken, err := generateToken(id, otp, "JWT_REFRESH_EXPIRE", "JWT_REFRESH_KEY")
	if err != nil {
		return nil, err
	}

	return &Tokens{
		Access:  accessToken,
		Refresh: refreshToken,
	}, nil
}

// RefreshTTL is how long a refresh token stays valid.
func RefreshTTL() time.Duration {
	return time.Minute * time.Duration(config.Int("JWT_REFRESH_EXPIRE", 10080))
}

func generateToken(id string, otp bool, expire string, key string) (string, error) {
	secret := config.Config(key)
	if secret == "" {
		return "", fmt.Errorf("%s is not configured", key)
	}
	minutesCount := config.Int(expire, 15)

	claims := jwt.MapClaims{}

	claims["id"] = id
	claims["otp"] = otp
	claims["exp"] = time.Now().Add(time.Minute * time.Duration(minutesCount)).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString([]byte(secret))
}

func CheckAndExtractTokenMetadata(token string, key string) (*TokenMetadata, error) {
	t, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.Config(key)), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok || !t.Valid {
		return nil, errors.New("invalid token")
	}
	return ExtractMetadata(claims)
}

// ExtractMetadata reads the id/otp/exp claims written by GenerateTokens.
func ExtractMetadata(claims jwt.MapClaims) (*TokenMetadata, error) {
	id, ok := claims["id"].(string)
	if !ok {
		return nil, errors.New("token has no id claim")
	}
	otp, _ := claims["otp"].(bool)
	exp, _ := claims["exp"].(float64)
	return &TokenMetadata{
		Id:  id,
		Otp: otp,
		Exp: int64(exp),
	}, nil
}

// UserIDFromAccessToken resolves a fully authenticated access token to its user id.
// Tokens still waiting for a 2FA code are rejected.
func UserIDFromAccessToken(token string) (uint, error) {
	claims, err := CheckAndExtractTokenMetadata(token, "JWT_ACCESS_KEY")
	if err != nil {
		return 0, err
	}
	if claims.Otp {
		return 0, errors.New("2FA required")
	}
	return claims.UserID()
}
