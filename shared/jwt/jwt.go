package jwt

import (
	"fmt"
	"net/http"
	"time"

	"github.com/codingbrain01/MyBlog/shared/domain"
	internal_errors "github.com/codingbrain01/MyBlog/shared/errors"
	"github.com/codingbrain01/MyBlog/shared/logger"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload. uid is the only identity the backend trusts.
type Claims struct {
	UserId domain.UserId `json:"uid"`
	jwt.RegisteredClaims
}

type JwtService interface {
	NewToken(user domain.User) (string, error)
	DecodeToken(jwtStr string) (*domain.User, error)
}

type Jwt struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

func New(secretKey string, ttl time.Duration) *Jwt {
	return &Jwt{secretKey: []byte(secretKey), ttl: ttl, now: time.Now}
}

func (j *Jwt) NewToken(user domain.User) (string, error) {
	now := j.now()
	claims := Claims{
		UserId: user.Id,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("can't create token: %w", err)
	}
	return tokenString, nil
}

func (j *Jwt) DecodeToken(jwtStr string) (*domain.User, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(jwtStr, claims, func(token *jwt.Token) (any, error) {
		return j.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(j.now))
	if err != nil {
		logger.Log.Debug("rejected access token", "error", err)
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid access token", StatusCode: http.StatusUnauthorized}
	}
	if !token.Valid || claims.UserId <= 0 {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "Invalid access token", StatusCode: http.StatusUnauthorized}
	}

	return &domain.User{Id: claims.UserId}, nil
}
