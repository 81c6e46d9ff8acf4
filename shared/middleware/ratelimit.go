package middleware

import (
	"net/http"
	"strconv"

	"github.com/codingbrain01/MyBlog/shared/errors"
	"github.com/codingbrain01/MyBlog/shared/middleware/ratelimiter"
	"github.com/codingbrain01/MyBlog/shared/utils"
)

// RateLimit rejects requests whose identity has run out of tokens.
func RateLimit(limiter *ratelimiter.Limiter, identity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, err := identity(r)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			if !limiter.Allow(key) {
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIdentity keys requests by the authenticated user. Must run after NeedAuth.
func UserIdentity(r *http.Request) (string, error) {
	user := GetUserFromContext(r)
	if user == nil {
		return "", &errors.ErrorWithStatusCode{Message: "Unauthorized", StatusCode: http.StatusUnauthorized}
	}
	return "user:" + strconv.FormatInt(user.Id, 10), nil
}

// IPIdentity keys requests by client address.
func IPIdentity(r *http.Request) (string, error) {
	ip, err := utils.GetIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + ip, nil
}
