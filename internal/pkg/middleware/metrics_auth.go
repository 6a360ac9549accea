package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"golang.org/x/crypto/bcrypt"
)

// MetricsAuth protects the monitor page with basic auth. passwordHash is a
// bcrypt hash, never the plain password.
func MetricsAuth(user, passwordHash string) fiber.Handler {
	return basicauth.New(basicauth.Config{
		Realm: "Metrics",
		Authorizer: func(u, p string) bool {
			return CheckCredentials(user, passwordHash, u, p)
		},
	})
}

// CheckCredentials compares against the configured user and bcrypt hash
func CheckCredentials(user, passwordHash, givenUser, givenPassword string) bool {
	if user == "" || passwordHash == "" || givenUser != user {
		return false
	}
	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(givenPassword)); err != nil {
		if err != bcrypt.ErrMismatchedHashAndPassword {
			log.Warnf("[Metrics] Invalid METRICS_PASSWORD_HASH: %v", err)
		}
		return false
	}
	return true
}
