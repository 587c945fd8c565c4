package middleware

import (
	"strings"
	"time"

	"jobfair/config"
	"jobfair/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	SESSION_COOKIE = "jobfair_session"
	SESSION_LOCAL  = "sessionID"
)

type Middleware struct {
	sessionTTL   time.Duration
	secureCookie bool
	log          logger.Logger
}

func New(config config.Config) Middleware {
	return Middleware{
		sessionTTL:   config.SessionTTL,
		secureCookie: strings.HasPrefix(config.ServerBaseURL, "https://"),
		log:          logger.New("middleware"),
	}
}

// Session makes sure the request carries a session id, issuing a new cookie
// when it is missing or malformed.
func (m Middleware) Session() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(SESSION_COOKIE)
		if _, err := uuid.Parse(sessionID); err != nil {
			id, err := uuid.NewV7()
			if err != nil {
				m.log.Function("Session").Er("failed to generate session id", err)
				return c.Status(fiber.StatusInternalServerError).
					JSON(fiber.Map{"message": "failed to start session"})
			}
			sessionID = id.String()
		}

		cookie := &fiber.Cookie{
			Name:     SESSION_COOKIE,
			Value:    sessionID,
			Path:     "/",
			HTTPOnly: true,
			Secure:   m.secureCookie,
			SameSite: fiber.CookieSameSiteLaxMode,
		}
		if m.sessionTTL > 0 {
			cookie.Expires = time.Now().Add(m.sessionTTL)
		}
		c.Cookie(cookie)

		c.Locals(SESSION_LOCAL, sessionID)
		return c.Next()
	}
}

// SessionID returns the id set by Session, or "" outside of it.
func SessionID(c *fiber.Ctx) string {
	sessionID, _ := c.Locals(SESSION_LOCAL).(string)
	return sessionID
}
