package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cycletrack/internal/security"
)

var errMissingBearerToken = errors.New("missing bearer token")

// AuthRequired resolves the user from an Authorization bearer token.
func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	userID, err := handler.authenticateRequest(c, bearerToken(c))
	if err != nil {
		return handler.apiError(c, fiber.StatusUnauthorized, "error.unauthorized")
	}
	c.Locals(contextUserKey, userID)
	return c.Next()
}

// FeedAuthRequired also accepts the token as a query parameter, since
// calendar clients subscribing to a feed cannot send headers.
func (handler *Handler) FeedAuthRequired(c *fiber.Ctx) error {
	raw := bearerToken(c)
	if raw == "" {
		raw = strings.TrimSpace(c.Query(tokenQueryKey))
	}
	userID, err := handler.authenticateRequest(c, raw)
	if err != nil {
		return handler.apiError(c, fiber.StatusUnauthorized, "error.unauthorized")
	}
	c.Locals(contextUserKey, userID)
	return c.Next()
}

func (handler *Handler) authenticateRequest(_ *fiber.Ctx, rawToken string) (string, error) {
	if rawToken == "" {
		return "", errMissingBearerToken
	}
	return security.ParseToken(handler.secretKey, rawToken)
}

func bearerToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
