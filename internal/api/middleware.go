package api

import "github.com/gofiber/fiber/v2"

const (
	contextUserKey     = "current_user_id"
	contextLanguageKey = "current_language"
	languageQueryKey   = "lang"
	tokenQueryKey      = "token"
)

func currentUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(contextUserKey).(string)
	return userID
}

func currentLanguage(c *fiber.Ctx) string {
	lang, _ := c.Locals(contextLanguageKey).(string)
	return lang
}
