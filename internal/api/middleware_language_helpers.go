package api

import "github.com/gofiber/fiber/v2"

// LanguageMiddleware picks the response language from ?lang= or the
// Accept-Language header.
func (handler *Handler) LanguageMiddleware(c *fiber.Ctx) error {
	lang := handler.i18n.DetectFromAcceptLanguage(c.Get(fiber.HeaderAcceptLanguage))
	if requested := c.Query(languageQueryKey); requested != "" {
		lang = handler.i18n.NormalizeLanguage(requested)
	}

	c.Locals(contextLanguageKey, lang)
	c.Set(fiber.HeaderContentLanguage, lang)
	return c.Next()
}
