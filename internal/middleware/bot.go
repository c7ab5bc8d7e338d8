// Package middleware provides HTTP middleware for the fiber app.
package middleware

import (
	"crypto/subtle"

	"refpay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// BotAuth gates the privileged bot channel behind a shared key carried
// in the X-Bot-Key header.
func BotAuth(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		supplied := c.Get("X-Bot-Key")
		if supplied == "" || subtle.ConstantTimeCompare([]byte(supplied), []byte(key)) != 1 {
			return utils.Unauthorized(c, "invalid bot key")
		}
		return c.Next()
	}
}
