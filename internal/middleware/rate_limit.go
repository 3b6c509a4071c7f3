package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimit throttles requests per client and room. The room id parameter is
// part of the key so one noisy room cannot exhaust the budget of another.
func RateLimit(identifier string, max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Second
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			roomID := strings.TrimSpace(c.Params("id"))
			if roomID == "" {
				roomID = "global"
			}
			return fmt.Sprintf("%s:%s:%s", identifier, roomID, c.IP())
		},
	})
}
