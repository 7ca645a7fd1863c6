package middleware

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLogging logs one line per request. Paths in skip are left out,
// typically the scrape and health endpoints polled every few seconds.
func RequestLogging(skip ...string) echo.MiddlewareFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if _, ok := skipped[req.URL.Path]; ok {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			log.Printf("[%s] %s %s - %d (%s)",
				req.Method,
				req.RequestURI,
				c.RealIP(),
				c.Response().Status,
				time.Since(start),
			)
			return err
		}
	}
}
