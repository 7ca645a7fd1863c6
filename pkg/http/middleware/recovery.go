package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
)

// Recover converts a handler panic into a 500 so one bad request cannot
// take the server down.
func Recover() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				err, ok := r.(error)
				if !ok {
					err = fmt.Errorf("%v", r)
				}
				req := c.Request()
				log.Printf("PANIC %s %s: %v\n%s", req.Method, req.URL.Path, err, debug.Stack())
				_ = c.JSON(http.StatusInternalServerError, map[string]interface{}{
					"status":  http.StatusInternalServerError,
					"message": http.StatusText(http.StatusInternalServerError),
				})
			}()
			return next(c)
		}
	}
}
