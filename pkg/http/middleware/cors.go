package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// CORSConfig lists what the browser may send cross-origin.
type CORSConfig struct {
	AllowOrigins []string
	AllowMethods []string
	AllowHeaders []string
}

func (cfg CORSConfig) originAllowed(origin string) bool {
	if len(cfg.AllowOrigins) == 0 {
		return true
	}
	for _, o := range cfg.AllowOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

// CORS returns middleware answering cross-origin and preflight requests.
func CORS(cfg CORSConfig) echo.MiddlewareFunc {
	// Joined header values never change per request.
	methods := strings.Join(cfg.AllowMethods, ", ")
	headers := strings.Join(cfg.AllowHeaders, ", ")
	wildcard := len(cfg.AllowOrigins) > 0 && cfg.AllowOrigins[0] == "*"

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			origin := c.Request().Header.Get("Origin")
			if !cfg.originAllowed(origin) {
				return next(c)
			}

			h := c.Response().Header()
			switch {
			case origin != "":
				h.Set("Access-Control-Allow-Origin", origin)
			case wildcard:
				h.Set("Access-Control-Allow-Origin", "*")
			}
			if methods != "" {
				h.Set("Access-Control-Allow-Methods", methods)
			}
			if headers != "" {
				h.Set("Access-Control-Allow-Headers", headers)
			}

			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusNoContent)
			}
			return next(c)
		}
	}
}
