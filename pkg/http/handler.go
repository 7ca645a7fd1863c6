package http

import "github.com/labstack/echo/v4"

// Handler is what the server mounts; implementations attach their
// routes and middleware to the echo instance.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}
