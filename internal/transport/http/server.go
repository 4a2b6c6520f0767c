// Package http serves the read-only journal viewer.
package http

import (
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/xiaot623/gogo/agentloop/internal/repository"
	v1 "github.com/xiaot623/gogo/agentloop/internal/transport/http/v1"
)

// NewServer creates the journal viewer server backed by store.
// Request and panic logs go to stderr; stdout belongs to the REPL.
func NewServer(store repository.Store) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetOutput(os.Stderr)

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{Output: os.Stderr}))
	e.Use(middleware.Recover())

	v1.NewHandler(store).RegisterRoutes(e)

	return e
}
