package router

import (
	"net/http"

	"github.com/deppfellow/lightweight-backend/internal/handler"
	"github.com/labstack/echo/v4"
)

func registerUserRoutes(g *echo.Group, h *handler.Handlers) {
	auth := g.Group("/auth")
	auth.POST("/login", handler.Handle(h.User.Login, http.StatusOK))
	auth.POST("/register", handler.Handle(h.User.Register, http.StatusCreated))

	users := g.Group("/users")
	users.GET("", handler.Handle(h.User.List, http.StatusOK))
	users.GET("/:username", handler.Handle(h.User.Get, http.StatusOK))
	users.PATCH("/:username", handler.Handle(h.User.Update, http.StatusOK))
	users.DELETE("/:username", handler.HandleNoContent(h.User.Remove, http.StatusNoContent))
}
