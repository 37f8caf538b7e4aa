package handler

import (
	"github.com/deppfellow/lightweight-backend/internal/middleware"
	"github.com/deppfellow/lightweight-backend/internal/model"
	"github.com/deppfellow/lightweight-backend/internal/server"
	"github.com/deppfellow/lightweight-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	Handler
	users *service.UserService
}

func NewUserHandler(s *server.Server, users *service.UserService) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(s),
		users:   users,
	}
}

func (h *UserHandler) Login(c echo.Context, req *model.LoginPayload) (*model.User, error) {
	user, err := h.users.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	middleware.SetUsername(c, user.Username)
	return user, nil
}

func (h *UserHandler) Register(c echo.Context, req *model.RegisterUserPayload) (*model.User, error) {
	user, err := h.users.Register(c.Request().Context(), req)
	if err != nil {
		return nil, err
	}
	middleware.SetUsername(c, user.Username)
	return user, nil
}

func (h *UserHandler) List(c echo.Context, _ *model.NoPayload) ([]model.User, error) {
	return h.users.FindAll(c.Request().Context())
}

func (h *UserHandler) Get(c echo.Context, req *model.UsernameParam) (*model.UserDetail, error) {
	return h.users.Get(c.Request().Context(), req.Username)
}

func (h *UserHandler) Update(c echo.Context, req *model.UpdateUserPayload) (*model.User, error) {
	return h.users.Update(c.Request().Context(), req.Username, req)
}

func (h *UserHandler) Remove(c echo.Context, req *model.UsernameParam) error {
	return h.users.Remove(c.Request().Context(), req.Username)
}
