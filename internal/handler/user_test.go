package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/lightweight-backend/internal/config"
	"github.com/deppfellow/lightweight-backend/internal/errs"
	"github.com/deppfellow/lightweight-backend/internal/middleware"
	"github.com/deppfellow/lightweight-backend/internal/model"
	"github.com/deppfellow/lightweight-backend/internal/repository"
	"github.com/deppfellow/lightweight-backend/internal/server"
	"github.com/deppfellow/lightweight-backend/internal/service"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "h:" + plain, nil }
func (plainHasher) Compare(plain, hash string) bool { return hash == "h:"+plain }

type nopQueue struct{}

func (nopQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

var userColumns = []string{"username", "first_name", "last_name", "email", "is_admin"}

func newTestServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{Primary: config.Primary{Env: "local"}},
		Logger: &logger,
	}
}

func newUserTestEcho(t *testing.T) (*echo.Echo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	s := newTestServer()
	users := service.NewUserService(repository.NewUserRepository(mock, plainHasher{}), nopQueue{}, s.Logger)
	h := NewUserHandler(s, users)

	e := echo.New()
	e.HTTPErrorHandler = middleware.NewGlobalMiddlewares(s).GlobalErrorHandler
	e.POST("/login", Handle(h.Login, http.StatusOK))
	e.POST("/register", Handle(h.Register, http.StatusCreated))
	e.GET("/users", Handle(h.List, http.StatusOK))
	e.GET("/users/:username", Handle(h.Get, http.StatusOK))
	e.PATCH("/users/:username", Handle(h.Update, http.StatusOK))
	e.DELETE("/users/:username", HandleNoContent(h.Remove, http.StatusNoContent))

	return e, mock
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestLogin_Success(t *testing.T) {
	e, mock := newUserTestEcho(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT username, password, first_name`)).
		WithArgs("ada").
		WillReturnRows(mock.NewRows([]string{"username", "password", "first_name", "last_name", "email", "is_admin"}).
			AddRow("ada", "h:s3cret", "Ada", "Lovelace", "ada@example.com", true))

	rec := do(e, http.MethodPost, "/login", `{"username":"ada","password":"s3cret"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "h:s3cret")

	var user model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.True(t, user.IsAdmin)
}

func TestLogin_WrongPassword(t *testing.T) {
	e, mock := newUserTestEcho(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT username, password, first_name`)).
		WithArgs("ada").
		WillReturnRows(mock.NewRows([]string{"username", "password", "first_name", "last_name", "email", "is_admin"}).
			AddRow("ada", "h:s3cret", "Ada", "Lovelace", "ada@example.com", true))

	rec := do(e, http.MethodPost, "/login", `{"username":"ada","password":"nope"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid username/password")
}

func TestLogin_MissingFieldsRejectedBeforeQuery(t *testing.T) {
	e, mock := newUserTestEcho(t)

	rec := do(e, http.MethodPost, "/login", `{"username":"ada"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_Created(t *testing.T) {
	e, mock := newUserTestEcho(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT username FROM users WHERE username = $1`)).
		WithArgs("ada").
		WillReturnRows(mock.NewRows([]string{"username"}))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (`)).
		WithArgs("ada", "h:correct horse", "Ada", "Lovelace", "ada@example.com", false).
		WillReturnRows(mock.NewRows(userColumns).AddRow("ada", "Ada", "Lovelace", "ada@example.com", false))

	rec := do(e, http.MethodPost, "/register",
		`{"username":"ada","password":"correct horse","firstName":"Ada","lastName":"Lovelace","email":"ada@example.com"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_Duplicate(t *testing.T) {
	e, mock := newUserTestEcho(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT username FROM users WHERE username = $1`)).
		WithArgs("ada").
		WillReturnRows(mock.NewRows([]string{"username"}).AddRow("ada"))

	rec := do(e, http.MethodPost, "/register",
		`{"username":"ada","password":"correct horse","firstName":"Ada","lastName":"Lovelace","email":"ada@example.com"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Duplicate username: ada", body.Message)
}

func TestRegister_SevenCharacterPassword(t *testing.T) {
	e, mock := newUserTestEcho(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT username FROM users WHERE username = $1`)).
		WithArgs("abe").
		WillReturnRows(mock.NewRows([]string{"username"}))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (`)).
		WithArgs("abe", "h:secret1", "Abe", "Lincoln", "abe@example.com", false).
		WillReturnRows(mock.NewRows(userColumns).AddRow("abe", "Abe", "Lincoln", "abe@example.com", false))

	rec := do(e, http.MethodPost, "/register",
		`{"username":"abe","password":"secret1","firstName":"Abe","lastName":"Lincoln","email":"abe@example.com"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordOverByteLimitRejected(t *testing.T) {
	long := strings.Repeat("é", 72)

	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{
			name:   "register",
			method: http.MethodPost,
			target: "/register",
			body:   `{"username":"abe","password":"` + long + `","firstName":"Abe","lastName":"Lincoln","email":"abe@example.com"}`,
		},
		{
			name:   "update",
			method: http.MethodPatch,
			target: "/users/abe",
			body:   `{"password":"` + long + `"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, mock := newUserTestEcho(t)

			rec := do(e, tt.method, tt.target, tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var body errs.HTTPError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, []errs.FieldError{{Field: "password", Error: "must not exceed 72 bytes"}}, body.Errors)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestList_Empty(t *testing.T) {
	e, mock := newUserTestEcho(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users ORDER BY username`)).
		WillReturnRows(mock.NewRows(userColumns))

	rec := do(e, http.MethodGet, "/users", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGet_NotFound(t *testing.T) {
	e, mock := newUserTestEcho(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username`)).
		WithArgs("ghost").
		WillReturnRows(mock.NewRows([]string{"id", "username", "first_name", "last_name", "email", "is_admin"}))

	rec := do(e, http.MethodGet, "/users/ghost", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No user: ghost")
}

func TestUpdate_UsesPathUsername(t *testing.T) {
	e, mock := newUserTestEcho(t)
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users SET "last_name"=$1 WHERE username = $2`)).
		WithArgs("King", "ada").
		WillReturnRows(mock.NewRows(userColumns).AddRow("ada", "Ada", "King", "ada@example.com", false))

	rec := do(e, http.MethodPatch, "/users/ada", `{"lastName":"King","username":"mallory"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_EmptyBodyRejected(t *testing.T) {
	e, mock := newUserTestEcho(t)

	rec := do(e, http.MethodPatch, "/users/ada", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemove_NoContent(t *testing.T) {
	e, mock := newUserTestEcho(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE username = $1`)).
		WithArgs("ada").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	rec := do(e, http.MethodDelete, "/users/ada", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHealth_ReportsFailingCheck(t *testing.T) {
	s := newTestServer()
	h := &HealthHandler{
		Handler: NewHandler(s),
		timeout: time.Second,
		checks: map[string]pingFunc{
			"database": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return errors.New("connection refused") },
		},
	}

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/status", nil), rec)
	require.NoError(t, h.CheckHealth(c))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body["status"])
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["database"].(map[string]any)["status"])
	assert.Equal(t, "unhealthy", checks["redis"].(map[string]any)["status"])
}

func TestHealth_AllHealthy(t *testing.T) {
	s := newTestServer()
	h := &HealthHandler{
		Handler: NewHandler(s),
		timeout: time.Second,
		checks: map[string]pingFunc{
			"database": func(context.Context) error { return nil },
		},
	}

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/status", nil), rec)
	require.NoError(t, h.CheckHealth(c))

	assert.Equal(t, http.StatusOK, rec.Code)
}
