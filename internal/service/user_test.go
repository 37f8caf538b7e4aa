package service

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/deppfellow/lightweight-backend/internal/errs"
	"github.com/deppfellow/lightweight-backend/internal/lib/job"
	"github.com/deppfellow/lightweight-backend/internal/model"
	"github.com/deppfellow/lightweight-backend/internal/repository"
	"github.com/hibiken/asynq"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "h:" + plain, nil }
func (plainHasher) Compare(plain, hash string) bool { return hash == "h:"+plain }

type fakeQueue struct {
	tasks []*asynq.Task
	err   error
}

func (q *fakeQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if q.err != nil {
		return nil, q.err
	}
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{ID: "1", Type: task.Type()}, nil
}

func newTestService(t *testing.T, queue Enqueuer) (*UserService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	logger := zerolog.Nop()
	return NewUserService(repository.NewUserRepository(mock, plainHasher{}), queue, &logger), mock
}

func expectRegister(mock pgxmock.PgxPoolIface) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT username FROM users WHERE username = $1`)).
		WithArgs("ada").
		WillReturnRows(mock.NewRows([]string{"username"}))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (`)).
		WithArgs("ada", "h:s3cret", "Ada", "Lovelace", "ada@example.com", false).
		WillReturnRows(mock.NewRows([]string{"username", "first_name", "last_name", "email", "is_admin"}).
			AddRow("ada", "Ada", "Lovelace", "ada@example.com", false))
}

var registerPayload = &model.RegisterUserPayload{
	Username:  "ada",
	Password:  "s3cret",
	FirstName: "Ada",
	LastName:  "Lovelace",
	Email:     "ada@example.com",
}

func TestRegister_EnqueuesWelcomeEmail(t *testing.T) {
	queue := &fakeQueue{}
	svc, mock := newTestService(t, queue)
	expectRegister(mock)

	user, err := svc.Register(context.Background(), registerPayload)
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)

	require.Len(t, queue.tasks, 1)
	assert.Equal(t, job.TaskWelcome, queue.tasks[0].Type())

	var payload job.WelcomeEmailPayload
	require.NoError(t, json.Unmarshal(queue.tasks[0].Payload(), &payload))
	assert.Equal(t, job.WelcomeEmailPayload{To: "ada@example.com", FirstName: "Ada", Username: "ada"}, payload)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_EnqueueFailureIsNotReturned(t *testing.T) {
	svc, mock := newTestService(t, &fakeQueue{err: errors.New("redis down")})
	expectRegister(mock)

	user, err := svc.Register(context.Background(), registerPayload)

	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)
}

func TestRegister_DuplicateSkipsEmail(t *testing.T) {
	queue := &fakeQueue{}
	svc, mock := newTestService(t, queue)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT username FROM users WHERE username = $1`)).
		WithArgs("ada").
		WillReturnRows(mock.NewRows([]string{"username"}).AddRow("ada"))

	_, err := svc.Register(context.Background(), registerPayload)

	assert.ErrorIs(t, err, &errs.HTTPError{Status: 400})
	assert.Empty(t, queue.tasks)
}

func TestRemove_PassesNotFoundThrough(t *testing.T) {
	svc, mock := newTestService(t, &fakeQueue{})
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE username = $1`)).
		WithArgs("ghost").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := svc.Remove(context.Background(), "ghost")

	assert.ErrorIs(t, err, &errs.HTTPError{Status: 404})
}

func TestUpdate_ReturnsUpdatedUser(t *testing.T) {
	svc, mock := newTestService(t, &fakeQueue{})
	email := "ada@lovelace.dev"
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users SET "email"=$1 WHERE username = $2`)).
		WithArgs(email, "ada").
		WillReturnRows(mock.NewRows([]string{"username", "first_name", "last_name", "email", "is_admin"}).
			AddRow("ada", "Ada", "Lovelace", email, false))

	user, err := svc.Update(context.Background(), "ada", &model.UpdateUserPayload{Email: &email})

	require.NoError(t, err)
	assert.Equal(t, email, user.Email)
}
