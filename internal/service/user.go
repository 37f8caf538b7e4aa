package service

import (
	"context"

	"github.com/deppfellow/lightweight-backend/internal/lib/job"
	"github.com/deppfellow/lightweight-backend/internal/model"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// UserStore is implemented by repository.UserRepository.
type UserStore interface {
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	Register(ctx context.Context, payload *model.RegisterUserPayload) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, username string) (*model.UserDetail, error)
	Update(ctx context.Context, username string, payload *model.UpdateUserPayload) (*model.User, error)
	Remove(ctx context.Context, username string) error
}

// Enqueuer is implemented by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type UserService struct {
	store  UserStore
	queue  Enqueuer
	logger *zerolog.Logger
}

func NewUserService(store UserStore, queue Enqueuer, logger *zerolog.Logger) *UserService {
	return &UserService{
		store:  store,
		queue:  queue,
		logger: logger,
	}
}

func (s *UserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	return s.store.Authenticate(ctx, username, password)
}

// Register stores the user and queues a welcome e-mail. The user exists
// once the insert succeeds, so a failed enqueue is only logged.
func (s *UserService) Register(ctx context.Context, payload *model.RegisterUserPayload) (*model.User, error) {
	user, err := s.store.Register(ctx, payload)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", user.Username).Msg("user registered")

	task, err := job.NewWelcomeEmailTask(user.Email, user.FirstName, user.Username)
	if err != nil {
		s.logger.Error().Err(err).Str("username", user.Username).Msg("failed to build welcome email task")
		return user, nil
	}
	if _, err := s.queue.EnqueueContext(ctx, task); err != nil {
		s.logger.Error().Err(err).Str("username", user.Username).Msg("failed to enqueue welcome email")
	}

	return user, nil
}

func (s *UserService) FindAll(ctx context.Context) ([]model.User, error) {
	return s.store.FindAll(ctx)
}

func (s *UserService) Get(ctx context.Context, username string) (*model.UserDetail, error) {
	return s.store.Get(ctx, username)
}

func (s *UserService) Update(ctx context.Context, username string, payload *model.UpdateUserPayload) (*model.User, error) {
	user, err := s.store.Update(ctx, username, payload)
	if err != nil {
		return nil, err
	}

	event := s.logger.Info().Str("username", username)
	for _, f := range payload.Fields() {
		// values are omitted so passwords stay out of the log
		event = event.Bool("changed."+f.Name, true)
	}
	event.Msg("user updated")

	return user, nil
}

func (s *UserService) Remove(ctx context.Context, username string) error {
	if err := s.store.Remove(ctx, username); err != nil {
		return err
	}
	s.logger.Info().Str("username", username).Msg("user removed")
	return nil
}
