// Package service is the business layer between handlers and repositories.
package service

import (
	"github.com/deppfellow/lightweight-backend/internal/lib/job"
	"github.com/deppfellow/lightweight-backend/internal/repository"
	"github.com/deppfellow/lightweight-backend/internal/server"
)

type Services struct {
	User *UserService
	Job  *job.JobService
}

func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	return &Services{
		User: NewUserService(repos.User, s.Job.Client, s.Logger),
		Job:  s.Job,
	}
}
