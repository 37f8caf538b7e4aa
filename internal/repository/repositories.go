// Package repository runs the SQL behind every domain operation. Errors the
// caller can act on come back as *errs.HTTPError; store errors are returned
// unchanged.
package repository

import (
	"github.com/deppfellow/lightweight-backend/internal/lib/password"
	"github.com/deppfellow/lightweight-backend/internal/server"
)

type Repositories struct {
	User *UserRepository
}

func NewRepositories(s *server.Server, hasher password.Hasher) *Repositories {
	return &Repositories{
		User: NewUserRepository(s.DB.Pool, hasher),
	}
}
