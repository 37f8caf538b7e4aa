package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/lightweight-backend/internal/database"
	"github.com/deppfellow/lightweight-backend/internal/errs"
	"github.com/deppfellow/lightweight-backend/internal/lib/password"
	"github.com/deppfellow/lightweight-backend/internal/model"
	"github.com/deppfellow/lightweight-backend/internal/sqlerr"
	"github.com/jackc/pgx/v5"
)

const usernameConstraint = "users_username_key"

// userColumns maps update payload names onto users columns. Nothing outside
// this table can reach an UPDATE statement.
var userColumns = map[string]string{
	"firstName": "first_name",
	"lastName":  "last_name",
	"password":  "password",
	"email":     "email",
	"isAdmin":   "is_admin",
}

const invalidCredentials = "Invalid username/password"

type UserRepository struct {
	db     database.Querier
	hasher password.Hasher
}

func NewUserRepository(db database.Querier, hasher password.Hasher) *UserRepository {
	return &UserRepository{db: db, hasher: hasher}
}

// Authenticate returns the user when password matches the stored hash. An
// unknown username and a wrong password produce the same error.
func (r *UserRepository) Authenticate(ctx context.Context, username, plain string) (*model.User, error) {
	stmt := `
		SELECT
			username,
			password,
			first_name,
			last_name,
			email,
			is_admin
		FROM
			users
		WHERE
			username = $1
	`

	var (
		user model.User
		hash string
	)
	err := r.db.QueryRow(ctx, stmt, username).Scan(
		&user.Username,
		&hash,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.IsAdmin,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NewUnauthorizedError(invalidCredentials, false)
	}
	if err != nil {
		return nil, err
	}

	if !r.hasher.Compare(plain, hash) {
		return nil, errs.NewUnauthorizedError(invalidCredentials, false)
	}

	return &user, nil
}

// Register stores a new user with a hashed password.
func (r *UserRepository) Register(ctx context.Context, payload *model.RegisterUserPayload) (*model.User, error) {
	var existing string
	err := r.db.QueryRow(ctx, `SELECT username FROM users WHERE username = $1`, payload.Username).Scan(&existing)
	switch {
	case err == nil:
		return nil, duplicateUsername(payload.Username)
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, err
	}

	hash, err := r.hasher.Hash(payload.Password)
	if err != nil {
		return nil, err
	}

	stmt := `
		INSERT INTO
			users (
				username,
				password,
				first_name,
				last_name,
				email,
				is_admin
			)
		VALUES
			($1, $2, $3, $4, $5, $6)
		RETURNING
			username,
			first_name,
			last_name,
			email,
			is_admin
	`

	var user model.User
	err = r.db.QueryRow(ctx, stmt,
		payload.Username,
		hash,
		payload.FirstName,
		payload.LastName,
		payload.Email,
		payload.IsAdmin,
	).Scan(
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.IsAdmin,
	)
	if sqlerr.IsUniqueViolation(err, usernameConstraint) {
		// another registration won the race after the pre-check
		return nil, duplicateUsername(payload.Username)
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// FindAll lists every user ordered by username. No users yields an empty,
// non-nil slice.
func (r *UserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	stmt := `
		SELECT
			username,
			first_name,
			last_name,
			email,
			is_admin
		FROM
			users
		ORDER BY
			username
	`

	rows, err := r.db.Query(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		var user model.User
		if err := rows.Scan(
			&user.Username,
			&user.FirstName,
			&user.LastName,
			&user.Email,
			&user.IsAdmin,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *UserRepository) Get(ctx context.Context, username string) (*model.UserDetail, error) {
	stmt := `
		SELECT
			id,
			username,
			first_name,
			last_name,
			email,
			is_admin
		FROM
			users
		WHERE
			username = $1
	`

	var user model.UserDetail
	err := r.db.QueryRow(ctx, stmt, username).Scan(
		&user.ID,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.IsAdmin,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, noUser(username)
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Update changes only the supplied fields. A new password is hashed before
// it is stored. The username itself is never updated.
func (r *UserRepository) Update(ctx context.Context, username string, payload *model.UpdateUserPayload) (*model.User, error) {
	fields := payload.Fields()
	for i, f := range fields {
		if f.Name != "password" {
			continue
		}
		hash, err := r.hasher.Hash(*payload.Password)
		if err != nil {
			return nil, err
		}
		fields[i].Value = hash
	}

	update, err := database.BuildPartialUpdate(fields, userColumns)
	if err != nil {
		return nil, fmt.Errorf("building user update: %w", err)
	}

	stmt := `
		UPDATE users
		SET
			` + update.SetClause + `
		WHERE
			username = ` + update.NextParam() + `
		RETURNING
			username,
			first_name,
			last_name,
			email,
			is_admin
	`

	var user model.User
	err = r.db.QueryRow(ctx, stmt, update.Args(username)...).Scan(
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.IsAdmin,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, noUser(username)
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) Remove(ctx context.Context, username string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return noUser(username)
	}
	return nil
}

func duplicateUsername(username string) *errs.HTTPError {
	return errs.NewBadRequestError("Duplicate username: "+username, false, nil, nil, nil)
}

func noUser(username string) *errs.HTTPError {
	return errs.NewNotFoundError("No user: "+username, false, nil)
}
