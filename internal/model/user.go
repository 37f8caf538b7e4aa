// Package model holds the user records handed to callers and the request
// payloads that create or change them.
package model

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/deppfellow/lightweight-backend/internal/database"
	"github.com/deppfellow/lightweight-backend/internal/validation"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their request key: the json name, or the
// path parameter name for fields bound from the URL.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Tag.Get("param")
		}
		return name
	})
	if err := v.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(err)
	}
	return v
}

// maxBytes limits the encoded length of a string, unlike max which counts
// runes.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// User is the public view of a stored user. It has no password field, so a
// hash can never leak through it.
type User struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"isAdmin"`
}

// UserDetail adds the internal id.
type UserDetail struct {
	User
	ID int `json:"id"`
}

type LoginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (p *LoginPayload) Validate() error {
	return validate.Struct(p)
}

type RegisterUserPayload struct {
	Username  string `json:"username" validate:"required,min=3,max=64"`
	Password  string `json:"password" validate:"required,maxbytes=72"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	IsAdmin   bool   `json:"isAdmin"`
}

func (p *RegisterUserPayload) Validate() error {
	return validate.Struct(p)
}

// UpdateUserPayload carries only the fields the caller supplied; nil means
// "leave unchanged". Username comes from the path and cannot be changed.
type UpdateUserPayload struct {
	Username  string  `param:"username" json:"-" validate:"required"`
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Password  *string `json:"password,omitempty" validate:"omitempty,min=1,maxbytes=72"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	IsAdmin   *bool   `json:"isAdmin,omitempty"`
}

func (p *UpdateUserPayload) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}
	if p.Empty() {
		return validation.CustomValidationErrors{{
			Field:   "body",
			Message: "must contain at least one field to update",
		}}
	}
	return nil
}

func (p *UpdateUserPayload) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Password == nil && p.Email == nil && p.IsAdmin == nil
}

// Fields lists the supplied fields, named by their JSON keys, in a fixed
// order.
func (p *UpdateUserPayload) Fields() []database.Field {
	var fields []database.Field
	if p.FirstName != nil {
		fields = append(fields, database.Field{Name: "firstName", Value: *p.FirstName})
	}
	if p.LastName != nil {
		fields = append(fields, database.Field{Name: "lastName", Value: *p.LastName})
	}
	if p.Password != nil {
		fields = append(fields, database.Field{Name: "password", Value: *p.Password})
	}
	if p.Email != nil {
		fields = append(fields, database.Field{Name: "email", Value: *p.Email})
	}
	if p.IsAdmin != nil {
		fields = append(fields, database.Field{Name: "isAdmin", Value: *p.IsAdmin})
	}
	return fields
}

// UsernameParam binds the :username path segment.
type UsernameParam struct {
	Username string `param:"username" validate:"required"`
}

func (p *UsernameParam) Validate() error {
	return validate.Struct(p)
}

// NoPayload is used by routes that take no input.
type NoPayload struct{}

func (*NoPayload) Validate() error {
	return nil
}
