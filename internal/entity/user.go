package entity

import (
	"context"
	"errors"
)

var (
	ErrLeadNotFound = errors.New("lead not found")
	ErrUserNotFound = errors.New("user not found")
)

// Roles allowed to delete and reassign leads.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
)

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}

type UserRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*User, error)
}
