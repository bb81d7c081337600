//go:build unit || e2e

package builder

import (
	"time"

	"retail-core/internal/domain/user"

	"github.com/google/uuid"
)

type UserBuilder struct {
	CompanyID    uuid.UUID
	Email        string
	Name         string
	Phone        string
	PasswordHash string
	Role         string
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		CompanyID:    uuid.New(),
		Email:        "Owner@Example.com",
		Name:         "Ann Owner",
		Phone:        "+15550100",
		PasswordHash: "hashed_password",
		Role:         "owner",
	}
}

func (u *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(u)
	return u
}

func (u *UserBuilder) WithEmail(email string) *UserBuilder {
	u.Email = email
	return u
}

func (u *UserBuilder) WithRole(role string) *UserBuilder {
	u.Role = role
	return u
}

func (u *UserBuilder) BuildDomain() (*user.User, error) {
	email, err := user.NewEmail(u.Email)
	if err != nil {
		return nil, err
	}

	role, err := user.NewRole(u.Role)
	if err != nil {
		return nil, err
	}

	return user.NewUser(u.CompanyID, email, u.Name, u.Phone, u.PasswordHash, role, time.Now()), nil
}
