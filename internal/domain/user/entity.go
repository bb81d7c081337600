package user

import (
	"time"

	"github.com/google/uuid"
)

// User is a company member. Signup promotion creates the owner.
type User struct {
	id           uuid.UUID
	companyID    uuid.UUID
	email        Email
	name         string
	phone        string
	passwordHash string
	role         Role
	isActive     bool
	createdAt    time.Time
}

func NewUser(companyID uuid.UUID, email Email, name, phone, passwordHash string, role Role, now time.Time) *User {
	return &User{
		id:           uuid.New(),
		companyID:    companyID,
		email:        email,
		name:         name,
		phone:        phone,
		passwordHash: passwordHash,
		role:         role,
		isActive:     true,
		createdAt:    now,
	}
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) CompanyID() uuid.UUID { return u.companyID }
func (u *User) Email() Email         { return u.email }
func (u *User) Name() string         { return u.name }
func (u *User) Phone() string        { return u.phone }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Role() Role           { return u.role }
func (u *User) IsActive() bool       { return u.isActive }
func (u *User) CreatedAt() time.Time { return u.createdAt }
