package company

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidName = errors.New("company name is required")

// Company is the tenant record created when a verified signup is promoted.
type Company struct {
	id                   uuid.UUID
	parentTenantID       uuid.UUID
	name                 string
	sourceVerificationID uuid.UUID
	createdAt            time.Time
}

func NewCompany(parentTenantID uuid.UUID, name string, sourceVerificationID uuid.UUID, now time.Time) (*Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	return &Company{
		id:                   uuid.New(),
		parentTenantID:       parentTenantID,
		name:                 name,
		sourceVerificationID: sourceVerificationID,
		createdAt:            now,
	}, nil
}

func (c *Company) ID() uuid.UUID                   { return c.id }
func (c *Company) ParentTenantID() uuid.UUID       { return c.parentTenantID }
func (c *Company) Name() string                    { return c.name }
func (c *Company) SourceVerificationID() uuid.UUID { return c.sourceVerificationID }
func (c *Company) CreatedAt() time.Time            { return c.createdAt }
