package coupon

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrReservationNotHeld = errors.New("reservation is no longer held")
	ErrInvalidHolder      = errors.New("invalid reservation holder")
)

type ReservationStatus string

const (
	ReservationReserved ReservationStatus = "reserved"
	ReservationConsumed ReservationStatus = "consumed"
	ReservationReleased ReservationStatus = "released"
)

// HolderKind names the dependent write that owns a reservation until it is consumed or released.
type HolderKind string

const (
	HolderOrder   HolderKind = "order"
	HolderPayment HolderKind = "payment"
)

func (k HolderKind) IsValid() bool {
	return k == HolderOrder || k == HolderPayment
}

// Reservation is the token handed out by the ledger for one claimed redemption slot.
type Reservation struct {
	id        uuid.UUID
	couponID  uuid.UUID
	tenantID  uuid.UUID
	status    ReservationStatus
	holder    HolderKind
	holderID  uuid.UUID
	discount  decimal.Decimal
	expiresAt time.Time
	createdAt time.Time
	updatedAt time.Time
}

// NewReservation takes the token id from the quote so a retried reserve can detect its own earlier write.
func NewReservation(id uuid.UUID, c *Coupon, holder HolderKind, holderID uuid.UUID, discount decimal.Decimal, ttl time.Duration, now time.Time) (*Reservation, error) {
	if !holder.IsValid() || holderID == uuid.Nil {
		return nil, ErrInvalidHolder
	}
	return &Reservation{
		id:        id,
		couponID:  c.ID(),
		tenantID:  c.TenantID(),
		status:    ReservationReserved,
		holder:    holder,
		holderID:  holderID,
		discount:  discount,
		expiresAt: now.Add(ttl),
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructReservation(
	id, couponID, tenantID uuid.UUID,
	status ReservationStatus,
	holder HolderKind,
	holderID uuid.UUID,
	discount decimal.Decimal,
	expiresAt, createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:        id,
		couponID:  couponID,
		tenantID:  tenantID,
		status:    status,
		holder:    holder,
		holderID:  holderID,
		discount:  discount,
		expiresAt: expiresAt,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (r *Reservation) IsHeld() bool {
	return r.status == ReservationReserved
}

func (r *Reservation) IsExpiredAt(t time.Time) bool {
	return r.IsHeld() && t.After(r.expiresAt)
}

func (r *Reservation) ID() uuid.UUID             { return r.id }
func (r *Reservation) CouponID() uuid.UUID       { return r.couponID }
func (r *Reservation) TenantID() uuid.UUID       { return r.tenantID }
func (r *Reservation) Status() ReservationStatus { return r.status }
func (r *Reservation) Holder() HolderKind        { return r.holder }
func (r *Reservation) HolderID() uuid.UUID       { return r.holderID }
func (r *Reservation) Discount() decimal.Decimal { return r.discount }
func (r *Reservation) ExpiresAt() time.Time      { return r.expiresAt }
func (r *Reservation) CreatedAt() time.Time      { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time      { return r.updatedAt }
