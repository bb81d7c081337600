//go:build unit

package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"retail-core/internal/domain/company"
	"retail-core/internal/domain/coupon"
	"retail-core/internal/domain/order"
	"retail-core/internal/domain/payment"
	"retail-core/internal/domain/user"
	"retail-core/internal/domain/verification"
	"retail-core/internal/infra"
	"retail-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func notFound(msg string) error  { return infra.WrapRepoErr(msg, nil, infra.KindNotFound) }
func duplicate(msg string) error { return infra.WrapRepoErr(msg, nil, infra.KindDuplicateKey) }
func conflict(msg string) error  { return infra.WrapRepoErr(msg, nil, infra.KindConflict) }

func paramsOf(c *coupon.Coupon) coupon.Params {
	return coupon.Params{
		TenantID:       c.TenantID(),
		Code:           c.Code().String(),
		Title:          c.Title(),
		Description:    c.Description(),
		Kind:           c.Discount().Kind(),
		Value:          c.Discount().Value(),
		StartsAt:       c.StartsAt(),
		EndsAt:         c.EndsAt(),
		MaxUses:        c.MaxUses(),
		MinOrderTotal:  c.MinOrderTotal(),
		PlanID:         c.PlanID(),
		BillingCycle:   c.BillingCycle(),
		DurationMonths: c.DurationMonths(),
	}
}

func (r couponRow) toDomain(id uuid.UUID) *coupon.Coupon {
	c, err := coupon.ReconstructCoupon(id, r.params, r.usedCount, r.active, r.createdAt, r.updatedAt)
	if err != nil {
		panic(err)
	}
	return c
}

type couponRepo struct{ s *Store }

func (r couponRepo) Create(_ context.Context, c *coupon.Coupon) error {
	if err := r.s.popFailure("coupons.create"); err != nil {
		return err
	}
	for _, row := range r.s.st.coupons {
		if row.params.TenantID == c.TenantID() && strings.EqualFold(row.params.Code, c.Code().String()) {
			return duplicate("coupon code exists")
		}
	}
	r.s.st.coupons[c.ID()] = couponRow{
		params:    paramsOf(c),
		usedCount: c.UsedCount(),
		active:    c.IsActive(),
		createdAt: c.CreatedAt(),
		updatedAt: c.UpdatedAt(),
	}
	return nil
}

func (r couponRepo) FindByCode(_ context.Context, tenantID uuid.UUID, code coupon.Code) (*coupon.Coupon, error) {
	if err := r.s.popFailure("coupons.findByCode"); err != nil {
		return nil, err
	}
	for id, row := range r.s.st.coupons {
		if row.params.TenantID == tenantID && strings.EqualFold(row.params.Code, code.String()) {
			return row.toDomain(id), nil
		}
	}
	return nil, notFound("coupon not found")
}

func (r couponRepo) FindByID(_ context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	row, ok := r.s.st.coupons[id]
	if !ok {
		return nil, notFound("coupon not found")
	}
	return row.toDomain(id), nil
}

func (r couponRepo) IncrementUsage(_ context.Context, id uuid.UUID) (bool, error) {
	if err := r.s.popFailure("coupons.incrementUsage"); err != nil {
		return false, err
	}
	row, ok := r.s.st.coupons[id]
	if !ok {
		return false, nil
	}
	if row.params.MaxUses != 0 && row.usedCount >= row.params.MaxUses {
		return false, nil
	}
	row.usedCount++
	r.s.st.coupons[id] = row
	return true, nil
}

func (r couponRepo) DecrementUsage(_ context.Context, id uuid.UUID) error {
	row, ok := r.s.st.coupons[id]
	if ok && row.usedCount > 0 {
		row.usedCount--
		r.s.st.coupons[id] = row
	}
	return nil
}

func (r couponRepo) Deactivate(_ context.Context, tenantID uuid.UUID, code coupon.Code) error {
	for id, row := range r.s.st.coupons {
		if row.params.TenantID == tenantID && strings.EqualFold(row.params.Code, code.String()) {
			row.active = false
			r.s.st.coupons[id] = row
			return nil
		}
	}
	return notFound("coupon not found")
}

func (r reservationRow) toDomain(id uuid.UUID) *coupon.Reservation {
	return coupon.ReconstructReservation(id, r.couponID, r.tenantID, r.status, r.holder, r.holderID,
		r.discount, r.expiresAt, r.createdAt, r.updatedAt)
}

type reservationRepo struct{ s *Store }

func (r reservationRepo) Create(_ context.Context, res *coupon.Reservation) error {
	if err := r.s.popFailure("reservations.create"); err != nil {
		return err
	}
	if _, ok := r.s.st.reservations[res.ID()]; ok {
		return duplicate("reservation exists")
	}
	if _, ok := r.s.st.coupons[res.CouponID()]; !ok {
		return infra.WrapRepoErr("coupon missing", nil, infra.KindForeignKeyViolated)
	}
	r.s.st.reservations[res.ID()] = reservationRow{
		couponID:  res.CouponID(),
		tenantID:  res.TenantID(),
		status:    res.Status(),
		holder:    res.Holder(),
		holderID:  res.HolderID(),
		discount:  res.Discount(),
		expiresAt: res.ExpiresAt(),
		createdAt: res.CreatedAt(),
		updatedAt: res.UpdatedAt(),
	}
	return nil
}

func (r reservationRepo) FindByID(_ context.Context, id uuid.UUID) (*coupon.Reservation, error) {
	row, ok := r.s.st.reservations[id]
	if !ok {
		return nil, notFound("reservation not found")
	}
	return row.toDomain(id), nil
}

func (r reservationRepo) Transition(_ context.Context, id uuid.UUID, from, to coupon.ReservationStatus) (bool, error) {
	if err := r.s.popFailure("reservations.transition"); err != nil {
		return false, err
	}
	row, ok := r.s.st.reservations[id]
	if !ok || row.status != from {
		return false, nil
	}
	row.status = to
	r.s.st.reservations[id] = row
	return true, nil
}

func (r reservationRepo) Reassign(_ context.Context, id uuid.UUID, holderID uuid.UUID, expiresAt time.Time) (bool, error) {
	row, ok := r.s.st.reservations[id]
	if !ok || row.status != coupon.ReservationReserved {
		return false, nil
	}
	row.holderID = holderID
	row.expiresAt = expiresAt
	r.s.st.reservations[id] = row
	return true, nil
}

func (r reservationRepo) ListExpired(_ context.Context, now time.Time, limit int) ([]*coupon.Reservation, error) {
	var out []*coupon.Reservation
	for id, row := range r.s.st.reservations {
		if row.status != coupon.ReservationReserved || !now.After(row.expiresAt) {
			continue
		}
		if a, ok := r.s.st.payments[row.holderID]; ok && a.Status.IsOpen() {
			continue
		}
		out = append(out, row.toDomain(id))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt().Before(out[j].ExpiresAt()) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r usageRow) toDomain() *coupon.Usage {
	u := r.usage
	return coupon.ReconstructUsage(u.ID(), u.CouponID(), u.ReservationID(), u.TenantID(), u.Redeemer(),
		u.OriginalPrice(), u.Discount(), u.FinalPrice(), u.PlanID(), u.BillingCycle(), r.status, u.AppliedAt(), u.ExpiresAt())
}

type usageRepo struct{ s *Store }

func (r usageRepo) Create(_ context.Context, u *coupon.Usage) error {
	if err := r.s.popFailure("usages.create"); err != nil {
		return err
	}
	for _, row := range r.s.st.usages {
		if row.usage.ReservationID() == u.ReservationID() {
			return duplicate("usage exists for reservation")
		}
	}
	r.s.st.usages[u.ID()] = usageRow{usage: u, status: u.Status()}
	return nil
}

func (r usageRepo) CancelByReservation(_ context.Context, reservationID uuid.UUID) (int64, error) {
	var n int64
	for id, row := range r.s.st.usages {
		if row.usage.ReservationID() == reservationID && row.status == coupon.UsageActive {
			row.status = coupon.UsageCancelled
			r.s.st.usages[id] = row
			n++
		}
	}
	return n, nil
}

func (r usageRepo) ExpireDue(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for id, row := range r.s.st.usages {
		exp := row.usage.ExpiresAt()
		if row.status == coupon.UsageActive && exp != nil && exp.Before(now) {
			row.status = coupon.UsageExpired
			r.s.st.usages[id] = row
			n++
		}
	}
	return n, nil
}

type orderRepo struct{ s *Store }

func (r orderRepo) Create(_ context.Context, o *order.Order) error {
	if err := r.s.popFailure("orders.create"); err != nil {
		return err
	}
	if _, ok := r.s.st.orders[o.ID()]; ok {
		return duplicate("order exists")
	}
	r.s.st.orders[o.ID()] = orderRow{order: o, status: o.Status()}
	return nil
}

func (r orderRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*order.Order, error) {
	row, ok := r.s.st.orders[id]
	if !ok || row.order.TenantID() != tenantID {
		return nil, notFound("order not found")
	}
	return row.toDomain(), nil
}

func (r orderRow) toDomain() *order.Order {
	o := r.order
	return order.ReconstructOrder(o.ID(), o.TenantID(), o.Items(), o.Pricing(), o.CouponCode(), o.ReservationID(),
		o.Customer(), o.PaymentMethod(), r.status, o.CreatedAt(), o.UpdatedAt())
}

func (r orderRepo) MarkConfirmed(_ context.Context, id uuid.UUID) error {
	row, ok := r.s.st.orders[id]
	if !ok {
		return notFound("order not found")
	}
	row.status = order.StatusConfirmed
	r.s.st.orders[id] = row
	return nil
}

type paymentRepo struct{ s *Store }

func (r paymentRepo) Create(_ context.Context, a *payment.Attempt) error {
	if err := r.s.popFailure("payments.create"); err != nil {
		return err
	}
	if _, ok := r.s.st.payments[a.ID()]; ok {
		return duplicate("payment attempt exists")
	}
	if a.Status().IsOpen() {
		for _, other := range r.s.st.payments {
			if other.TenantID == a.TenantID() && other.Status.IsOpen() && other.Target.BillingKey() == a.BillingKey() {
				return conflict("open attempt exists for billing key")
			}
		}
	}
	r.s.st.payments[a.ID()] = a.Snapshot()
	return nil
}

func (r paymentRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*payment.Attempt, error) {
	snap, ok := r.s.st.payments[id]
	if !ok || snap.TenantID != tenantID {
		return nil, notFound("payment attempt not found")
	}
	return payment.Reconstruct(snap), nil
}

func (r paymentRepo) Update(_ context.Context, a *payment.Attempt) error {
	if err := r.s.popFailure("payments.update"); err != nil {
		return err
	}
	stored, ok := r.s.st.payments[a.ID()]
	if !ok || stored.Version != a.Version() {
		return conflict("payment attempt version changed")
	}
	snap := a.Snapshot()
	snap.Version = stored.Version + 1
	r.s.st.payments[a.ID()] = snap
	return nil
}

type subscriptionRepo struct{ s *Store }

func (r subscriptionRepo) Create(_ context.Context, sub *company.Subscription) error {
	r.s.st.subscriptions = append(r.s.st.subscriptions, sub)
	return nil
}

type verificationRepo struct{ s *Store }

func (r verificationRepo) Create(_ context.Context, v *verification.Verification) error {
	if _, ok := r.s.st.verifications[v.ID()]; ok {
		return duplicate("verification exists")
	}
	r.s.st.verifications[v.ID()] = v.Snapshot()
	return nil
}

func (r verificationRepo) FindByID(_ context.Context, id uuid.UUID) (*verification.Verification, error) {
	snap, ok := r.s.st.verifications[id]
	if !ok {
		return nil, notFound("verification not found")
	}
	return verification.Reconstruct(snap), nil
}

func (r verificationRepo) Update(_ context.Context, v *verification.Verification) error {
	if err := r.s.popFailure("verifications.update"); err != nil {
		return err
	}
	stored, ok := r.s.st.verifications[v.ID()]
	if !ok || stored.Version != v.Version() {
		return conflict("verification version changed")
	}
	snap := v.Snapshot()
	snap.Version = stored.Version + 1
	r.s.st.verifications[v.ID()] = snap
	return nil
}

type companyRepo struct{ s *Store }

func (r companyRepo) CreateFromVerification(_ context.Context, c *company.Company) (uuid.UUID, bool, error) {
	if existing, ok := r.s.st.companies[c.SourceVerificationID()]; ok {
		return existing.ID(), false, nil
	}
	r.s.st.companies[c.SourceVerificationID()] = c
	return c.ID(), true, nil
}

func (r companyRepo) CreateUser(_ context.Context, u *user.User) error {
	if err := r.s.popFailure("companies.createUser"); err != nil {
		return err
	}
	for _, existing := range r.s.st.users {
		if existing.CompanyID() == u.CompanyID() && existing.Email() == u.Email() {
			return nil
		}
	}
	r.s.st.users = append(r.s.st.users, u)
	return nil
}

type notificationRepo struct{ s *Store }

func (r notificationRepo) CreateJob(_ context.Context, job shared.NotificationJob) error {
	if err := r.s.popFailure("notifications.createJob"); err != nil {
		return err
	}
	r.s.st.jobs = append(r.s.st.jobs, job)
	return nil
}

type planCatalog struct{ s *Store }

func planKey(planID uuid.UUID, cycle payment.BillingCycle) string {
	return planID.String() + ":" + string(cycle)
}

func (r planCatalog) PlanPrice(_ context.Context, planID uuid.UUID, cycle payment.BillingCycle) (decimal.Decimal, error) {
	price, ok := r.s.st.plans[planKey(planID, cycle)]
	if !ok {
		return decimal.Decimal{}, notFound("plan not found")
	}
	return price, nil
}
