//go:build unit || e2e

package builder

import (
	"time"

	"retail-core/internal/domain/money"
	"retail-core/internal/domain/payment"
	"retail-core/internal/usecase/queries"

	"github.com/google/uuid"
)

type PaymentBuilder struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	PlanID   uuid.UUID
	Cycle    payment.BillingCycle
	Method   payment.Method
	Base     string
	Discount string
	Now      time.Time
}

func NewPaymentBuilder() *PaymentBuilder {
	return &PaymentBuilder{
		ID:       uuid.New(),
		TenantID: uuid.New(),
		PlanID:   uuid.New(),
		Cycle:    payment.CycleMonthly,
		Method:   payment.MethodCard,
		Base:     "100.00",
		Discount: "0.00",
		Now:      time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}
}

func (b *PaymentBuilder) With(mutate func(*PaymentBuilder)) *PaymentBuilder {
	mutate(b)
	return b
}

func (b *PaymentBuilder) WithTenant(id uuid.UUID) *PaymentBuilder {
	b.TenantID = id
	return b
}

func (b *PaymentBuilder) WithDiscount(v string) *PaymentBuilder {
	b.Discount = v
	return b
}

func (b *PaymentBuilder) Amounts() payment.Amounts {
	base := money.MustParse(b.Base)
	discount := money.MustParse(b.Discount)
	return payment.Amounts{Base: base, Discount: discount, Final: base.Sub(discount)}
}

func (b *PaymentBuilder) BuildDomain() (*payment.Attempt, error) {
	return payment.NewAttemptWithID(b.ID, payment.OpenParams{
		TenantID: b.TenantID,
		Target:   payment.SubscriptionTarget(b.PlanID, b.Cycle),
		Amounts:  b.Amounts(),
		Method:   b.Method,
	}, b.Now)
}

func (b *PaymentBuilder) BuildReport() *queries.PaymentReport {
	a := b.Amounts()
	cycle := string(b.Cycle)
	planID := b.PlanID
	return &queries.PaymentReport{
		ID:               b.ID,
		TargetKind:       string(payment.TargetSubscription),
		PlanID:           &planID,
		BillingCycle:     &cycle,
		Method:           string(b.Method),
		Status:           string(payment.StatusPending),
		BaseAmount:       a.Base,
		DiscountAmount:   a.Discount,
		FinalAmount:      a.Final,
		AttemptNumber:    1,
		PreviousAttempts: []queries.FailedAttemptView{},
		CreatedAt:        b.Now,
		UpdatedAt:        b.Now,
	}
}

func (b *PaymentBuilder) BuildListItem() *queries.PaymentListItem {
	return &queries.PaymentListItem{
		ID:            b.ID,
		TargetKind:    string(payment.TargetSubscription),
		Status:        string(payment.StatusPending),
		Method:        string(b.Method),
		FinalAmount:   b.Amounts().Final,
		AttemptNumber: 1,
		CreatedAt:     b.Now,
	}
}
