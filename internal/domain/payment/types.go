package payment

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidMethod       = errors.New("unsupported payment method")
	ErrInvalidBillingCycle = errors.New("unsupported billing cycle")
	ErrInvalidTarget       = errors.New("payment target must be a plan or an order")
	ErrInvalidAmounts      = errors.New("payment amounts are inconsistent")
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// IsOpen reports whether the attempt still blocks another attempt for the same billing key.
func (s Status) IsOpen() bool {
	return s == StatusPending || s == StatusProcessing
}

func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusCancelled
}

type Method string

const (
	MethodCard         Method = "card"
	MethodBankTransfer Method = "bank_transfer"
	MethodEWallet      Method = "e_wallet"
	MethodCash         Method = "cash"
)

func NewMethod(s string) (Method, error) {
	m := Method(s)
	switch m {
	case MethodCard, MethodBankTransfer, MethodEWallet, MethodCash:
		return m, nil
	default:
		return "", ErrInvalidMethod
	}
}

type BillingCycle string

const (
	CycleMonthly BillingCycle = "monthly"
	CycleYearly  BillingCycle = "yearly"
)

func NewBillingCycle(s string) (BillingCycle, error) {
	c := BillingCycle(s)
	switch c {
	case CycleMonthly, CycleYearly:
		return c, nil
	default:
		return "", ErrInvalidBillingCycle
	}
}

type TargetKind string

const (
	TargetSubscription TargetKind = "subscription"
	TargetOrder        TargetKind = "order"
)

// Target is what the attempt pays for: a plan and billing cycle, or an order.
type Target struct {
	Kind         TargetKind
	PlanID       *uuid.UUID
	BillingCycle *BillingCycle
	OrderID      *uuid.UUID
}

func SubscriptionTarget(planID uuid.UUID, cycle BillingCycle) Target {
	return Target{Kind: TargetSubscription, PlanID: &planID, BillingCycle: &cycle}
}

func OrderTarget(orderID uuid.UUID) Target {
	return Target{Kind: TargetOrder, OrderID: &orderID}
}

func (t Target) Validate() error {
	switch t.Kind {
	case TargetSubscription:
		if t.PlanID == nil || *t.PlanID == uuid.Nil || t.BillingCycle == nil {
			return ErrInvalidTarget
		}
	case TargetOrder:
		if t.OrderID == nil || *t.OrderID == uuid.Nil {
			return ErrInvalidTarget
		}
	default:
		return ErrInvalidTarget
	}
	return nil
}

// BillingKey identifies the billing cycle that may have only one open attempt per tenant.
func (t Target) BillingKey() string {
	if t.Kind == TargetOrder {
		return fmt.Sprintf("order:%s", t.OrderID)
	}
	return fmt.Sprintf("plan:%s:%s", t.PlanID, *t.BillingCycle)
}

type Amounts struct {
	Base     decimal.Decimal
	Discount decimal.Decimal
	Final    decimal.Decimal
}

func (a Amounts) Validate() error {
	if a.Base.IsNegative() || a.Discount.IsNegative() || a.Final.IsNegative() {
		return ErrInvalidAmounts
	}
	if a.Discount.GreaterThan(a.Base) {
		return ErrInvalidAmounts
	}
	return nil
}
