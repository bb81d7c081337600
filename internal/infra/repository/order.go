package repository

import (
	"context"

	"retail-core/internal/domain/order"
	"retail-core/internal/infra"
	"retail-core/internal/infra/db"
	"retail-core/internal/infra/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

type OrderRepository struct {
	db db.DBTX
}

func NewOrderRepository(db db.DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create writes the order and its line items. Callers run it inside a transaction.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	p := o.Pricing()
	cust := o.Customer()
	_, err := r.db.Exec(ctx, `
		INSERT INTO orders (
			id, tenant_id, subtotal, discount_amount, delivery_fee, total,
			coupon_applied, coupon_code, reservation_id,
			customer_name, customer_email, customer_phone, delivery_address,
			payment_method, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		o.ID(), o.TenantID(), p.Subtotal, p.Discount, p.DeliveryFee, p.Total,
		p.CouponApplied, pgconv.TextFromPtr(o.CouponCode()), pgconv.UUIDFromPtr(o.ReservationID()),
		cust.Name, cust.Email, cust.Phone, cust.Address,
		o.PaymentMethod(), string(o.Status()), o.CreatedAt(), o.UpdatedAt(),
	)
	if err != nil {
		if pgconv.IsUniqueViolation(err) {
			return infra.WrapRepoErr("order already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create order", err)
	}

	batch := &pgx.Batch{}
	for i, item := range o.Items() {
		batch.Queue(`
			INSERT INTO order_items (order_id, line_no, product_id, unit_price, quantity)
			VALUES ($1, $2, $3, $4, $5)`,
			o.ID(), i+1, item.ProductID, item.UnitPrice, item.Quantity,
		)
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return infra.WrapRepoErr("failed to create order items", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*order.Order, error) {
	var (
		subtotal, discount, fee, total decimal.Decimal
		couponApplied                  bool
		couponCode                     pgtype.Text
		reservationID                  pgtype.UUID
		cust                           order.Customer
		paymentMethod, status          string
		createdAt, updatedAt           pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, `
		SELECT subtotal, discount_amount, delivery_fee, total, coupon_applied, coupon_code, reservation_id,
			customer_name, customer_email, customer_phone, delivery_address,
			payment_method, status, created_at, updated_at
		FROM orders
		WHERE id = $1 AND tenant_id = $2`,
		id, tenantID,
	).Scan(&subtotal, &discount, &fee, &total, &couponApplied, &couponCode, &reservationID,
		&cust.Name, &cust.Email, &cust.Phone, &cust.Address,
		&paymentMethod, &status, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order", err)
	}

	items, err := r.findItems(ctx, id)
	if err != nil {
		return nil, err
	}

	pricing := order.Pricing{
		Subtotal:      subtotal,
		Discount:      discount,
		DeliveryFee:   fee,
		Total:         total,
		CouponApplied: couponApplied,
	}
	return order.ReconstructOrder(id, tenantID, items, pricing,
		pgconv.TextPtr(couponCode), pgconv.UUIDPtr(reservationID), cust,
		paymentMethod, order.Status(status), createdAt.Time, updatedAt.Time), nil
}

func (r *OrderRepository) findItems(ctx context.Context, orderID uuid.UUID) ([]order.LineItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT product_id, unit_price, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY line_no`,
		orderID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load order items", err)
	}
	defer rows.Close()

	var items []order.LineItem
	for rows.Next() {
		var li order.LineItem
		if err := rows.Scan(&li.ProductID, &li.UnitPrice, &li.Quantity); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order item", err)
		}
		items = append(items, li)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order items", err)
	}
	return items, nil
}

func (r *OrderRepository) MarkConfirmed(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE orders SET status = 'confirmed', updated_at = now()
		WHERE id = $1`,
		id,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to confirm order", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return nil
}
