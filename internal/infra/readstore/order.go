package readstore

import (
	"context"

	"retail-core/internal/infra"
	"retail-core/internal/infra/db"
	"retail-core/internal/infra/pgconv"
	"retail-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type OrderReadStore struct {
	db db.DBTX
}

func NewOrderReadStore(db db.DBTX) *OrderReadStore {
	return &OrderReadStore{db: db}
}

func (r *OrderReadStore) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*queries.OrderView, error) {
	var (
		v          queries.OrderView
		couponCode pgtype.Text
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, tenant_id, status, subtotal, discount_amount, delivery_fee, total,
			coupon_applied, coupon_code, customer_name, customer_email, customer_phone,
			delivery_address, payment_method, created_at
		FROM orders
		WHERE id = $1 AND tenant_id = $2`,
		id, tenantID,
	).Scan(
		&v.ID, &v.TenantID, &v.Status, &v.Subtotal, &v.Discount, &v.DeliveryFee, &v.Total,
		&v.CouponApplied, &couponCode, &v.CustomerName, &v.CustomerEmail, &v.CustomerPhone,
		&v.DeliveryAddress, &v.PaymentMethod, &v.CreatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order", err)
	}
	v.CouponCode = pgconv.TextPtr(couponCode)

	rows, err := r.db.Query(ctx, `
		SELECT product_id, unit_price, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY line_no`,
		id,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load order items", err)
	}
	defer rows.Close()

	v.Items = []queries.OrderItemView{}
	for rows.Next() {
		var item queries.OrderItemView
		if err := rows.Scan(&item.ProductID, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order item", err)
		}
		v.Items = append(v.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order items", err)
	}
	return &v, nil
}
