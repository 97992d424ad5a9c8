package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrNotFound            = errors.New("order not found")
	ErrDuplicatePaymentRef = errors.New("order already exists for payment reference")
)

const uniqueViolation = "23505"

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByNumber(ctx context.Context, orderNumber string) (*Order, error)
	GetByPaymentRef(ctx context.Context, paymentRef string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListAll(ctx context.Context, limit int) ([]Order, error)
	MarkPaid(ctx context.Context, paymentRef string) (bool, error)
	HasPaidOrderWithCode(ctx context.Context, userID, code string) (bool, error)
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

const insertOrder = `INSERT INTO orders (id, order_number, user_id, session_id, full_name, email, phone_number,
         country, postcode, town_or_city, street_address1, street_address2, county,
         delivery_cost, order_total, discount_amount, discount_code, original_bag,
         payment_ref, paid, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`

const insertLineItem = `INSERT INTO order_line_items (id, order_id, product_id, product_name, option_id,
         option_label, quantity, lineitem_price, lineitem_total)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// Create writes the order and its line items in one transaction.
func (r *repo) Create(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	s := o.Shipping
	_, err = tx.ExecContext(ctx, insertOrder,
		o.ID, o.OrderNumber, nullString(o.UserID), o.SessionID, s.FullName, s.Email, s.PhoneNumber,
		s.Country, s.Postcode, s.TownOrCity, s.StreetAddress1, s.StreetAddress2, s.County,
		o.DeliveryCost, o.OrderTotal, o.DiscountAmount, o.DiscountCode, o.OriginalBag,
		o.PaymentRef, o.Paid, o.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint == "orders_payment_ref_key" {
			return ErrDuplicatePaymentRef
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range o.LineItems {
		li := &o.LineItems[i]
		li.Total = li.LineTotal()

		var optionID sql.NullInt64
		if li.OptionID != nil {
			optionID = sql.NullInt64{Int64: *li.OptionID, Valid: true}
		}
		_, err = tx.ExecContext(ctx, insertLineItem,
			li.ID, o.ID, li.ProductID, li.ProductName, optionID,
			li.OptionLabel, li.Quantity, li.Price, li.Total,
		)
		if err != nil {
			return fmt.Errorf("insert order_line_item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

const selectOrder = `SELECT id, order_number, COALESCE(user_id, ''), session_id, full_name, email, phone_number,
         country, postcode, town_or_city, street_address1, street_address2, county,
         delivery_cost, order_total, discount_amount, discount_code, original_bag,
         payment_ref, paid, created_at
         FROM orders`

func (r *repo) GetByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	return r.getOne(ctx, selectOrder+` WHERE order_number = $1`, orderNumber)
}

func (r *repo) GetByPaymentRef(ctx context.Context, paymentRef string) (*Order, error) {
	if paymentRef == "" {
		return nil, nil
	}
	return r.getOne(ctx, selectOrder+` WHERE payment_ref = $1`, paymentRef)
}

// getOne returns (nil, nil) when no order matches.
func (r *repo) getOne(ctx context.Context, query string, arg any) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	items, err := r.loadItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.LineItems = items
	return &o, nil
}

func (r *repo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return r.list(ctx, selectOrder+` WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *repo) ListAll(ctx context.Context, limit int) ([]Order, error) {
	if limit <= 0 {
		limit = 100
	}
	return r.list(ctx, selectOrder+` ORDER BY created_at DESC LIMIT $1`, limit)
}

func (r *repo) list(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].LineItems = items
	}
	return orders, nil
}

func (r *repo) loadItems(ctx context.Context, orderID string) ([]LineItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, product_id, product_name, option_id, option_label, quantity, lineitem_price, lineitem_total
         FROM order_line_items WHERE order_id = $1 ORDER BY product_id, option_id`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("select order_line_items: %w", err)
	}
	defer rows.Close()

	var items []LineItem
	for rows.Next() {
		var (
			li       LineItem
			optionID sql.NullInt64
		)
		if err := rows.Scan(&li.ID, &li.ProductID, &li.ProductName, &optionID, &li.OptionLabel, &li.Quantity, &li.Price, &li.Total); err != nil {
			return nil, fmt.Errorf("scan order_line_item: %w", err)
		}
		if optionID.Valid {
			id := optionID.Int64
			li.OptionID = &id
		}
		items = append(items, li)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return items, nil
}

// MarkPaid flips the paid flag for paymentRef. It reports whether a row changed;
// an unknown or already paid reference is not an error.
func (r *repo) MarkPaid(ctx context.Context, paymentRef string) (bool, error) {
	if paymentRef == "" {
		return false, nil
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET paid = true WHERE payment_ref = $1 AND paid = false`,
		paymentRef,
	)
	if err != nil {
		return false, fmt.Errorf("mark paid: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *repo) HasPaidOrderWithCode(ctx context.Context, userID, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE user_id = $1 AND paid AND discount_code = $2)`,
		userID, code,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("select discount usage: %w", err)
	}
	return exists, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (Order, error) {
	var o Order
	s := &o.Shipping
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.SessionID, &s.FullName, &s.Email, &s.PhoneNumber,
		&s.Country, &s.Postcode, &s.TownOrCity, &s.StreetAddress1, &s.StreetAddress2, &s.County,
		&o.DeliveryCost, &o.OrderTotal, &o.DiscountAmount, &o.DiscountCode, &o.OriginalBag,
		&o.PaymentRef, &o.Paid, &o.CreatedAt,
	)
	return o, err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
