package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("not found")

// DBPool matches the *pgxpool.Pool method the repository needs.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository interface {
	GetProduct(ctx context.Context, id int64) (Product, error)
	GetProductBySKU(ctx context.Context, sku string) (Product, error)
	GetOption(ctx context.Context, productID, optionID int64) (Option, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const productColumns = `
	SELECT p.id, p.sku, p.name, p.description, p.price, p.is_custom,
	       COALESCE(c.id, 0), COALESCE(c.name, ''), COALESCE(c.friendly_name, ''),
	       COALESCE(c.supports_pack_options, false)
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id`

func (r *PostgresRepository) GetProduct(ctx context.Context, id int64) (Product, error) {
	row := r.pool.QueryRow(ctx, productColumns+` WHERE p.id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		return Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

func (r *PostgresRepository) GetProductBySKU(ctx context.Context, sku string) (Product, error) {
	row := r.pool.QueryRow(ctx, productColumns+` WHERE p.sku = $1`, sku)
	p, err := scanProduct(row)
	if err != nil {
		return Product{}, fmt.Errorf("get product sku %q: %w", sku, err)
	}
	return p, nil
}

// GetOption only resolves options that belong to productID.
func (r *PostgresRepository) GetOption(ctx context.Context, productID, optionID int64) (Option, error) {
	var o Option
	err := r.pool.QueryRow(ctx, `
		SELECT id, product_id, label, pack_quantity, price
		FROM product_options
		WHERE id = $1 AND product_id = $2
	`, optionID, productID).Scan(&o.ID, &o.ProductID, &o.Label, &o.PackQuantity, &o.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Option{}, ErrNotFound
		}
		return Option{}, fmt.Errorf("get option %d of product %d: %w", optionID, productID, err)
	}
	return o, nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p   Product
		cat Category
	)
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Description, &p.Price, &p.IsCustom,
		&cat.ID, &cat.Name, &cat.FriendlyName, &cat.SupportsPackOptions,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	if cat.ID != 0 {
		p.Category = &cat
	}
	return p, nil
}
