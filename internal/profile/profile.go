// Package profile stores the delivery defaults a registered customer asked
// checkout to remember.
package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

// Profile holds the saved defaults for one user. Email is not stored here; it
// belongs to the account.
type Profile struct {
	UserID         string
	FullName       string
	PhoneNumber    string
	Country        string
	Postcode       string
	TownOrCity     string
	StreetAddress1 string
	StreetAddress2 string
	County         string
}

// FromShipping copies the reusable parts of a checkout form into a profile.
func FromShipping(userID string, s order.ShippingDetails) Profile {
	return Profile{
		UserID:         userID,
		FullName:       s.FullName,
		PhoneNumber:    s.PhoneNumber,
		Country:        s.Country,
		Postcode:       s.Postcode,
		TownOrCity:     s.TownOrCity,
		StreetAddress1: s.StreetAddress1,
		StreetAddress2: s.StreetAddress2,
		County:         s.County,
	}
}

// Shipping returns the profile as prefilled checkout details.
func (p Profile) Shipping() order.ShippingDetails {
	return order.ShippingDetails{
		FullName:       p.FullName,
		PhoneNumber:    p.PhoneNumber,
		Country:        p.Country,
		Postcode:       p.Postcode,
		TownOrCity:     p.TownOrCity,
		StreetAddress1: p.StreetAddress1,
		StreetAddress2: p.StreetAddress2,
		County:         p.County,
	}
}

type Repository interface {
	// Get returns nil, nil when the user has no saved profile.
	Get(ctx context.Context, userID string) (*Profile, error)
	Upsert(ctx context.Context, p Profile) error
}

// DBPool matches the *pgxpool.Pool methods the repository needs.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*Profile, error) {
	p := Profile{UserID: userID}
	err := r.pool.QueryRow(ctx, `
		SELECT default_full_name, default_phone_number, default_country, default_postcode,
		       default_town_or_city, default_street_address1, default_street_address2, default_county
		FROM profiles
		WHERE user_id = $1
	`, userID).Scan(
		&p.FullName, &p.PhoneNumber, &p.Country, &p.Postcode,
		&p.TownOrCity, &p.StreetAddress1, &p.StreetAddress2, &p.County,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile %s: %w", userID, err)
	}
	return &p, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, p Profile) error {
	if p.UserID == "" {
		return errors.New("upsert profile: user id is required")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO profiles (
			user_id, default_full_name, default_phone_number, default_country, default_postcode,
			default_town_or_city, default_street_address1, default_street_address2, default_county, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		ON CONFLICT (user_id) DO UPDATE SET
			default_full_name       = EXCLUDED.default_full_name,
			default_phone_number    = EXCLUDED.default_phone_number,
			default_country         = EXCLUDED.default_country,
			default_postcode        = EXCLUDED.default_postcode,
			default_town_or_city    = EXCLUDED.default_town_or_city,
			default_street_address1 = EXCLUDED.default_street_address1,
			default_street_address2 = EXCLUDED.default_street_address2,
			default_county          = EXCLUDED.default_county,
			updated_at              = now()
	`, p.UserID, p.FullName, p.PhoneNumber, p.Country, p.Postcode,
		p.TownOrCity, p.StreetAddress1, p.StreetAddress2, p.County)
	if err != nil {
		return fmt.Errorf("upsert profile %s: %w", p.UserID, err)
	}
	return nil
}
