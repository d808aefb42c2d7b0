// Package session persists the client state that must survive a restart:
// cart contents, the in-flight buy draft, the selected payment method and
// the authenticated session. Backed by a single local SQLite file.
package session

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/JoLazarte/marketplace-client/internal/cart"
	"github.com/JoLazarte/marketplace-client/internal/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNoSession is returned by LoadAuth when no user is logged in.
var ErrNoSession = errors.New("no persisted auth session")

// AuthRecord is the persisted form of an authenticated session.
type AuthRecord struct {
	Token     string
	Username  string
	FirstName string
	LastName  string
	Email     string
	Role      string
}

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping state database: %w", err)
	}

	// a single writer; SQLite is happiest that way
	db.SetMaxOpenConns(1)

	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations() error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not load embedded migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// SaveCart replaces the persisted cart with the given snapshot.
func (r *Repository) SaveCart(ctx context.Context, lines []cart.Line) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_lines`); err != nil {
		return fmt.Errorf("failed to clear cart lines: %w", err)
	}

	const insert = `
		INSERT INTO cart_lines
			(product_id, kind, title, price, quantity, stock, discount_percentage, discount_active, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, line := range lines {
		_, err := tx.ExecContext(ctx, insert,
			line.ID, string(line.Kind), line.Title, line.Price, line.Quantity,
			line.Stock, line.DiscountPercentage, line.DiscountActive, line.ImageURL,
		)
		if err != nil {
			return fmt.Errorf("failed to insert cart line %d: %w", line.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cart: %w", err)
	}
	return nil
}

// LoadCart returns the persisted cart in insertion order.
func (r *Repository) LoadCart(ctx context.Context) ([]cart.Line, error) {
	const query = `
		SELECT product_id, kind, title, price, quantity, stock, discount_percentage, discount_active, image_url
		FROM cart_lines
		ORDER BY position
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}
	defer rows.Close()

	var lines []cart.Line
	for rows.Next() {
		var line cart.Line
		var kind string
		err := rows.Scan(&line.ID, &kind, &line.Title, &line.Price, &line.Quantity,
			&line.Stock, &line.DiscountPercentage, &line.DiscountActive, &line.ImageURL)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		line.Kind = domain.Kind(kind)
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cart lines: %w", err)
	}
	return lines, nil
}

// SaveDraftID records the server-assigned buy id while a draft is open.
func (r *Repository) SaveDraftID(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE purchase_state SET draft_id = ? WHERE id = 1`, id)
	if err != nil {
		return fmt.Errorf("failed to save draft id: %w", err)
	}
	return nil
}

func (r *Repository) ClearDraftID(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `UPDATE purchase_state SET draft_id = NULL WHERE id = 1`)
	if err != nil {
		return fmt.Errorf("failed to clear draft id: %w", err)
	}
	return nil
}

func (r *Repository) SavePaymentMethod(ctx context.Context, method string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE purchase_state SET payment_method = ? WHERE id = 1`, method)
	if err != nil {
		return fmt.Errorf("failed to save payment method: %w", err)
	}
	return nil
}

func (r *Repository) ClearPaymentMethod(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `UPDATE purchase_state SET payment_method = NULL WHERE id = 1`)
	if err != nil {
		return fmt.Errorf("failed to clear payment method: %w", err)
	}
	return nil
}

// LoadPurchaseState returns the persisted draft id (nil when none) and the
// selected payment method ("" when none).
func (r *Repository) LoadPurchaseState(ctx context.Context) (*int64, string, error) {
	var draftID sql.NullInt64
	var method sql.NullString

	row := r.db.QueryRowContext(ctx, `SELECT draft_id, payment_method FROM purchase_state WHERE id = 1`)
	if err := row.Scan(&draftID, &method); err != nil {
		return nil, "", fmt.Errorf("failed to load purchase state: %w", err)
	}

	var id *int64
	if draftID.Valid {
		id = &draftID.Int64
	}
	return id, method.String, nil
}

// SaveAuth stores the authenticated session, replacing any previous one.
func (r *Repository) SaveAuth(ctx context.Context, rec AuthRecord) error {
	const upsert = `
		INSERT INTO auth_session (id, token, username, first_name, last_name, email, role)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			token = excluded.token,
			username = excluded.username,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			email = excluded.email,
			role = excluded.role
	`
	_, err := r.db.ExecContext(ctx, upsert,
		rec.Token, rec.Username, rec.FirstName, rec.LastName, rec.Email, rec.Role)
	if err != nil {
		return fmt.Errorf("failed to save auth session: %w", err)
	}
	return nil
}

func (r *Repository) LoadAuth(ctx context.Context) (*AuthRecord, error) {
	var rec AuthRecord
	row := r.db.QueryRowContext(ctx,
		`SELECT token, username, first_name, last_name, email, role FROM auth_session WHERE id = 1`)
	err := row.Scan(&rec.Token, &rec.Username, &rec.FirstName, &rec.LastName, &rec.Email, &rec.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load auth session: %w", err)
	}
	return &rec, nil
}

func (r *Repository) ClearAuth(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM auth_session`); err != nil {
		return fmt.Errorf("failed to clear auth session: %w", err)
	}
	return nil
}
