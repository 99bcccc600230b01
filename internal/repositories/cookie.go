package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/tdx/internal/session"
)

var _ session.CookieStore = (*CookieRepository)(nil)

// CookieRepository implements [session.CookieStore] on the cookies table.
//
// Expiry is not filtered here; the jar decides what is live.
type CookieRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewCookieRepository creates a new [CookieRepository] with the given database connection
func NewCookieRepository(db *sql.DB) *CookieRepository {
	return &CookieRepository{db: db, now: time.Now}
}

// Put inserts or replaces a cookie, preserving its original creation time.
func (r *CookieRepository) Put(ctx context.Context, e session.Entry) error {
	now := r.now().UTC()
	created := e.Created
	if created.IsZero() {
		created = now
	}

	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO cookies (name, value, domain, path, host_only, secure, http_only, partitioned, expires_at, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (name, domain, path) DO UPDATE SET
				value = excluded.value,
				host_only = excluded.host_only,
				secure = excluded.secure,
				http_only = excluded.http_only,
				partitioned = excluded.partitioned,
				expires_at = excluded.expires_at,
				updated_at = excluded.updated_at
		`

		_, err := tx.ExecContext(ctx, query,
			e.Name, e.Value, e.Domain, e.Path,
			e.HostOnly, e.Secure, e.HTTPOnly, e.Partitioned,
			nullTime(e.Expires), created.UTC(), now,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert cookie %s: %w", e.Name, err)
		}
		return nil
	})
}

// Remove deletes a cookie. Removing a missing cookie is not an error.
func (r *CookieRepository) Remove(ctx context.Context, name, domain, path string) error {
	query := `DELETE FROM cookies WHERE name = ? AND domain = ? AND path = ?`

	if _, err := r.db.ExecContext(ctx, query, name, domain, path); err != nil {
		return fmt.Errorf("failed to delete cookie %s: %w", name, err)
	}
	return nil
}

// All returns every stored cookie, longest path first and then oldest first.
func (r *CookieRepository) All(ctx context.Context) ([]session.Entry, error) {
	query := `
		SELECT name, value, domain, path, host_only, secure, http_only, partitioned, expires_at, created_at
		FROM cookies
		ORDER BY length(path) DESC, created_at ASC, name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cookies: %w", err)
	}
	defer rows.Close()

	var entries []session.Entry
	for rows.Next() {
		var (
			e         session.Entry
			expiresAt sql.NullTime
		)

		err := rows.Scan(
			&e.Name, &e.Value, &e.Domain, &e.Path,
			&e.HostOnly, &e.Secure, &e.HTTPOnly, &e.Partitioned,
			&expiresAt, &e.Created,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cookie: %w", err)
		}

		if expiresAt.Valid {
			e.Expires = expiresAt.Time
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

// Clear deletes every stored cookie.
func (r *CookieRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cookies`); err != nil {
		return fmt.Errorf("failed to clear cookies: %w", err)
	}
	return nil
}
