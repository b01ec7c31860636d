// Package sqlite implements the relational credential backend on an
// embedded SQLite database. Every mutating call is one transaction; there is
// no store-wide save operation because each write is already durable.
package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/accountingops/credvault/internal/domain/model"
	"github.com/accountingops/credvault/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialBackend = (*CredentialBackend)(nil)

// CredentialBackend is the SQLite implementation of the CredentialBackend
// port. Rows are keyed by (client_name, service_name); a row with an empty
// service name keeps a client present without any configured services.
type CredentialBackend struct {
	db *DB
}

// NewCredentialBackend wraps an already-migrated DB. Used by tests and by
// OpenBackend.
func NewCredentialBackend(db *DB) *CredentialBackend {
	return &CredentialBackend{db: db}
}

// OpenBackend opens (creating if necessary) the credential database at path
// and ensures its schema.
func OpenBackend(path string) (*CredentialBackend, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open credential database at %s: %v", driven.ErrIO, path, err)
	}

	if err := RunMigrations(db.Writer); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", driven.ErrSchema, err)
	}

	return NewCredentialBackend(db), nil
}

// ReplaceClient deletes every row for the profile's client and re-inserts
// one row per service inside a single transaction. On any failure the
// transaction rolls back and the prior rows survive untouched.
func (b *CredentialBackend) ReplaceClient(ctx context.Context, profile model.ClientProfile) error {
	name := strings.TrimSpace(profile.DisplayName)

	tx, err := b.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin replace for %q: %v", driven.ErrTransaction, name, err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op.

	const deleteQuery = `DELETE FROM credentials WHERE LOWER(client_name) = LOWER(?)`
	if _, err := tx.ExecContext(ctx, deleteQuery, name); err != nil {
		return fmt.Errorf("clear existing credentials for %q: %w", name, err)
	}

	const insertQuery = `
		INSERT INTO credentials (client_name, service_name, client_id, client_secret, refresh_token, region, environment)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	if len(profile.Services) == 0 {
		// Keeps the client present in the table before any service is configured.
		if _, err := tx.ExecContext(ctx, insertQuery, name, "", "", "", "", "", ""); err != nil {
			return fmt.Errorf("store client %q: %w", name, err)
		}
	}

	for service, cred := range profile.Services {
		if _, err := tx.ExecContext(ctx, insertQuery,
			name, service, cred.ClientID, cred.ClientSecret, cred.RefreshToken, cred.Region, cred.Environment,
		); err != nil {
			return fmt.Errorf("store %s credentials for %q: %w", service, name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit replace for %q: %v", driven.ErrTransaction, name, err)
	}

	return nil
}

// RemoveClient deletes all rows for the given case-insensitive client name
// and reports whether any existed.
func (b *CredentialBackend) RemoveClient(ctx context.Context, name string) (bool, error) {
	tx, err := b.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%w: begin remove for %q: %v", driven.ErrTransaction, name, err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op.

	res, err := tx.ExecContext(ctx, `DELETE FROM credentials WHERE LOWER(client_name) = LOWER(?)`, name)
	if err != nil {
		return false, fmt.Errorf("remove client %q: %w", name, err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("count removed rows for %q: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("%w: commit remove for %q: %v", driven.ErrTransaction, name, err)
	}

	return removed > 0, nil
}

// Load reads all rows ordered by case-insensitive client then service name
// and folds them back into profiles. Rows with an empty client name are
// skipped; a row with an empty service name yields a client with zero
// configured services.
func (b *CredentialBackend) Load(ctx context.Context) ([]model.ClientProfile, error) {
	const query = `
		SELECT client_name, service_name, client_id, client_secret, refresh_token, region, environment
		FROM credentials
		ORDER BY LOWER(client_name), LOWER(service_name)
	`

	rows, err := b.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: read credentials: %v", driven.ErrIO, err)
	}
	defer rows.Close()

	var profiles []model.ClientProfile
	index := make(map[string]int) // lower-cased client name -> position in profiles

	for rows.Next() {
		var clientName, serviceName string
		var cred model.ServiceCredential
		if err := rows.Scan(
			&clientName, &serviceName,
			&cred.ClientID, &cred.ClientSecret, &cred.RefreshToken, &cred.Region, &cred.Environment,
		); err != nil {
			return nil, fmt.Errorf("scan credential row: %w", err)
		}

		if clientName == "" {
			continue
		}

		key := strings.ToLower(clientName)
		i, ok := index[key]
		if !ok {
			i = len(profiles)
			index[key] = i
			profiles = append(profiles, model.ClientProfile{
				DisplayName: clientName,
				Services:    make(map[string]model.ServiceCredential),
			})
		}

		if serviceName != "" {
			profiles[i].Services[serviceName] = cred
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate credentials: %v", driven.ErrIO, err)
	}

	return profiles, nil
}

// Close releases both database connections.
func (b *CredentialBackend) Close() error {
	return b.db.Close()
}
