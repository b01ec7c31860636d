package driven

import (
	"context"
	"errors"

	"github.com/accountingops/credvault/internal/domain/model"
)

// Error kinds surfaced by the credential store and its backends. Failures
// wrap exactly one of these (match with errors.Is) plus a human-readable
// message describing the failed operation.
var (
	// ErrPath is returned when the target store path is empty or unusable.
	ErrPath = errors.New("invalid store path")

	// ErrIO covers filesystem and backend open/read/write failures.
	ErrIO = errors.New("storage failure")

	// ErrSchema is returned when the relational schema cannot be ensured.
	ErrSchema = errors.New("schema initialisation failed")

	// ErrFormat is returned when a credential document is malformed.
	ErrFormat = errors.New("malformed credential document")

	// ErrValidation is returned for invalid input, such as an empty client name.
	ErrValidation = errors.New("invalid client profile")

	// ErrTransaction covers begin/commit failures inside the relational backend.
	ErrTransaction = errors.New("transaction failure")
)

// CredentialBackend is the driven port for durable credential persistence.
// A backend owns one on-disk target (a SQLite database or a JSON document)
// and keeps it consistent across partial failure: a ReplaceClient or
// RemoveClient call that returns an error must leave the prior on-disk
// state intact.
type CredentialBackend interface {
	// Load reads every stored profile. The relational backend returns
	// profiles ordered by case-insensitive display name; the document
	// backend preserves document order.
	Load(ctx context.Context) ([]model.ClientProfile, error)

	// ReplaceClient atomically replaces all stored services for the
	// profile's client. Any services previously stored under the same
	// case-insensitive name are discarded, not merged. A profile with no
	// services still persists the client itself.
	ReplaceClient(ctx context.Context, profile model.ClientProfile) error

	// RemoveClient deletes every entry for the given case-insensitive
	// client name. It reports whether anything was removed; removing an
	// unknown name is not an error.
	RemoveClient(ctx context.Context, name string) (bool, error)

	// Close releases the backend's on-disk handle.
	Close() error
}
