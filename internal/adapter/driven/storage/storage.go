// Package storage selects a credential backend implementation for a store
// path. The two backends are not drop-in compatible on disk, so the choice
// is made once at open time, by explicit kind or by file extension.
package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/accountingops/credvault/internal/adapter/driven/jsonfile"
	"github.com/accountingops/credvault/internal/adapter/driven/sqlite"
	"github.com/accountingops/credvault/internal/domain/port/driven"
)

// Backend kinds accepted by ForKind and by CREDVAULT_BACKEND.
const (
	KindAuto   = "auto"
	KindSQLite = "sqlite"
	KindJSON   = "json"
)

// Opener matches application.BackendOpener.
type Opener func(path string) (driven.CredentialBackend, error)

// ForKind returns the opener for the given backend kind. KindAuto (or the
// empty string) picks by extension: ".json" opens the document backend,
// everything else the relational one.
func ForKind(kind string) (Opener, error) {
	switch kind {
	case "", KindAuto:
		return openAuto, nil
	case KindSQLite:
		return openSQLite, nil
	case KindJSON:
		return openJSON, nil
	default:
		return nil, fmt.Errorf("%w: unknown backend kind %q (want auto, sqlite or json)", driven.ErrPath, kind)
	}
}

func openAuto(path string) (driven.CredentialBackend, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return openJSON(path)
	}
	return openSQLite(path)
}

func openSQLite(path string) (driven.CredentialBackend, error) {
	b, err := sqlite.OpenBackend(path)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func openJSON(path string) (driven.CredentialBackend, error) {
	b, err := jsonfile.OpenBackend(path)
	if err != nil {
		return nil, err
	}
	return b, nil
}
