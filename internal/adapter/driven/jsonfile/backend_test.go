package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accountingops/credvault/internal/domain/model"
	"github.com/accountingops/credvault/internal/domain/port/driven"
)

func testProfile(name string, services ...string) model.ClientProfile {
	p := model.ClientProfile{DisplayName: name, Services: map[string]model.ServiceCredential{}}
	for _, s := range services {
		p.Services[s] = model.ServiceCredential{
			ClientID:     "id-" + s,
			ClientSecret: "secret-" + s,
			Region:       "au",
		}
	}
	return p
}

func openTestBackend(t *testing.T) *Backend {
	t.Helper()

	backend, err := OpenBackend(filepath.Join(t.TempDir(), "credentials.json"))
	require.NoError(t, err)
	return backend
}

func TestBackend_MissingFileIsEmptyStore(t *testing.T) {
	backend := openTestBackend(t)

	profiles, err := backend.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestBackend_ReplaceAndLoad(t *testing.T) {
	backend := openTestBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.ReplaceClient(ctx, testProfile("Acme", "xero", "deputy")))

	profiles, err := backend.Load(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "Acme", profiles[0].DisplayName)
	assert.Equal(t, "secret-xero", profiles[0].Services["xero"].ClientSecret)
}

func TestBackend_PreservesInsertionOrder(t *testing.T) {
	backend := openTestBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.ReplaceClient(ctx, testProfile("Zenith", "xero")))
	require.NoError(t, backend.ReplaceClient(ctx, testProfile("Acme", "xero")))
	require.NoError(t, backend.ReplaceClient(ctx, testProfile("Globex", "xero")))

	// Updating an existing client must keep its position.
	require.NoError(t, backend.ReplaceClient(ctx, testProfile("zenith", "deputy")))

	profiles, err := backend.Load(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 3)
	assert.Equal(t, "zenith", profiles[0].DisplayName)
	assert.Equal(t, "Acme", profiles[1].DisplayName)
	assert.Equal(t, "Globex", profiles[2].DisplayName)
	assert.Contains(t, profiles[0].Services, "deputy")
	assert.NotContains(t, profiles[0].Services, "xero")
}

func TestBackend_RemoveClient(t *testing.T) {
	backend := openTestBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.ReplaceClient(ctx, testProfile("Acme", "xero")))
	require.NoError(t, backend.ReplaceClient(ctx, testProfile("Globex", "deputy")))

	removed, err := backend.RemoveClient(ctx, "ACME")
	require.NoError(t, err)
	assert.True(t, removed)

	profiles, err := backend.Load(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "Globex", profiles[0].DisplayName)
}

func TestBackend_RemoveNonexistentLeavesFileUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	backend, err := OpenBackend(path)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, backend.ReplaceClient(ctx, testProfile("Acme", "xero")))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	removed, err := backend.RemoveClient(ctx, "nonexistent")
	require.NoError(t, err)
	assert.False(t, removed)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestBackend_RoundTripThroughFreshOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	ctx := context.Background()

	backend, err := OpenBackend(path)
	require.NoError(t, err)
	require.NoError(t, backend.ReplaceClient(ctx, testProfile("Acme", "xero")))
	require.NoError(t, backend.Close())

	reopened, err := OpenBackend(path)
	require.NoError(t, err)

	profiles, err := reopened.Load(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, testProfile("Acme", "xero"), profiles[0])
}

func TestOpenBackend_MalformedDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, err := OpenBackend(path)

	require.Error(t, err)
	assert.ErrorIs(t, err, driven.ErrFormat)
}

func TestBackend_LoadMalformedDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	backend, err := OpenBackend(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"clients": "wrong"}`), 0o600))

	_, err = backend.Load(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, driven.ErrFormat)
}

func TestBackend_DocumentLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	backend, err := OpenBackend(path)
	require.NoError(t, err)

	profile := model.ClientProfile{
		DisplayName: "Acme",
		Services: map[string]model.ServiceCredential{
			"xero": {
				ClientID:     "id",
				ClientSecret: "secret",
				RefreshToken: "refresh",
				Region:       "au",
				Environment:  "production",
			},
		},
	}
	require.NoError(t, backend.ReplaceClient(context.Background(), profile))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(data)
	assert.Contains(t, body, `"clients"`)
	assert.Contains(t, body, `"name"`)
	assert.Contains(t, body, `"services"`)
	assert.Contains(t, body, `"clientId"`)
	assert.Contains(t, body, `"clientSecret"`)
	assert.Contains(t, body, `"refreshToken"`)
	assert.Contains(t, body, `"region"`)
	assert.Contains(t, body, `"environment"`)
}
