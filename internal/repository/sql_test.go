package repository

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeRow(t *testing.T) {
	raw := []byte(`{"name":"p1","rules":[{"path":"/a","capabilities":["read"]}]}`)

	pol, err := decodeRow(raw)
	require.NoError(t, err)
	require.Equal(t, "p1", pol.Name())
	require.Len(t, pol.Rules(), 1)
}

func TestDecodeRowRejectsMalformedJSON(t *testing.T) {
	_, err := decodeRow([]byte(`not json`))
	require.Error(t, err)
}

func TestDecodeRowRejectsMissingName(t *testing.T) {
	_, err := decodeRow([]byte(`{"rules":[{"path":"/a"}]}`))
	require.Error(t, err)
}

// TestSQLStoreIntegration exercises OpenSQLStore against a real Postgres
// instance. It is skipped unless PATHGUARD_TEST_DATABASE_URL is set, the
// way the basyx persistence suite gates its integration tests behind an
// environment-provided DSN.
func TestSQLStoreIntegration(t *testing.T) {
	dsn := os.Getenv("PATHGUARD_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("PATHGUARD_TEST_DATABASE_URL not set, skipping SQL integration test")
	}

	store, err := OpenSQLStore(dsn, "policies")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	all, err := store.All(ctx)
	require.NoError(t, err)
	require.NotNil(t, all)
}
