package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoolConfig(t *testing.T) {
	cfg, err := poolConfig("postgres://u:p@localhost:5432/tycoon")
	require.NoError(t, err)
	require.Equal(t, int32(8), cfg.MaxConns)
	require.Equal(t, "tycoon", cfg.ConnConfig.RuntimeParams["application_name"])

	cfg, err = poolConfig("postgres://u:p@localhost:5432/tycoon?application_name=ops")
	require.NoError(t, err)
	require.Equal(t, "ops", cfg.ConnConfig.RuntimeParams["application_name"])
}

func TestConnectRejectsBadURL(t *testing.T) {
	_, err := Connect(context.Background(), "postgres://u:p@localhost:notaport/x")
	require.ErrorContains(t, err, "parse database url")
}
