package pgx

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoolInvalidConfig(t *testing.T) {
	ctx := context.Background()

	_, err := NewPool(ctx, Config{})
	assert.Error(t, err)

	_, err = NewPool(ctx, Config{ConnString: "not a conn string \x00"})
	assert.Error(t, err)
}

func TestNewPool(t *testing.T) {
	connString := os.Getenv("TEST_DATABASE")
	if connString == "" {
		t.Skip("TEST_DATABASE not set")
	}

	ctx := context.Background()
	pool, err := NewPool(ctx, Config{
		ConnString:     connString,
		ConnectTimeout: 10 * time.Second,
	})
	require.NoError(t, err)
	defer pool.Close()

	// bounded checkout defaults to 5 connections
	assert.Equal(t, int32(5), pool.Config().MaxConns)
	assert.NoError(t, pool.Ping(ctx))
}
