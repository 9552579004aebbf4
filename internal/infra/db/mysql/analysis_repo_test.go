package mysql

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/product-content-ai/internal/application"
	domain "github.com/bryanwahyu/product-content-ai/internal/domain/product"
	"github.com/bryanwahyu/product-content-ai/internal/infra/db/dbtest"
)

// Runs against a real server: TEST_MYSQL_DSN=user:pass@tcp(localhost:3306)/test?parseTime=true
func TestAnalysisRepository_Contract(t *testing.T) {
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set")
	}
	ctx := context.Background()
	conn, err := Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, EnsureSchema(ctx, conn))

	dbtest.RunContract(t, func(t *testing.T, clock application.Clock) domain.Repository {
		_, err := conn.ExecContext(ctx, `DELETE FROM product_analyses;`)
		require.NoError(t, err)
		return NewAnalysisRepository(conn, clock)
	})
}
