package memory

import (
	"testing"

	"github.com/bryanwahyu/product-content-ai/internal/application"
	domain "github.com/bryanwahyu/product-content-ai/internal/domain/product"
	"github.com/bryanwahyu/product-content-ai/internal/infra/db/dbtest"
)

func TestAnalysisRepository_Contract(t *testing.T) {
	dbtest.RunContract(t, func(t *testing.T, clock application.Clock) domain.Repository {
		return NewAnalysisRepository(clock)
	})
}
