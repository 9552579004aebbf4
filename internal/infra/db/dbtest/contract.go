// Package dbtest holds the behaviour every product.Repository must share.
package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/product-content-ai/internal/application"
	domain "github.com/bryanwahyu/product-content-ai/internal/domain/product"
)

// Factory builds an empty repository whose createdAt comes from clock.
type Factory func(t *testing.T, clock application.Clock) domain.Repository

// Clock advances one second per call, starting at base.
func Clock(base time.Time) application.Clock {
	n := 0
	return application.ClockFunc(func() time.Time {
		t := base.Add(time.Duration(n) * time.Second)
		n++
		return t
	})
}

func Sample(title string) domain.NewAnalysis {
	return domain.NewAnalysis{
		ImageData:   "aGVsbG8=",
		ImageURL:    "http://localhost:9000/product-images/products/a.jpg",
		Title:       title,
		Description: "توضیحات محصول",
		Hashtags:    []string{"#محصول", "#تست"},
		Categories:  []string{"عمومی"},
		Settings: domain.GenerationSettings{
			DescriptionLength: domain.LengthLong,
			TargetPlatforms:   []string{"instagram"},
		},
	}
}

// RunContract runs the repository contract against newRepo.
func RunContract(t *testing.T, newRepo Factory) {
	base := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)

	t.Run("create and get", func(t *testing.T) {
		repo := newRepo(t, Clock(base))
		ctx := context.Background()

		created, err := repo.Create(ctx, Sample("کفش"))
		require.NoError(t, err)
		assert.Positive(t, int64(created.ID))
		assert.True(t, created.CreatedAt.Equal(base))

		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "کفش", got.Title)
		assert.Equal(t, Sample("").Hashtags, got.Hashtags)
		assert.Equal(t, Sample("").Settings, got.Settings)
		assert.Equal(t, Sample("").ImageURL, got.ImageURL)
		assert.True(t, got.CreatedAt.Equal(base))
	})

	t.Run("get unknown", func(t *testing.T) {
		repo := newRepo(t, Clock(base))
		_, err := repo.Get(context.Background(), 999999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		repo := newRepo(t, Clock(base))
		ctx := context.Background()

		var ids []domain.AnalysisID
		for _, title := range []string{"a", "b", "c"} {
			a, err := repo.Create(ctx, Sample(title))
			require.NoError(t, err)
			ids = append(ids, a.ID)
		}
		assert.Less(t, int64(ids[0]), int64(ids[1]))
		assert.Less(t, int64(ids[1]), int64(ids[2]))

		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []string{"c", "b", "a"}, []string{list[0].Title, list[1].Title, list[2].Title})
	})

	t.Run("empty list", func(t *testing.T) {
		repo := newRepo(t, Clock(base))
		list, err := repo.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("delete", func(t *testing.T) {
		repo := newRepo(t, Clock(base))
		ctx := context.Background()

		a, err := repo.Create(ctx, Sample("x"))
		require.NoError(t, err)

		deleted, err := repo.Delete(ctx, a.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, a.ID)
		require.NoError(t, err)
		assert.False(t, deleted)

		b, err := repo.Create(ctx, Sample("y"))
		require.NoError(t, err)
		assert.Greater(t, int64(b.ID), int64(a.ID))
	})
}
