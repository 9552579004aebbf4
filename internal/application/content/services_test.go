package content

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/product-content-ai/internal/application"
	domai "github.com/bryanwahyu/product-content-ai/internal/domain/ai"
	"github.com/bryanwahyu/product-content-ai/internal/domain/product"
	"github.com/bryanwahyu/product-content-ai/internal/infra/db/memory"
)

type fakeAnalyzer struct {
	result   domai.Result
	err      error
	calls    int
	mimeType string
	settings product.GenerationSettings
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, image []byte, mimeType string, settings product.GenerationSettings) (domai.Result, error) {
	f.calls++
	f.mimeType = mimeType
	f.settings = settings
	return f.result, f.err
}

type fakeArchive struct {
	url string
	err error
}

func (f *fakeArchive) Put(ctx context.Context, data []byte, mimeType string) (string, error) {
	return f.url, f.err
}

type failingRepo struct {
	product.Repository
	err error
}

func (r failingRepo) Create(ctx context.Context, in product.NewAnalysis) (*product.Analysis, error) {
	return nil, r.err
}

func (r failingRepo) List(ctx context.Context) ([]*product.Analysis, error) {
	return nil, r.err
}

func (r failingRepo) Delete(ctx context.Context, id product.AnalysisID) (bool, error) {
	return false, r.err
}

var okResult = domai.Result{
	Title:       "چراغ مطالعه",
	Description: "چراغی کم‌مصرف برای میز کار",
	Hashtags:    []string{"#چراغ"},
	Categories:  []string{"روشنایی"},
}

func newRepo() *memory.AnalysisRepository {
	return memory.NewAnalysisRepository(application.ClockFunc(func() time.Time {
		return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	}))
}

func TestGenerate_Persists(t *testing.T) {
	repo := newRepo()
	analyzer := &fakeAnalyzer{result: okResult}
	svc := &Service{Repo: repo, Analyzer: analyzer}

	image := []byte{0xFF, 0xD8, 0xFF, 0x01}
	a, err := svc.Generate(context.Background(), GenerateCommand{
		Image:    image,
		MIMEType: "Image/JPG",
		Settings: product.PartialSettings{TargetPlatforms: []string{"instagram"}},
	})
	require.NoError(t, err)

	assert.Equal(t, product.AnalysisID(1), a.ID)
	assert.Equal(t, base64.StdEncoding.EncodeToString(image), a.ImageData)
	assert.Equal(t, okResult.Title, a.Title)
	assert.Equal(t, product.LengthMedium, a.Settings.DescriptionLength)
	assert.Equal(t, []string{"instagram"}, a.Settings.TargetPlatforms)
	assert.Empty(t, a.ImageURL)
	assert.Equal(t, "image/jpeg", analyzer.mimeType)
	assert.Equal(t, 1, repo.Len())
}

func TestGenerate_ValidationStopsBeforeAnalyzer(t *testing.T) {
	repo := newRepo()
	analyzer := &fakeAnalyzer{result: okResult}
	svc := &Service{Repo: repo, Analyzer: analyzer}

	_, err := svc.Generate(context.Background(), GenerateCommand{Image: []byte("GIF89a"), MIMEType: "image/gif"})

	var vErr *product.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, product.MsgImageType, vErr.Message)
	assert.Zero(t, analyzer.calls)
	assert.Zero(t, repo.Len())
}

func TestGenerate_AnalysisErrorSkipsStore(t *testing.T) {
	repo := newRepo()
	svc := &Service{Repo: repo, Analyzer: &fakeAnalyzer{err: domai.NewError(domai.KindRateLimited, "", nil)}}

	_, err := svc.Generate(context.Background(), GenerateCommand{Image: []byte{1, 2, 3}, MIMEType: "image/png"})
	assert.ErrorIs(t, err, domai.ErrQuotaExceeded)
	assert.Zero(t, repo.Len())
}

func TestGenerate_Archive(t *testing.T) {
	t.Run("url recorded", func(t *testing.T) {
		svc := &Service{Repo: newRepo(), Analyzer: &fakeAnalyzer{result: okResult}, Archive: &fakeArchive{url: "http://minio/products/a.png"}}
		a, err := svc.Generate(context.Background(), GenerateCommand{Image: []byte{1}, MIMEType: "image/png"})
		require.NoError(t, err)
		assert.Equal(t, "http://minio/products/a.png", a.ImageURL)
	})

	t.Run("failure does not fail request", func(t *testing.T) {
		repo := newRepo()
		svc := &Service{Repo: repo, Analyzer: &fakeAnalyzer{result: okResult}, Archive: &fakeArchive{err: errors.New("bucket gone")}}
		a, err := svc.Generate(context.Background(), GenerateCommand{Image: []byte{1}, MIMEType: "image/png"})
		require.NoError(t, err)
		assert.Empty(t, a.ImageURL)
		assert.Equal(t, 1, repo.Len())
	})
}

func TestGenerate_StoreFailure(t *testing.T) {
	boom := errors.New("disk full")
	svc := &Service{Repo: failingRepo{err: boom}, Analyzer: &fakeAnalyzer{result: okResult}}

	_, err := svc.Generate(context.Background(), GenerateCommand{Image: []byte{1}, MIMEType: "image/png"})
	assert.ErrorIs(t, err, boom)
}

func TestHistory(t *testing.T) {
	svc := &Service{Repo: newRepo(), Analyzer: &fakeAnalyzer{result: okResult}}

	list, err := svc.History(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = (&Service{Repo: failingRepo{err: errors.New("down")}}).History(context.Background())
	assert.Error(t, err)
}

func TestGetAndDelete(t *testing.T) {
	repo := newRepo()
	svc := &Service{Repo: repo, Analyzer: &fakeAnalyzer{result: okResult}}
	a, err := svc.Generate(context.Background(), GenerateCommand{Image: []byte{1}, MIMEType: "image/webp"})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Title, got.Title)

	deleted, err := svc.Delete(context.Background(), a.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.Delete(context.Background(), a.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = svc.Get(context.Background(), a.ID)
	assert.ErrorIs(t, err, product.ErrNotFound)

	_, err = (&Service{Repo: failingRepo{err: errors.New("down")}}).Delete(context.Background(), 1)
	assert.Error(t, err)
}
