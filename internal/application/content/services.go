package content

import (
	"context"
	"encoding/base64"
	"fmt"

	"go.uber.org/zap"

	domai "github.com/bryanwahyu/product-content-ai/internal/domain/ai"
	"github.com/bryanwahyu/product-content-ai/internal/domain/product"
	"github.com/bryanwahyu/product-content-ai/internal/infra/logging"
)

// Analyzer is the AI analysis client used by Generate.
type Analyzer interface {
	Analyze(ctx context.Context, image []byte, mimeType string, settings product.GenerationSettings) (domai.Result, error)
}

// Stage of a generation request, used in logs
type Stage string

const (
	StageReceived   Stage = "received"
	StageValidated  Stage = "validated"
	StageAICalled   Stage = "ai_called"
	StageNormalized Stage = "normalized"
	StagePersisted  Stage = "persisted"
	StageFailed     Stage = "failed"
)

type Service struct {
	Repo     product.Repository
	Analyzer Analyzer
	Archive  product.ImageArchive // optional
}

// GenerateCommand is one upload from the browser form
type GenerateCommand struct {
	Image    []byte
	MIMEType string
	Settings product.PartialSettings
}

// Generate validates the upload, asks the AI for copy and stores the result.
// Validation errors never reach the provider and analysis errors never reach the store.
func (s *Service) Generate(ctx context.Context, cmd GenerateCommand) (*product.Analysis, error) {
	logger := logging.FromContext(ctx).With(zap.String("mime_type", cmd.MIMEType), zap.Int("bytes", len(cmd.Image)))
	logger.Debug("generation stage", zap.String("stage", string(StageReceived)))

	if err := product.ValidateImage(cmd.MIMEType, int64(len(cmd.Image))); err != nil {
		logger.Info("generation stage", zap.String("stage", string(StageFailed)), zap.Error(err))
		return nil, err
	}
	settings := product.NormalizeSettings(cmd.Settings)
	logger.Debug("generation stage", zap.String("stage", string(StageValidated)),
		zap.String("description_length", string(settings.DescriptionLength)),
		zap.Strings("platforms", settings.TargetPlatforms),
	)

	mimeType := product.CanonicalMIMEType(cmd.MIMEType)
	if mimeType == "image/jpg" {
		mimeType = "image/jpeg"
	}
	logger.Debug("generation stage", zap.String("stage", string(StageAICalled)))
	result, err := s.Analyzer.Analyze(ctx, cmd.Image, mimeType, settings)
	if err != nil {
		logger.Info("generation stage", zap.String("stage", string(StageFailed)), zap.Error(err))
		return nil, err
	}
	logger.Debug("generation stage", zap.String("stage", string(StageNormalized)))

	in := product.NewAnalysis{
		ImageData:   base64.StdEncoding.EncodeToString(cmd.Image),
		Title:       result.Title,
		Description: result.Description,
		Hashtags:    result.Hashtags,
		Categories:  result.Categories,
		Settings:    settings,
	}
	if s.Archive != nil {
		url, err := s.Archive.Put(ctx, cmd.Image, mimeType)
		if err != nil {
			// arsip gagal tidak menggagalkan request
			logger.Warn("image archive failed", zap.Error(err))
		} else {
			in.ImageURL = url
		}
	}

	a, err := s.Repo.Create(ctx, in)
	if err != nil {
		logger.Error("generation stage", zap.String("stage", string(StageFailed)), zap.Error(err))
		return nil, fmt.Errorf("persist analysis: %w", err)
	}
	logger.Info("generation stage", zap.String("stage", string(StagePersisted)), zap.Int64("analysis_id", int64(a.ID)))
	return a, nil
}

// History returns all analyses, most recent first.
func (s *Service) History(ctx context.Context) ([]*product.Analysis, error) {
	list, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	if list == nil {
		list = []*product.Analysis{}
	}
	return list, nil
}

// Get returns one analysis or product.ErrNotFound.
func (s *Service) Get(ctx context.Context, id product.AnalysisID) (*product.Analysis, error) {
	return s.Repo.Get(ctx, id)
}

// Delete removes an analysis and reports whether it existed.
func (s *Service) Delete(ctx context.Context, id product.AnalysisID) (bool, error) {
	deleted, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete analysis %d: %w", id, err)
	}
	if deleted {
		logging.FromContext(ctx).Info("analysis deleted", zap.Int64("analysis_id", int64(id)))
	}
	return deleted, nil
}
