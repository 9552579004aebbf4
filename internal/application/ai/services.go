package ai

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	domai "github.com/bryanwahyu/product-content-ai/internal/domain/ai"
	"github.com/bryanwahyu/product-content-ai/internal/domain/product"
	"github.com/bryanwahyu/product-content-ai/internal/infra/logging"
)

// DefaultTimeout bounds one provider round trip when none is configured.
const DefaultTimeout = 60 * time.Second

type Service struct {
	provider domai.Provider
	timeout  time.Duration
}

func NewService(provider domai.Provider, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{provider: provider, timeout: timeout}
}

// Analyze sends the image to the provider once and returns the repaired result.
// Every failure is an *ai.AnalysisError.
func (s *Service) Analyze(ctx context.Context, image []byte, mimeType string, settings product.GenerationSettings) (domai.Result, error) {
	logger := logging.FromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := s.provider.Generate(ctx, image, mimeType, BuildInstruction(settings))
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = fmt.Errorf("provider timed out after %s: %w", s.timeout, err)
		}
		aErr := domai.Classify(err)
		logger.Error("ai provider call failed",
			zap.String("kind", string(aErr.Kind)),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err),
		)
		return domai.Result{}, aErr
	}
	logger.Debug("ai provider replied", zap.Int("chars", len(text)), zap.Duration("latency", time.Since(start)))

	raw, err := domai.ParseResult(text)
	if err != nil {
		logger.Warn("ai reply rejected", zap.Error(err), zap.String("reply", truncate(text, 512)))
		return domai.Result{}, err
	}
	result, err := domai.Repair(raw)
	if err != nil {
		logger.Warn("ai reply rejected", zap.Error(err), zap.String("reply", truncate(text, 512)))
		return domai.Result{}, err
	}
	return result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
