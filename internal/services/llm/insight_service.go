package llm

import (
	"context"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bosbiss/internal/interfaces"
	"github.com/ternarybob/bosbiss/internal/models"
)

// Fallback texts returned instead of an error
const (
	InsightEmptyFallback = "Waduh, AI lagi bengong nih. Coba lagi nanti ya!"
	InsightErrorFallback = "Maaf Bos, lagi ada gangguan koneksi ke server otak AI. Analisa manual dulu ya!"
)

// InsightService generates the analyst commentary for a calculation
type InsightService struct {
	generator Generator
	model     string
	logger    arbor.ILogger
}

var _ interfaces.InsightGenerator = (*InsightService)(nil)

// NewInsightService creates an insight service. An empty model uses the
// generator's default provider and model.
func NewInsightService(generator Generator, model string, logger arbor.ILogger) *InsightService {
	return &InsightService{
		generator: generator,
		model:     model,
		logger:    logger,
	}
}

// GenerateInsight never fails; errors and empty answers become fallback text
func (s *InsightService) GenerateInsight(ctx context.Context, input models.StockInput, result models.CalculationResult) string {
	start := time.Now()

	resp, err := s.generator.GenerateContent(ctx, &ContentRequest{
		Messages: userPrompt(buildInsightPrompt(input, result)),
		Model:    s.model,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("ticker", input.Ticker).
			Dur("duration", time.Since(start)).
			Msg("Insight generation failed")
		return InsightErrorFallback
	}

	text := ""
	if resp != nil {
		text = strings.TrimSpace(resp.Text)
	}
	if text == "" {
		s.logger.Warn().
			Str("ticker", input.Ticker).
			Msg("Insight generation returned no text")
		return InsightEmptyFallback
	}

	s.logger.Info().
		Str("ticker", input.Ticker).
		Str("provider", string(resp.Provider)).
		Str("model", resp.Model).
		Int("length", len(text)).
		Dur("duration", time.Since(start)).
		Msg("Insight generated")

	return text
}
