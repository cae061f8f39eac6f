package llm

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bosbiss/internal/common"
	"github.com/ternarybob/bosbiss/internal/interfaces"
	"github.com/ternarybob/bosbiss/internal/models"
)

// PriceService looks up the latest price with a search-grounded model call
type PriceService struct {
	generator Generator
	model     string
	market    string
	logger    arbor.ILogger
}

var _ interfaces.PriceLookup = (*PriceService)(nil)

// NewPriceService creates a price lookup. market is named in the prompt, e.g. "Indonesia (IDX)".
func NewPriceService(generator Generator, model, market string, logger arbor.ILogger) *PriceService {
	return &PriceService{
		generator: generator,
		model:     model,
		market:    market,
		logger:    logger,
	}
}

// LookupPrice asks for the current price. The source is the first grounding web URI.
func (s *PriceService) LookupPrice(ctx context.Context, ticker string) (*models.PriceQuote, error) {
	ticker = common.NormalizeTicker(ticker)
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}

	start := time.Now()
	resp, err := s.generator.GenerateContent(ctx, &ContentRequest{
		Messages:     userPrompt(buildPricePrompt(ticker, s.market)),
		Model:        s.model,
		GoogleSearch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("price lookup for %s failed: %w", ticker, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("price lookup for %s returned no response", ticker)
	}

	price, err := ParsePriceText(resp.Text)
	if err != nil {
		return nil, fmt.Errorf("price lookup for %s: %w", ticker, err)
	}

	quote := &models.PriceQuote{Price: price}
	if len(resp.Sources) > 0 {
		quote.Source = resp.Sources[0].URI
	}

	s.logger.Info().
		Str("ticker", ticker).
		Float64("price", price).
		Str("source", quote.Source).
		Dur("duration", time.Since(start)).
		Msg("Price looked up")

	return quote, nil
}

// firstNumberRegex matches the first number, thousands separators included
var firstNumberRegex = regexp.MustCompile(`\d[\d.,]*`)

// ParsePriceText reads a whole-rupiah price from a model answer.
// Separators are dropped, so "4.500", "4,500" and "4500" all give 4500.
func ParsePriceText(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, fmt.Errorf("empty price answer")
	}

	match := firstNumberRegex.FindString(text)
	if match == "" {
		return 0, fmt.Errorf("no number in price answer %q", text)
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, match)

	price, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", match, err)
	}
	if price <= 0 {
		return 0, fmt.Errorf("non-positive price %d", price)
	}

	return float64(price), nil
}
