package session

import (
	"context"
	"math"
	"strconv"

	"github.com/ternarybob/bosbiss/internal/common"
	"github.com/ternarybob/bosbiss/internal/interfaces"
	"github.com/ternarybob/bosbiss/internal/models"
)

// FetchCurrentPrice looks up the current price of ticker in the background.
// On success only the form price and the price source change; on failure the
// form is left as it was and the analysis error is set.
func (s *Session) FetchCurrentPrice(ctx context.Context, ticker string) error {
	ticker = common.NormalizeTicker(ticker)
	if ticker == "" {
		verr := &ValidationError{Field: "ticker", Message: MsgTickerRequired}
		s.mu.Lock()
		msg := verr.Message
		s.analysis.Error = &msg
		s.mu.Unlock()

		s.publish(ctx, interfaces.EventPriceFailed, models.SessionEvent{Message: verr.Message})
		return verr
	}

	s.mu.Lock()
	s.priceGeneration++
	gen := s.priceGeneration
	s.fetchingPrice = true
	s.priceSource = ""
	s.analysis.Error = nil
	if common.NormalizeTicker(s.form.Ticker) != ticker {
		s.form.Ticker = ticker
	}
	s.mu.Unlock()

	if s.prices == nil {
		s.applyPriceFailure(ctx, gen, ticker)
		return nil
	}

	base := context.WithoutCancel(ctx)

	s.spawn("fetchCurrentPrice", func() {
		callCtx, cancel := context.WithTimeout(base, s.priceTimeout)
		defer cancel()

		quote, err := s.prices.LookupPrice(callCtx, ticker)
		if err != nil {
			s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Price lookup failed")
			s.applyPriceFailure(base, gen, ticker)
			return
		}
		if !usableQuote(quote) {
			s.logger.Warn().Str("ticker", ticker).Msg("Price lookup returned no usable price")
			s.applyPriceFailure(base, gen, ticker)
			return
		}
		s.applyPrice(base, gen, ticker, *quote)
	}, func(recovered interface{}) {
		s.applyPriceFailure(base, gen, ticker)
	})

	return nil
}

// IsFetchingPrice reports whether a price lookup is outstanding
func (s *Session) IsFetchingPrice() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchingPrice
}

func usableQuote(quote *models.PriceQuote) bool {
	if quote == nil {
		return false
	}
	return !math.IsNaN(quote.Price) && !math.IsInf(quote.Price, 0) && quote.Price > 0
}

func (s *Session) applyPrice(ctx context.Context, gen uint64, ticker string, quote models.PriceQuote) {
	s.mu.Lock()
	if s.priceGeneration != gen {
		current := s.priceGeneration
		s.mu.Unlock()
		s.logStale("price", gen, current)
		return
	}
	s.fetchingPrice = false
	s.form.Price = strconv.FormatFloat(quote.Price, 'f', -1, 64)
	s.priceSource = quote.Source
	form := s.form
	s.mu.Unlock()

	s.logger.Info().
		Str("ticker", ticker).
		Float64("price", quote.Price).
		Str("source", quote.Source).
		Msg("Price updated")

	s.publish(ctx, interfaces.EventPriceUpdated, models.SessionEvent{
		Ticker: ticker,
		Quote:  &quote,
		Form:   &form,
	})
}

func (s *Session) applyPriceFailure(ctx context.Context, gen uint64, ticker string) {
	s.mu.Lock()
	if s.priceGeneration != gen {
		current := s.priceGeneration
		s.mu.Unlock()
		s.logStale("price failure", gen, current)
		return
	}
	s.fetchingPrice = false
	msg := MsgPriceLookupFailed
	s.analysis.Error = &msg
	s.mu.Unlock()

	s.publish(ctx, interfaces.EventPriceFailed, models.SessionEvent{
		Ticker:  ticker,
		Message: msg,
	})
}
