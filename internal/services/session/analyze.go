package session

import (
	"context"
	"strings"

	"github.com/ternarybob/bosbiss/internal/interfaces"
	"github.com/ternarybob/bosbiss/internal/models"
	"github.com/ternarybob/bosbiss/internal/services/valuation"
)

// Analyze validates the form, computes the valuation and publishes it, then
// requests the insight in the background. The result is returned before the
// insight arrives.
func (s *Session) Analyze(ctx context.Context, form models.StockForm) (*models.CalculationResult, error) {
	form = form.Trimmed()

	if verr := s.validateForm(form); verr != nil {
		s.rejectAnalysis(ctx, verr)
		return nil, verr
	}

	input, err := form.Parse()
	if err != nil {
		verr := &ValidationError{Message: MsgAnalysisFields}
		s.rejectAnalysis(ctx, verr)
		return nil, verr
	}

	result := valuation.Compute(input)

	s.mu.Lock()
	s.form = form
	s.generation++
	gen := s.generation
	s.analysis = models.AnalysisState{
		IsLoading:  true,
		Result:     &result,
		Phase:      models.PhaseComputed,
		Generation: gen,
	}
	s.mu.Unlock()

	s.logger.Info().
		Str("ticker", input.Ticker).
		Int64("generation", int64(gen)).
		Str("graham_status", string(result.GrahamStatus)).
		Strs("anomalies", result.Anomalies()).
		Msg("Valuation computed")

	s.publish(ctx, interfaces.EventAnalysisResult, models.SessionEvent{
		Generation: gen,
		Ticker:     input.Ticker,
		Result:     &result,
	})

	s.requestInsight(ctx, gen, input, result)

	return &result, nil
}

func (s *Session) rejectAnalysis(ctx context.Context, verr *ValidationError) {
	s.mu.Lock()
	msg := verr.Message
	s.analysis.Error = &msg
	s.analysis.IsLoading = false
	s.analysis.Phase = models.PhaseIdleWithError
	gen := s.generation
	s.mu.Unlock()

	s.logger.Debug().
		Str("field", verr.Field).
		Msg("Analysis rejected by validation")

	s.publish(ctx, interfaces.EventAnalysisError, models.SessionEvent{
		Generation: gen,
		Message:    verr.Message,
	})
}

func (s *Session) requestInsight(ctx context.Context, gen uint64, input models.StockInput, result models.CalculationResult) {
	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return
	}
	s.analysis.Phase = models.PhaseInsightPending
	s.mu.Unlock()

	if s.insight == nil {
		s.applyInsightFailure(ctx, gen, input.Ticker)
		return
	}

	// The insight outlives the caller's request
	base := context.WithoutCancel(ctx)

	s.spawn("generateInsight", func() {
		callCtx, cancel := context.WithTimeout(base, s.insightTimeout)
		defer cancel()

		text := strings.TrimSpace(s.insight.GenerateInsight(callCtx, input, result))
		if text == "" || callCtx.Err() != nil {
			s.applyInsightFailure(base, gen, input.Ticker)
			return
		}
		s.applyInsight(base, gen, input.Ticker, text)
	}, func(recovered interface{}) {
		s.applyInsightFailure(base, gen, input.Ticker)
	})
}

func (s *Session) applyInsight(ctx context.Context, gen uint64, ticker, text string) {
	s.mu.Lock()
	if s.generation != gen {
		current := s.generation
		s.mu.Unlock()
		s.logStale("insight", gen, current)
		return
	}
	s.analysis.Insight = &text
	s.analysis.IsLoading = false
	s.analysis.Phase = models.PhaseInsightReady
	s.mu.Unlock()

	s.publish(ctx, interfaces.EventAnalysisInsight, models.SessionEvent{
		Generation: gen,
		Ticker:     ticker,
		Insight:    text,
	})
}

func (s *Session) applyInsightFailure(ctx context.Context, gen uint64, ticker string) {
	s.mu.Lock()
	if s.generation != gen {
		current := s.generation
		s.mu.Unlock()
		s.logStale("insight failure", gen, current)
		return
	}
	msg := MsgInsightFailed
	s.analysis.Error = &msg
	s.analysis.IsLoading = false
	s.analysis.Phase = models.PhaseInsightFailed
	s.mu.Unlock()

	s.logger.Warn().
		Str("ticker", ticker).
		Int64("generation", int64(gen)).
		Msg("Insight unavailable, keeping computed result")

	s.publish(ctx, interfaces.EventAnalysisError, models.SessionEvent{
		Generation: gen,
		Ticker:     ticker,
		Message:    msg,
	})
}

func (s *Session) logStale(what string, gen, current uint64) {
	s.logger.Debug().
		Int64("generation", int64(gen)).
		Int64("current_generation", int64(current)).
		Msgf("Discarding stale %s", what)
}
