package models

// AnalysisPhase names the node of an analysis cycle
type AnalysisPhase string

const (
	PhaseIdle           AnalysisPhase = "idle"
	PhaseIdleWithError  AnalysisPhase = "idle_with_error" // validation rejected the request
	PhaseComputed       AnalysisPhase = "computed"        // numbers published, insight not requested yet
	PhaseInsightPending AnalysisPhase = "insight_pending"
	PhaseInsightReady   AnalysisPhase = "insight_ready"
	PhaseInsightFailed  AnalysisPhase = "insight_failed"
)

// IsTerminal reports whether the phase ends an analysis cycle
func (p AnalysisPhase) IsTerminal() bool {
	switch p {
	case PhaseInsightReady, PhaseInsightFailed, PhaseIdleWithError:
		return true
	}
	return false
}

// AnalysisState is the transient per-session analysis state. Never persisted.
type AnalysisState struct {
	IsLoading  bool               `json:"isLoading"`
	Result     *CalculationResult `json:"result"`
	Insight    *string            `json:"insight"`
	Error      *string            `json:"error"`
	Phase      AnalysisPhase      `json:"phase"`
	Generation uint64             `json:"generation"`
}

// NewAnalysisState returns the empty initial state
func NewAnalysisState() AnalysisState {
	return AnalysisState{Phase: PhaseIdle}
}

// SessionSnapshot is a read-only copy of a session for outer surfaces
type SessionSnapshot struct {
	SessionID     string          `json:"sessionId"`
	Form          StockForm       `json:"form"`
	PriceSource   string          `json:"priceSource,omitempty"`
	FetchingPrice bool            `json:"isFetchingPrice"`
	Analysis      AnalysisState   `json:"analysis"`
	Watchlist     []WatchlistItem `json:"watchlist"`
}
