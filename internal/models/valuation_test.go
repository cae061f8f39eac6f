package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculationResult_MarshalJSON(t *testing.T) {
	t.Run("historical branch absent", func(t *testing.T) {
		result := CalculationResult{GrahamNumber: 1643.17, GrahamStatus: StatusUndervalued, GrahamMOS: 39.14}

		data, err := json.Marshal(result)
		require.NoError(t, err)

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &decoded))

		assert.Equal(t, 1643.17, decoded["grahamNumber"])
		assert.Equal(t, "UNDERVALUED", decoded["grahamStatus"])
		assert.Nil(t, decoded["histValuation"])
		assert.Nil(t, decoded["histStatus"])
		assert.Nil(t, decoded["histMos"])
		assert.NotContains(t, decoded, "anomalies")
	})

	t.Run("non-finite values become null", func(t *testing.T) {
		result := CalculationResult{GrahamNumber: math.NaN(), GrahamStatus: StatusNotComputable, GrahamMOS: math.NaN()}

		data, err := json.Marshal(result)
		require.NoError(t, err)

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &decoded))

		assert.Nil(t, decoded["grahamNumber"])
		assert.Nil(t, decoded["grahamMos"])
		assert.Equal(t, "NOT_COMPUTABLE", decoded["grahamStatus"])
		assert.Equal(t, []interface{}{BranchGraham}, decoded["anomalies"])
	})
}

func TestCalculationResult_Anomalies(t *testing.T) {
	hist := 0.0
	mos := math.Inf(-1)
	status := StatusNotComputable

	result := CalculationResult{
		GrahamNumber:  1000,
		GrahamStatus:  StatusFair,
		HistValuation: &hist,
		HistStatus:    &status,
		HistMOS:       &mos,
	}

	assert.True(t, result.HasHistorical())
	assert.Equal(t, []string{BranchHistorical}, result.Anomalies())
}

func TestAnalysisPhase_IsTerminal(t *testing.T) {
	assert.True(t, PhaseInsightReady.IsTerminal())
	assert.True(t, PhaseInsightFailed.IsTerminal())
	assert.True(t, PhaseIdleWithError.IsTerminal())
	assert.False(t, PhaseInsightPending.IsTerminal())
	assert.False(t, PhaseComputed.IsTerminal())
}
