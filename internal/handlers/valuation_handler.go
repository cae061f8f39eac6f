package handlers

import (
	"net/http"

	"github.com/ternarybob/bosbiss/internal/services/valuation"
)

// ValuationHandler computes a fair value without touching any session
func ValuationHandler(w http.ResponseWriter, r *http.Request) {
	var values [3]float64
	for i, name := range []string{"price", "eps", "bvps"} {
		v, ok, err := QueryFloat(r, name)
		if err != nil {
			WriteFieldError(w, name, err.Error())
			return
		}
		if !ok {
			WriteFieldError(w, name, name+" is required")
			return
		}
		values[i] = v
	}

	meanPER, ok, err := QueryFloat(r, "mean_per")
	if err != nil {
		WriteFieldError(w, "mean_per", err.Error())
		return
	}

	var per *float64
	if ok {
		per = &meanPER
	}

	WriteJSON(w, http.StatusOK, valuation.ComputeFairValue(values[0], values[1], values[2], per))
}
