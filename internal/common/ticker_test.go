package common

import (
	"testing"
)

func TestNormalizeTicker(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"bbca", "BBCA"},
		{"  bbri  ", "BBRI"},
		{"TLKM", "TLKM"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeTicker(tt.input); got != tt.want {
				t.Errorf("NormalizeTicker(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEODHDSymbol(t *testing.T) {
	tests := []struct {
		ticker   string
		exchange string
		want     string
	}{
		{"bbca", "JK", "BBCA.JK"},
		{"BBCA", "", "BBCA.JK"},
		{"bbca.jk", "JK", "BBCA.JK"},
		{"AAPL", "us", "AAPL.US"},
		{"   ", "JK", ""},
	}

	for _, tt := range tests {
		t.Run(tt.ticker+"_"+tt.exchange, func(t *testing.T) {
			if got := EODHDSymbol(tt.ticker, tt.exchange); got != tt.want {
				t.Errorf("EODHDSymbol(%q, %q) = %q, want %q", tt.ticker, tt.exchange, got, tt.want)
			}
		})
	}
}
