package localize

import (
	"math"
	"testing"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		name     string
		in       float64
		decimals int
		want     string
	}{
		{"thousands", 1234.5, 2, "1.234,50"},
		{"zero", 0, 2, "0,00"},
		{"negative", -12.3, 2, "-12,30"},
		{"no grouping", 999.999, 2, "1.000,00"},
		{"millions", 1234567.891, 2, "1.234.567,89"},
		{"negative thousands", -9876543.21, 2, "-9.876.543,21"},
		{"half to even down", 0.125, 2, "0,12"},
		{"half to even up", 0.375, 2, "0,38"},
		{"tiny negative rounds to zero", -0.001, 2, "0,00"},
		{"zero decimals", 1500.5, 0, "1.500"},
		{"three decimals", 3.14159, 3, "3,142"},
		{"negative decimals clamp", 42.4, -1, "42"},
		{"small fraction", 0.05, 2, "0,05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Number(tt.in, tt.decimals); got != tt.want {
				t.Errorf("Number(%v, %d) = %q, want %q", tt.in, tt.decimals, got, tt.want)
			}
		})
	}
}

func TestNumber_NonFinite(t *testing.T) {
	if got := Number(math.NaN(), 2); got != "NaN" {
		t.Errorf("NaN: got %q", got)
	}
	if got := Number(math.Inf(1), 2); got != "+Inf" {
		t.Errorf("+Inf: got %q", got)
	}
	if got := Number(math.Inf(-1), 2); got != "-Inf" {
		t.Errorf("-Inf: got %q", got)
	}
}

func TestFormat2(t *testing.T) {
	if got := Format2(280); got != "280,00" {
		t.Errorf("Format2(280) = %q", got)
	}
}

func TestInteger(t *testing.T) {
	if got := Integer(12345); got != "12.345" {
		t.Errorf("Integer(12345) = %q", got)
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{2.675, 2.68},
		{2.665, 2.66},
		{10, 10},
		{-1.005, -1},
		{-1.015, -1.02},
	}

	for _, tt := range tests {
		if got := Round(tt.in, 2); got != tt.want {
			t.Errorf("Round(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if !math.IsNaN(Round(math.NaN(), 2)) {
		t.Error("Round should pass NaN through")
	}
}
