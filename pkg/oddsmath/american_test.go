package oddsmath_test

import (
	"errors"
	"math"
	"testing"

	"github.com/bsumme/odds-price-alert/pkg/oddsmath"
)

func TestAmericanToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		american int
		want     float64
	}{
		{"positive odds +150", 150, 2.50},
		{"positive odds +100", 100, 2.00},
		{"positive odds +250", 250, 3.50},
		{"negative odds -110", -110, 1.9091},
		{"negative odds -150", -150, 1.6667},
		{"negative odds -200", -200, 1.50},
		{"large positive +10000", 10000, 101.0},
		{"large negative -10000", -10000, 1.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := oddsmath.AmericanToDecimal(tt.american)
			if err != nil {
				t.Fatalf("AmericanToDecimal(%d) unexpected error: %v", tt.american, err)
			}
			if math.Abs(got-tt.want) > 0.0001 {
				t.Errorf("AmericanToDecimal(%d) = %.4f, want %.4f", tt.american, got, tt.want)
			}
		})
	}
}

func TestAmericanToDecimalInvalid(t *testing.T) {
	tests := []struct {
		name     string
		american int
	}{
		{"zero odds", 0},
		{"above sanity bound", 100001},
		{"below sanity bound", -100001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := oddsmath.AmericanToDecimal(tt.american)
			if err == nil {
				t.Fatalf("AmericanToDecimal(%d) expected error, got nil", tt.american)
			}
			var oddsErr *oddsmath.InvalidOddsError
			if !errors.As(err, &oddsErr) {
				t.Errorf("AmericanToDecimal(%d) error type = %T, want *InvalidOddsError", tt.american, err)
			}
		})
	}
}

func TestDecimalToAmerican(t *testing.T) {
	tests := []struct {
		name    string
		decimal float64
		want    int
	}{
		{"decimal 2.50", 2.50, 150},
		{"decimal 2.00 is even money", 2.00, 100},
		{"decimal 1.9091", 1.9091, -110},
		{"decimal 1.50", 1.50, -200},
		{"decimal 3.50", 3.50, 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := oddsmath.DecimalToAmerican(tt.decimal)
			if err != nil {
				t.Fatalf("DecimalToAmerican(%.4f) unexpected error: %v", tt.decimal, err)
			}
			if got != tt.want {
				t.Errorf("DecimalToAmerican(%.4f) = %d, want %d", tt.decimal, got, tt.want)
			}
		})
	}
}

func TestDecimalToAmericanInvalid(t *testing.T) {
	for _, decimal := range []float64{1.0, 0.5, 0, -2.0} {
		if _, err := oddsmath.DecimalToAmerican(decimal); err == nil {
			t.Errorf("DecimalToAmerican(%.2f) expected error, got nil", decimal)
		}
	}
}

// Every quotable American price must survive the decimal round trip within
// one unit. -100 and +100 are the same even-money price, so -100 comes back
// as +100.
func TestAmericanDecimalRoundTrip(t *testing.T) {
	for american := -10000; american <= 10000; american++ {
		if american > -100 && american < 100 {
			continue
		}

		decimal, err := oddsmath.AmericanToDecimal(american)
		if err != nil {
			t.Fatalf("AmericanToDecimal(%d) unexpected error: %v", american, err)
		}

		back, err := oddsmath.DecimalToAmerican(decimal)
		if err != nil {
			t.Fatalf("DecimalToAmerican(%.6f) unexpected error: %v", decimal, err)
		}

		if american == -100 {
			if back != 100 {
				t.Fatalf("round trip -100 = %d, want +100 (even money)", back)
			}
			continue
		}

		if diff := back - american; diff < -1 || diff > 1 {
			t.Fatalf("round trip %d → %.6f → %d drifted by %d", american, decimal, back, diff)
		}
	}
}

func TestAmericanToImpliedProbability(t *testing.T) {
	tests := []struct {
		name     string
		american int
		want     float64
	}{
		{"even money +100", 100, 0.50},
		{"favorite -110", -110, 0.5238},
		{"favorite -200", -200, 0.6667},
		{"underdog +150", 150, 0.40},
		{"longshot +250", 250, 0.2857},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := oddsmath.AmericanToImpliedProbability(tt.american)
			if err != nil {
				t.Fatalf("AmericanToImpliedProbability(%d) unexpected error: %v", tt.american, err)
			}
			if math.Abs(got-tt.want) > 0.0001 {
				t.Errorf("AmericanToImpliedProbability(%d) = %.4f, want %.4f", tt.american, got, tt.want)
			}
		})
	}
}

// Implied probability stays strictly inside (0, 1) across the whole quotable
// range.
func TestImpliedProbabilityBounds(t *testing.T) {
	for _, american := range []int{-100000, -10000, -110, -100, 100, 110, 10000, 100000} {
		prob, err := oddsmath.AmericanToImpliedProbability(american)
		if err != nil {
			t.Fatalf("AmericanToImpliedProbability(%d) unexpected error: %v", american, err)
		}
		if prob <= 0 || prob >= 1 {
			t.Errorf("AmericanToImpliedProbability(%d) = %.6f, want strictly between 0 and 1", american, prob)
		}
	}
}

func TestProbabilityToAmerican(t *testing.T) {
	tests := []struct {
		name        string
		probability float64
		want        int
	}{
		{"coin flip", 0.50, 100},
		{"heavy favorite", 0.80, -400},
		{"underdog", 0.40, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := oddsmath.ProbabilityToAmerican(tt.probability)
			if err != nil {
				t.Fatalf("ProbabilityToAmerican(%.2f) unexpected error: %v", tt.probability, err)
			}
			if got != tt.want {
				t.Errorf("ProbabilityToAmerican(%.2f) = %d, want %d", tt.probability, got, tt.want)
			}
		})
	}

	for _, probability := range []float64{0, 1, -0.5, 1.5} {
		if _, err := oddsmath.ProbabilityToAmerican(probability); err == nil {
			t.Errorf("ProbabilityToAmerican(%.2f) expected error, got nil", probability)
		}
	}
}
