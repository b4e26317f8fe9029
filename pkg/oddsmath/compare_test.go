package oddsmath_test

import (
	"testing"

	"github.com/bsumme/odds-price-alert/pkg/oddsmath"
)

func TestIsPriceOrBetter(t *testing.T) {
	tests := []struct {
		name      string
		candidate int
		reference int
		want      bool
	}{
		{"+150 beats +100", 150, 100, true},
		{"+100 beats -110", 100, -110, true},
		{"-110 beats -200", -110, -200, true},
		{"equal prices qualify", -110, -110, true},
		{"+100 does not beat +150", 100, 150, false},
		{"-200 does not beat -110", -200, -110, false},
		{"-110 does not beat +100", -110, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := oddsmath.IsPriceOrBetter(tt.candidate, tt.reference); got != tt.want {
				t.Errorf("IsPriceOrBetter(%d, %d) = %v, want %v", tt.candidate, tt.reference, got, tt.want)
			}
		})
	}
}

func TestPointsMatch(t *testing.T) {
	point := func(v float64) *float64 { return &v }

	tests := []struct {
		name string
		a    *float64
		b    *float64
		want bool
	}{
		{"both nil", nil, nil, true},
		{"nil against value", nil, point(5.5), false},
		{"value against nil", point(5.5), nil, false},
		{"equal points", point(225.5), point(225.5), true},
		{"half point apart", point(2.5), point(3.0), false},
		{"mirrored spread points differ", point(-2.5), point(2.5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := oddsmath.PointsMatch(tt.a, tt.b); got != tt.want {
				t.Errorf("PointsMatch = %v, want %v", got, tt.want)
			}
		})
	}
}
