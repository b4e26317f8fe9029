package oddsmath

// IsPriceOrBetter reports whether a candidate American price pays at least as
// well as the reference price for the bettor
// +150 > +100 > -110 > -200
//
// American odds skip the open interval (-100, 100), so the better-for-bettor
// order and plain integer order coincide.
func IsPriceOrBetter(candidate, reference int) bool {
	return candidate >= reference
}

// PointsMatch reports whether two line points are the same. Nil matches only
// nil; anything else requires exact equality. A 2.5 spread and a 3.0 spread
// are different bets, so half-point lines never match their whole-point
// neighbors.
func PointsMatch(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
