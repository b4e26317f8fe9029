package oddsmath

// ApplyVigAdjustment removes vig from a market using the multiplicative method:
// every implied probability is divided by the sum, so the result always sums
// to exactly 1.0.
//
// Example:
// Side A: -110 (52.38% implied) | Side B: -110 (52.38% implied)
// Overround: 104.76% (4.76% vig)
// Fair: 50% / 50% (after normalization)
//
// Proportional normalization is one of several valid de-vig methods (additive
// equal-split and the power method are the usual alternatives) and is the
// fixed policy here. Switching methods shifts every EV figure downstream.
func ApplyVigAdjustment(probabilities []float64) ([]float64, error) {
	if len(probabilities) == 0 {
		return nil, &InvalidOddsError{Field: "probabilities", Reason: "need at least 1 outcome"}
	}

	totalProb := 0.0
	for _, prob := range probabilities {
		if prob <= 0 || prob >= 1 {
			return nil, &InvalidOddsError{Field: "probability", Reason: "must be between 0 and 1"}
		}
		totalProb += prob
	}

	// Normalize by dividing each probability by the total. A market priced
	// below fair (sum < 1.0) scales up to 1.0 the same way.
	fairProbs := make([]float64, len(probabilities))
	for i, prob := range probabilities {
		fairProbs[i] = prob / totalProb
	}

	return fairProbs, nil
}

// EstimateEVPercent calculates the expected value of an offered price against
// a fair win probability, as a percentage of stake
// EV% = (fairProbability * decimal(offered) - 1) * 100
//
// Example:
// Fair probability 0.50, offered +120 (decimal 2.20)
// EV% = (0.50 * 2.20 - 1) * 100 = 10.0
func EstimateEVPercent(fairProbability float64, offeredAmerican int) (float64, error) {
	if fairProbability <= 0 || fairProbability >= 1 {
		return 0, &InvalidOddsError{Field: "fair probability", Reason: "must be between 0 and 1"}
	}

	decimal, err := AmericanToDecimal(offeredAmerican)
	if err != nil {
		return 0, err
	}

	return (fairProbability*decimal - 1.0) * 100.0, nil
}

// CalculateVigPercentage calculates the vig (overround) percentage in a market
// Vig% = (TotalProb - 1.0) * 100
//
// Example:
// Outcome A: 52.38% | Outcome B: 52.38%
// Total: 104.76%
// Vig: 4.76%
func CalculateVigPercentage(probabilities []float64) (float64, error) {
	if len(probabilities) == 0 {
		return 0, &InvalidOddsError{Field: "probabilities", Reason: "need at least 1 outcome"}
	}

	totalProb := 0.0
	for _, prob := range probabilities {
		if prob <= 0 || prob >= 1 {
			return 0, &InvalidOddsError{Field: "probability", Reason: "must be between 0 and 1"}
		}
		totalProb += prob
	}

	if totalProb <= 1.0 {
		return 0, nil // No vig
	}

	return (totalProb - 1.0) * 100.0, nil
}
