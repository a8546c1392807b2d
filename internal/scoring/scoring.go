// Package scoring computes the BeeScore composite rating (spec.md §4.4): a
// pure, side-effect-free function of a token's safety and traction
// metrics. It has no I/O and no dependency on internal/store, matching
// spec.md §9's "scorer is deterministic" requirement — ported faithfully
// from the original bee_score.rs rubric thresholds.
package scoring

// TokenMetrics is the input to Calculate — the subset of Token fields the
// rubrics read (spec.md §4.4).
type TokenMetrics struct {
	LiquidityUSD        float64
	LPLocked            bool
	LPLockPercent       float64
	Top10HolderPercent  float64
	DevHoldingsPercent  float64
	OwnershipRenounced  bool
	Volume1hUSD         float64
	Trades1h            int64
	HolderCount         int64
	HolderCount1hAgo    int64
	PriceChange1h       float64
	Buys1h              int64
	Sells1h             int64
}

// Breakdown is one rubric's contribution to a Safety or Traction score.
type Breakdown struct {
	Name     string
	Score    int
	MaxScore int
	Reason   string
}

// Result is the outcome of Calculate.
type Result struct {
	Total             int
	Safety            int
	Traction          int
	SafetyBreakdown   []Breakdown
	TractionBreakdown []Breakdown
}

// Calculate scores a token 0-100: Safety (0-60) + Traction (0-40)
// (spec.md §4.4).
func Calculate(m TokenMetrics) Result {
	safety, safetyBreakdown := calculateSafety(m)
	traction, tractionBreakdown := calculateTraction(m)
	return Result{
		Total:             safety + traction,
		Safety:            safety,
		Traction:          traction,
		SafetyBreakdown:   safetyBreakdown,
		TractionBreakdown: tractionBreakdown,
	}
}

// calculateSafety applies the five safety rubrics from spec.md §4.4. Band
// boundaries use ≤ on the upper bound per the spec's tie-break rule, which
// matters for Distribution and Dev Holdings where the original rubric used
// a strict upper bound.
func calculateSafety(m TokenMetrics) (int, []Breakdown) {
	var score int
	var breakdown []Breakdown

	liqScore, liqReason := 0, "Very low liquidity (<$10k)"
	switch {
	case m.LiquidityUSD >= 100_000:
		liqScore, liqReason = 15, "Excellent liquidity (>$100k)"
	case m.LiquidityUSD >= 50_000:
		liqScore, liqReason = 10, "Good liquidity ($50k-$100k)"
	case m.LiquidityUSD >= 10_000:
		liqScore, liqReason = 5, "Low liquidity ($10k-$50k)"
	}
	score += liqScore
	breakdown = append(breakdown, Breakdown{"Liquidity", liqScore, 15, liqReason})

	lockScore, lockReason := 0, "LP not locked - high rug risk"
	if m.LPLocked {
		switch {
		case m.LPLockPercent >= 90:
			lockScore, lockReason = 15, "LP >90% locked - excellent"
		case m.LPLockPercent >= 50:
			lockScore, lockReason = 10, "LP 50-90% locked - good"
		default:
			lockScore, lockReason = 5, "LP <50% locked - moderate risk"
		}
	}
	score += lockScore
	breakdown = append(breakdown, Breakdown{"LP Lock", lockScore, 15, lockReason})

	distScore, distReason := 0, "Highly concentrated (>80% top 10)"
	switch {
	case m.Top10HolderPercent <= 40:
		distScore, distReason = 15, "Well distributed (<=40% top 10)"
	case m.Top10HolderPercent <= 60:
		distScore, distReason = 10, "Moderately distributed (40-60% top 10)"
	case m.Top10HolderPercent <= 80:
		distScore, distReason = 5, "Concentrated (60-80% top 10)"
	}
	score += distScore
	breakdown = append(breakdown, Breakdown{"Distribution", distScore, 15, distReason})

	devScore, devReason := 0, "Very high dev holdings (>20%)"
	switch {
	case m.DevHoldingsPercent <= 5:
		devScore, devReason = 10, "Low dev holdings (<=5%)"
	case m.DevHoldingsPercent <= 10:
		devScore, devReason = 7, "Moderate dev holdings (5-10%)"
	case m.DevHoldingsPercent <= 20:
		devScore, devReason = 3, "High dev holdings (10-20%)"
	}
	score += devScore
	breakdown = append(breakdown, Breakdown{"Dev Holdings", devScore, 10, devReason})

	contractScore, contractReason := 0, "Ownership not renounced"
	if m.OwnershipRenounced {
		contractScore, contractReason = 5, "Ownership renounced"
	}
	score += contractScore
	breakdown = append(breakdown, Breakdown{"Contract", contractScore, 5, contractReason})

	return score, breakdown
}

func calculateTraction(m TokenMetrics) (int, []Breakdown) {
	var score int
	var breakdown []Breakdown

	volRatio := 0.0
	if m.LiquidityUSD > 0 {
		volRatio = m.Volume1hUSD / m.LiquidityUSD
	}
	volScore, volReason := 0, "Very low volume"
	switch {
	case volRatio >= 0.5 && volRatio <= 2.0:
		volScore, volReason = 12, "Healthy volume (50-200% of liquidity)"
	case volRatio >= 0.2 && volRatio <= 3.0:
		volScore, volReason = 8, "Good volume (20-300% of liquidity)"
	case volRatio >= 0.1:
		volScore, volReason = 4, "Low volume (>10% of liquidity)"
	}
	score += volScore
	breakdown = append(breakdown, Breakdown{"Volume", volScore, 12, volReason})

	tradesScore, tradesReason := 0, "Very low activity (<5 trades/hr)"
	switch {
	case m.Trades1h >= 100:
		tradesScore, tradesReason = 8, "Very active (100+ trades/hr)"
	case m.Trades1h >= 50:
		tradesScore, tradesReason = 6, "Active (50-100 trades/hr)"
	case m.Trades1h >= 20:
		tradesScore, tradesReason = 4, "Moderate activity (20-50 trades/hr)"
	case m.Trades1h >= 5:
		tradesScore, tradesReason = 2, "Low activity (5-20 trades/hr)"
	}
	score += tradesScore
	breakdown = append(breakdown, Breakdown{"Trades", tradesScore, 8, tradesReason})

	growth := 0.0
	if m.HolderCount1hAgo > 0 {
		growth = float64(m.HolderCount-m.HolderCount1hAgo) / float64(m.HolderCount1hAgo) * 100.0
	}
	growthScore, growthReason := 0, "No holder growth"
	switch {
	case growth >= 20:
		growthScore, growthReason = 8, "Strong growth (20%+ new holders/hr)"
	case growth >= 10:
		growthScore, growthReason = 6, "Good growth (10-20% new holders/hr)"
	case growth >= 5:
		growthScore, growthReason = 4, "Moderate growth (5-10% new holders/hr)"
	case growth > 0:
		growthScore, growthReason = 2, "Slight growth (<5% new holders/hr)"
	}
	score += growthScore
	breakdown = append(breakdown, Breakdown{"Growth", growthScore, 8, growthReason})

	priceScore, priceReason := 1, "Volatile price action"
	switch {
	case m.PriceChange1h >= 5 && m.PriceChange1h <= 100:
		priceScore, priceReason = 6, "Healthy gain (5-100%)"
	case m.PriceChange1h >= 0 && m.PriceChange1h <= 200:
		priceScore, priceReason = 4, "Acceptable price action (0-200%)"
	case m.PriceChange1h <= -50:
		priceScore, priceReason = 0, "Major dump (>50% loss)"
	case m.PriceChange1h >= -20:
		priceScore, priceReason = 2, "Small dip (<20% loss)"
	}
	score += priceScore
	breakdown = append(breakdown, Breakdown{"Price Action", priceScore, 6, priceReason})

	totalTrades := float64(m.Buys1h + m.Sells1h)
	buyRatio := 0.5
	if totalTrades > 0 {
		buyRatio = float64(m.Buys1h) / totalTrades
	}
	balanceScore, balanceReason := 0, "Heavy selling (<20% buys)"
	switch {
	case buyRatio >= 0.4 && buyRatio <= 0.7:
		balanceScore, balanceReason = 6, "Balanced with buy pressure (40-70% buys)"
	case buyRatio >= 0.3 && buyRatio <= 0.8:
		balanceScore, balanceReason = 4, "Acceptable balance (30-80% buys)"
	case buyRatio >= 0.2:
		balanceScore, balanceReason = 2, "Sell pressure (only 20-30% buys)"
	}
	score += balanceScore
	breakdown = append(breakdown, Breakdown{"Buy/Sell", balanceScore, 6, balanceReason})

	return score, breakdown
}

// Rating maps a total score to a human-readable band (spec.md §4.4).
func Rating(total int) string {
	switch {
	case total >= 80:
		return "Excellent"
	case total >= 60:
		return "Good"
	case total >= 40:
		return "Fair"
	case total >= 20:
		return "Poor"
	default:
		return "Risky"
	}
}
