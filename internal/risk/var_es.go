package risk

import (
	"math"
	"sort"
)

// VarEs is a one-day Value-at-Risk / Expected Shortfall pair at the 95% and
// 99% confidence levels, plus the EWMA volatility used to scale a live risk
// score. All fields are expressed in the same unit as the input series
// (e.g. daily return fractions or dollar P&L).
type VarEs struct {
	Var95          float64
	Var99          float64
	ES95           float64
	ES99           float64
	EWMAVolatility float64
	// Var99Reliable is false when the sample has too few points (<30) for
	// the 1% empirical quantile to be meaningful.
	Var99Reliable bool
}

const minVar99Samples = 30

// ewmaLambda is the RiskMetrics decay convention for exponentially weighted
// volatility: recent observations are weighted more heavily than old ones.
const ewmaLambda = 0.94

// ComputeVarEs estimates one-day VaR/ES on a P&L or return series. Below 20
// samples the empirical quantile degenerates (floor(0.05*10)=0), so small
// samples fall back to a Cornish-Fisher expansion of the normal quantile
// that corrects for the series' own skewness and kurtosis.
func ComputeVarEs(series []float64) VarEs {
	var out VarEs
	n := len(series)
	if n == 0 {
		return out
	}

	out.Var99Reliable = n >= minVar99Samples
	out.EWMAVolatility = ewmaVolatility(series, ewmaLambda)

	if n < 20 {
		mu := mean(series)
		sigma := math.Sqrt(variance(series))
		if sigma <= 0 {
			out.Var95, out.Var99, out.ES95, out.ES99 = mu, mu, mu, mu
			return out
		}
		skew := sampleSkewness(series, mu, sigma)
		kurt := sampleExcessKurtosis(series, mu, sigma)

		const z95, z99 = -1.6449, -2.3263 // Φ⁻¹(0.05), Φ⁻¹(0.01)
		cf95 := cornishFisherQuantile(z95, skew, kurt)
		cf99 := cornishFisherQuantile(z99, skew, kurt)

		out.Var95 = mu + cf95*sigma
		out.Var99 = mu + cf99*sigma
		out.ES95 = mu + cornishFisherTailMean(0.05, skew, kurt)*sigma
		out.ES99 = mu + cornishFisherTailMean(0.01, skew, kurt)*sigma
		return out
	}

	sorted := make([]float64, n)
	copy(sorted, series)
	sort.Float64s(sorted)

	idx95 := clampIndex(int(math.Floor(0.05*float64(n))), n)
	idx99 := clampIndex(int(math.Floor(0.01*float64(n))), n)
	out.Var95 = sorted[idx95]
	out.Var99 = sorted[idx99]
	out.ES95 = mean(sorted[:idx95+1])
	out.ES99 = mean(sorted[:idx99+1])
	return out
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

func variance(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	mu := mean(x)
	sum := 0.0
	for _, v := range x {
		d := v - mu
		sum += d * d
	}
	return sum / float64(len(x))
}

// ewmaVolatility computes σ_t via σ²_t = λσ²_{t-1} + (1-λ)(r_t-μ)², seeded
// with the sample variance so small series don't start from a single noisy
// squared deviation.
func ewmaVolatility(series []float64, lambda float64) float64 {
	if len(series) < 2 {
		return 0
	}
	mu := mean(series)
	ewmaVar := variance(series)
	for _, r := range series {
		dev := r - mu
		ewmaVar = lambda*ewmaVar + (1-lambda)*dev*dev
	}
	return math.Sqrt(ewmaVar)
}

// sampleSkewness is the adjusted Fisher-Pearson standardized moment G1.
func sampleSkewness(x []float64, mu, sigma float64) float64 {
	n := len(x)
	if n < 3 || sigma <= 0 {
		return 0
	}
	m3 := 0.0
	for _, v := range x {
		d := (v - mu) / sigma
		m3 += d * d * d
	}
	return float64(n) / (float64(n-1) * float64(n-2)) * m3
}

// sampleExcessKurtosis is the adjusted excess kurtosis G2.
func sampleExcessKurtosis(x []float64, mu, sigma float64) float64 {
	n := len(x)
	if n < 4 || sigma <= 0 {
		return 0
	}
	m4 := 0.0
	for _, v := range x {
		d := (v - mu) / sigma
		m4 += d * d * d * d
	}
	n1 := float64(n)
	return (n1*(n1+1)/((n1-1)*(n1-2)*(n1-3)))*m4 - 3*(n1-1)*(n1-1)/((n1-2)*(n1-3))
}

// cornishFisherQuantile adjusts a normal quantile z for skewness γ1 and
// excess kurtosis γ2 via the 4th-order Cornish-Fisher expansion:
//
//	z_cf = z + (z²−1)γ₁/6 + (z³−3z)γ₂/24 − (2z³−5z)γ₁²/36
func cornishFisherQuantile(z, skew, excessKurt float64) float64 {
	z2 := z * z
	z3 := z2 * z
	return z + (z2-1)*skew/6 + (z3-3*z)*excessKurt/24 - (2*z3-5*z)*skew*skew/36
}

// cornishFisherTailMean is the expected shortfall in standardized units: the
// Cornish-Fisher quantile averaged over tail probabilities in (0, alpha),
// sampled at the midpoints of evenly spaced steps.
func cornishFisherTailMean(alpha, skew, excessKurt float64) float64 {
	const steps = 200
	sum := 0.0
	for i := 0; i < steps; i++ {
		p := alpha * (float64(i) + 0.5) / steps
		z := -math.Sqrt2 * math.Erfcinv(2*p) // Φ⁻¹(p)
		sum += cornishFisherQuantile(z, skew, excessKurt)
	}
	return sum / steps
}

func normalPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}
