package indicators

// Rsi computes the Relative Strength Index using Wilder smoothing:
// avg = (avg*(p-1) + x)/p applied separately to gains and losses.
// RSI = 100 - 100/(1 + avgGain/avgLoss); RSI = 100 when avgLoss is zero.
type Rsi struct {
	period int
}

func NewRsi(period int) Rsi {
	return Rsi{period: period}
}

func (r Rsi) Period() int  { return r.period }
func (r Rsi) Name() string { return "RSI" }

// Calculate consumes one extra input to compute the first delta, so the
// output has length max(0, N-period-1+1) = N-period when N > period.
func (r Rsi) Calculate(data []float64) []float64 {
	if r.period <= 0 || len(data) < r.period+1 {
		return nil
	}

	gains := make([]float64, len(data)-1)
	losses := make([]float64, len(data)-1)
	for i := 1; i < len(data); i++ {
		delta := data[i] - data[i-1]
		if delta > 0 {
			gains[i-1] = delta
		} else {
			losses[i-1] = -delta
		}
	}

	avgGain := 0.0
	avgLoss := 0.0
	for i := 0; i < r.period; i++ {
		avgGain += gains[i]
		avgLoss += losses[i]
	}
	avgGain /= float64(r.period)
	avgLoss /= float64(r.period)

	out := make([]float64, 0, len(gains)-r.period+1)
	out = append(out, rsiFromAverages(avgGain, avgLoss))

	for i := r.period; i < len(gains); i++ {
		avgGain = (avgGain*float64(r.period-1) + gains[i]) / float64(r.period)
		avgLoss = (avgLoss*float64(r.period-1) + losses[i]) / float64(r.period)
		out = append(out, rsiFromAverages(avgGain, avgLoss))
	}
	return out
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// StreamingRsi is the incremental counterpart to Rsi.
type StreamingRsi struct {
	period  int
	prev    float64
	hasPrev bool
	seen    int
	avgGain float64
	avgLoss float64
	ready   bool
}

func NewStreamingRsi(period int) *StreamingRsi {
	return &StreamingRsi{period: period}
}

func (r *StreamingRsi) Period() int   { return r.period }
func (r *StreamingRsi) Name() string  { return "RSI" }
func (r *StreamingRsi) IsReady() bool { return r.ready }

func (r *StreamingRsi) Update(value float64) (float64, bool) {
	if !r.hasPrev {
		r.prev = value
		r.hasPrev = true
		return 0, false
	}

	delta := value - r.prev
	r.prev = value
	gain, loss := 0.0, 0.0
	if delta > 0 {
		gain = delta
	} else {
		loss = -delta
	}

	if !r.ready {
		r.seen++
		r.avgGain += gain
		r.avgLoss += loss
		if r.seen < r.period {
			return 0, false
		}
		r.avgGain /= float64(r.period)
		r.avgLoss /= float64(r.period)
		r.ready = true
		return rsiFromAverages(r.avgGain, r.avgLoss), true
	}

	r.avgGain = (r.avgGain*float64(r.period-1) + gain) / float64(r.period)
	r.avgLoss = (r.avgLoss*float64(r.period-1) + loss) / float64(r.period)
	return rsiFromAverages(r.avgGain, r.avgLoss), true
}

func (r *StreamingRsi) Current() (float64, bool) {
	if !r.ready {
		return 0, false
	}
	return rsiFromAverages(r.avgGain, r.avgLoss), true
}

func (r *StreamingRsi) Reset() {
	r.hasPrev = false
	r.seen = 0
	r.avgGain = 0
	r.avgLoss = 0
	r.ready = false
}

// MacdOutput is one aligned output row of the MACD indicator.
type MacdOutput struct {
	Macd      float64
	Signal    float64
	Histogram float64
}

// Macd computes macd = EMA(fast) - EMA(slow), aligned at the slow EMA's
// offset, then signal = EMA(signalPeriod) of macd, and histogram = macd -
// signal.
type Macd struct {
	fast, slow, signal int
}

func NewMacd(fast, slow, signal int) Macd {
	return Macd{fast: fast, slow: slow, signal: signal}
}

func (m Macd) Period() int  { return m.slow + m.signal }
func (m Macd) Name() string { return "MACD" }

func (m Macd) Calculate(data []float64) []MacdOutput {
	if len(data) < m.slow+m.signal {
		return nil
	}

	fastEma := NewEma(m.fast).Calculate(data)
	slowEma := NewEma(m.slow).Calculate(data)
	if len(fastEma) == 0 || len(slowEma) == 0 {
		return nil
	}

	// fastEma starts `slow-fast` entries earlier than slowEma since its
	// warmup is shorter; align both series to slowEma's first index.
	offset := len(fastEma) - len(slowEma)
	macdLine := make([]float64, len(slowEma))
	for i := range slowEma {
		macdLine[i] = fastEma[i+offset] - slowEma[i]
	}

	signalLine := NewEma(m.signal).Calculate(macdLine)
	if len(signalLine) == 0 {
		return nil
	}
	macdOffset := len(macdLine) - len(signalLine)

	out := make([]MacdOutput, len(signalLine))
	for i := range signalLine {
		macdVal := macdLine[i+macdOffset]
		out[i] = MacdOutput{Macd: macdVal, Signal: signalLine[i], Histogram: macdVal - signalLine[i]}
	}
	return out
}

// StochasticOutput is one aligned output row of the Stochastic oscillator.
type StochasticOutput struct {
	K float64
	D float64
}

// Stochastic computes %K = (close-minLow)/(maxHigh-minLow)*100 over
// kPeriod (50 when the range is zero), and %D = SMA(%K) over dPeriod.
type Stochastic struct {
	kPeriod, dPeriod int
}

func NewStochastic(kPeriod, dPeriod int) Stochastic {
	return Stochastic{kPeriod: kPeriod, dPeriod: dPeriod}
}

func (s Stochastic) Period() int  { return s.kPeriod + s.dPeriod - 1 }
func (s Stochastic) Name() string { return "Stochastic" }

func (s Stochastic) Calculate(highs, lows, closes []float64) []StochasticOutput {
	if s.kPeriod <= 0 || len(closes) < s.kPeriod {
		return nil
	}

	kValues := make([]float64, 0, len(closes)-s.kPeriod+1)
	for end := s.kPeriod; end <= len(closes); end++ {
		windowHighs := highs[end-s.kPeriod : end]
		windowLows := lows[end-s.kPeriod : end]

		maxHigh := windowHighs[0]
		minLow := windowLows[0]
		for i := 1; i < len(windowHighs); i++ {
			if windowHighs[i] > maxHigh {
				maxHigh = windowHighs[i]
			}
			if windowLows[i] < minLow {
				minLow = windowLows[i]
			}
		}

		rangeVal := maxHigh - minLow
		k := 50.0
		if rangeVal != 0 {
			k = (closes[end-1] - minLow) / rangeVal * 100
		}
		kValues = append(kValues, k)
	}

	if len(kValues) < s.dPeriod {
		return nil
	}
	dValues := NewSma(s.dPeriod).Calculate(kValues)
	offset := len(kValues) - len(dValues)

	out := make([]StochasticOutput, len(dValues))
	for i := range dValues {
		out[i] = StochasticOutput{K: kValues[i+offset], D: dValues[i]}
	}
	return out
}
