package indicators

// Sma computes the simple moving average: the arithmetic mean of the last
// p values in a sliding window.
type Sma struct {
	period int
}

func NewSma(period int) Sma {
	return Sma{period: period}
}

func (s Sma) Period() int   { return s.period }
func (s Sma) Name() string  { return "SMA" }

// Calculate returns one value per window position, using a running sum so
// the whole pass is O(N) rather than O(N*period).
func (s Sma) Calculate(data []float64) []float64 {
	if s.period <= 0 || len(data) < s.period {
		return nil
	}

	out := make([]float64, 0, len(data)-s.period+1)
	sum := 0.0
	for i, v := range data {
		sum += v
		if i >= s.period {
			sum -= data[i-s.period]
		}
		if i >= s.period-1 {
			out = append(out, sum/float64(s.period))
		}
	}
	return out
}

// Ema computes the exponential moving average. The seed value is the SMA of
// the first p values; thereafter ema = alpha*x + (1-alpha)*ema with
// alpha = 2/(p+1).
type Ema struct {
	period int
}

func NewEma(period int) Ema {
	return Ema{period: period}
}

func (e Ema) Period() int  { return e.period }
func (e Ema) Name() string { return "EMA" }

func (e Ema) Calculate(data []float64) []float64 {
	if e.period <= 0 || len(data) < e.period {
		return nil
	}

	alpha := 2.0 / (float64(e.period) + 1.0)

	seed := 0.0
	for _, v := range data[:e.period] {
		seed += v
	}
	seed /= float64(e.period)

	out := make([]float64, 0, len(data)-e.period+1)
	out = append(out, seed)
	ema := seed
	for _, v := range data[e.period:] {
		ema = alpha*v + (1-alpha)*ema
		out = append(out, ema)
	}
	return out
}

// Wma computes the linearly weighted moving average: sum(i*x_i)/sum(i) for
// i = 1..p within each window, most recent value weighted heaviest.
type Wma struct {
	period int
}

func NewWma(period int) Wma {
	return Wma{period: period}
}

func (w Wma) Period() int  { return w.period }
func (w Wma) Name() string { return "WMA" }

func (w Wma) Calculate(data []float64) []float64 {
	if w.period <= 0 || len(data) < w.period {
		return nil
	}

	denom := float64(w.period*(w.period+1)) / 2

	out := make([]float64, 0, len(data)-w.period+1)
	for end := w.period; end <= len(data); end++ {
		window := data[end-w.period : end]
		weighted := 0.0
		for i, v := range window {
			weighted += float64(i+1) * v
		}
		out = append(out, weighted/denom)
	}
	return out
}

// StreamingSma is the incremental counterpart to Sma.
type StreamingSma struct {
	period int
	window []float64
	sum    float64
}

func NewStreamingSma(period int) *StreamingSma {
	return &StreamingSma{period: period, window: make([]float64, 0, period)}
}

func (s *StreamingSma) Period() int  { return s.period }
func (s *StreamingSma) Name() string { return "SMA" }

func (s *StreamingSma) IsReady() bool { return len(s.window) >= s.period }

func (s *StreamingSma) Update(value float64) (float64, bool) {
	if len(s.window) == s.period {
		s.sum -= s.window[0]
		s.window = s.window[1:]
	}
	s.window = append(s.window, value)
	s.sum += value

	if !s.IsReady() {
		return 0, false
	}
	return s.sum / float64(s.period), true
}

func (s *StreamingSma) Current() (float64, bool) {
	if !s.IsReady() {
		return 0, false
	}
	return s.sum / float64(s.period), true
}

func (s *StreamingSma) Reset() {
	s.window = s.window[:0]
	s.sum = 0
}

// StreamingEma is the incremental counterpart to Ema: it seeds from the
// first `period` updates' simple average, then applies the EMA recurrence.
type StreamingEma struct {
	period int
	alpha  float64
	seen   int
	seedSum float64
	value  float64
	ready  bool
}

func NewStreamingEma(period int) *StreamingEma {
	return &StreamingEma{period: period, alpha: 2.0 / (float64(period) + 1.0)}
}

func (e *StreamingEma) Period() int   { return e.period }
func (e *StreamingEma) Name() string  { return "EMA" }
func (e *StreamingEma) IsReady() bool { return e.ready }

func (e *StreamingEma) Update(value float64) (float64, bool) {
	if !e.ready {
		e.seen++
		e.seedSum += value
		if e.seen < e.period {
			return 0, false
		}
		e.value = e.seedSum / float64(e.period)
		e.ready = true
		return e.value, true
	}

	e.value = e.alpha*value + (1-e.alpha)*e.value
	return e.value, true
}

func (e *StreamingEma) Current() (float64, bool) {
	if !e.ready {
		return 0, false
	}
	return e.value, true
}

func (e *StreamingEma) Reset() {
	e.seen = 0
	e.seedSum = 0
	e.value = 0
	e.ready = false
}
