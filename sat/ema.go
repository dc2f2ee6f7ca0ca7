package sat

// EMA is an exponential moving average. The first value added becomes the
// average's initial value so that short sequences are not biased towards zero.
type EMA struct {
	decay float64
	value float64
	init  bool
}

func NewEMA(decay float64) EMA {
	return EMA{decay: decay}
}

func (ema *EMA) Add(x float64) {
	if !ema.init {
		ema.init = true
		ema.value = x
	} else {
		ema.value = ema.decay*ema.value + x*(1-ema.decay)
	}
}

func (ema *EMA) Val() float64 {
	return ema.value
}

// DualEMA tracks the same signal with a fast (short-term) and a slow
// (long-term) moving average. The ratio of the two is used as a trend
// indicator by the dynamic restart policy.
type DualEMA struct {
	fast EMA
	slow EMA
}

func NewDualEMA(fastDecay, slowDecay float64) DualEMA {
	return DualEMA{
		fast: NewEMA(fastDecay),
		slow: NewEMA(slowDecay),
	}
}

func (d *DualEMA) Add(x float64) {
	d.fast.Add(x)
	d.slow.Add(x)
}

func (d *DualEMA) Fast() float64 {
	return d.fast.Val()
}

func (d *DualEMA) Slow() float64 {
	return d.slow.Val()
}

// Trend returns the ratio of the short-term average over the long-term one.
// It returns 1 until at least one value has been added.
func (d *DualEMA) Trend() float64 {
	if !d.slow.init || d.slow.value == 0 {
		return 1
	}
	return d.fast.value / d.slow.value
}
