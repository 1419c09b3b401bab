package telemetry

// Sample is one history entry.
type Sample struct {
	Tick      int32   `csv:"tick"`
	SmokeMass float64 `csv:"smoke_mass"`
	FireCells int     `csv:"fire_cells"`
	AvgTemp   float64 `csv:"avg_temp"`
}

// Collector decides when stats are due and keeps a bounded history of them.
type Collector struct {
	interval int32

	// Circular buffer
	history     []Sample
	historySize int
	historyIdx  int
	historyFull bool

	last     Stats
	hasStats bool
}

// NewCollector creates a collector that samples every interval ticks and
// keeps the most recent historySize samples.
func NewCollector(interval, historySize int) *Collector {
	if interval < 1 {
		interval = 1
	}
	if historySize < 1 {
		historySize = 1
	}
	return &Collector{
		interval:    int32(interval),
		history:     make([]Sample, historySize),
		historySize: historySize,
	}
}

// ShouldSample reports whether stats are due at tick.
func (c *Collector) ShouldSample(tick int32) bool {
	return tick%c.interval == 0
}

// Record stores stats as the latest value and appends a history sample.
func (c *Collector) Record(s Stats) {
	c.last = s
	c.hasStats = true

	c.history[c.historyIdx] = Sample{
		Tick:      s.Tick,
		SmokeMass: s.TotalSmokeMass,
		FireCells: s.ActiveFireCells,
		AvgTemp:   s.AverageTemperature,
	}
	c.historyIdx = (c.historyIdx + 1) % c.historySize
	if c.historyIdx == 0 {
		c.historyFull = true
	}
}

// Latest returns the most recently recorded stats.
func (c *Collector) Latest() (Stats, bool) {
	return c.last, c.hasStats
}

// History returns the recorded samples, oldest first.
func (c *Collector) History() []Sample {
	if !c.historyFull {
		out := make([]Sample, c.historyIdx)
		copy(out, c.history[:c.historyIdx])
		return out
	}
	out := make([]Sample, 0, c.historySize)
	out = append(out, c.history[c.historyIdx:]...)
	out = append(out, c.history[:c.historyIdx]...)
	return out
}

// Len returns the number of samples held.
func (c *Collector) Len() int {
	if c.historyFull {
		return c.historySize
	}
	return c.historyIdx
}

// Reset drops all history.
func (c *Collector) Reset() {
	c.historyIdx = 0
	c.historyFull = false
	c.last = Stats{}
	c.hasStats = false
}
