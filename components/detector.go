package components

// AlarmCause records which reading tripped a detector.
type AlarmCause uint8

const (
	CauseNone AlarmCause = iota
	CauseSmoke
	CauseHeat
)

// String returns a lowercase name for logs and CSV.
func (c AlarmCause) String() string {
	switch c {
	case CauseSmoke:
		return "smoke"
	case CauseHeat:
		return "heat"
	default:
		return "none"
	}
}

// Placement is a detector's fixed position in the building.
type Placement struct {
	Floor int
	X, Y  int
}

// Sensor holds a detector's trip thresholds.
type Sensor struct {
	SmokeThreshold float64
	HeatThreshold  float64
}

// Alarm is the latched alarm state of a detector.
type Alarm struct {
	Tripped     bool
	TrippedTick int32
	Cause       AlarmCause
}
