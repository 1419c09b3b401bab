package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/pyroflow/components"
	"github.com/pthm-cable/pyroflow/config"
)

// DetectorTrip describes a detector that latched during an update.
type DetectorTrip struct {
	Placement components.Placement
	Tick      int32
	Cause     components.AlarmCause
}

// DetectorSystem owns the simulated smoke/heat detectors as ECS entities.
type DetectorSystem struct {
	world  *ecs.World
	mapper *ecs.Map3[components.Placement, components.Sensor, components.Alarm]
	filter *ecs.Filter3[components.Placement, components.Sensor, components.Alarm]

	total      int
	perFloor   []int // detectors installed per floor
	tripped    []int // latched detectors per floor
	firstAlarm int32 // -1 until any detector trips
}

// NewDetectorSystem creates an empty detector system. Call Install after the
// building has been generated.
func NewDetectorSystem() *DetectorSystem {
	d := &DetectorSystem{}
	d.clear(0)
	return d
}

// clear discards all detectors by starting a fresh ECS world.
func (d *DetectorSystem) clear(numFloors int) {
	world := ecs.NewWorld()
	d.world = world
	d.mapper = ecs.NewMap3[components.Placement, components.Sensor, components.Alarm](world)
	d.filter = ecs.NewFilter3[components.Placement, components.Sensor, components.Alarm](world)
	d.total = 0
	d.perFloor = make([]int, numFloors)
	d.tripped = make([]int, numFloors)
	d.firstAlarm = -1
}

// Install replaces all detectors with a fresh lattice on the given building.
// A detector goes on every lattice point that is an interior non-wall cell.
func (d *DetectorSystem) Install(floors components.Floors, cfg *config.DetectorsConfig) {
	d.clear(len(floors))
	if !cfg.Enabled {
		return
	}

	spacing := cfg.Spacing
	offset := spacing / 2
	for f, grid := range floors {
		for y := offset; y < grid.H; y += spacing {
			for x := offset; x < grid.W; x += spacing {
				if !grid.IsInterior(x, y) || grid.At(x, y).IsWall() {
					continue
				}
				place := components.Placement{Floor: f, X: x, Y: y}
				sensor := components.Sensor{
					SmokeThreshold: cfg.SmokeThreshold,
					HeatThreshold:  cfg.HeatThreshold,
				}
				alarm := components.Alarm{}
				d.mapper.NewEntity(&place, &sensor, &alarm)
				d.total++
				d.perFloor[f]++
			}
		}
	}
}

// Update reads the live building and latches any detector whose smoke or
// heat reading crosses its threshold. Returns the detectors that tripped now.
func (d *DetectorSystem) Update(floors components.Floors, tick int32) []DetectorTrip {
	var trips []DetectorTrip

	query := d.filter.Query()
	for query.Next() {
		place, sensor, alarm := query.Get()
		if alarm.Tripped || !floors.Valid(place.Floor) {
			continue
		}

		cell := floors[place.Floor].At(place.X, place.Y)
		cause := components.CauseNone
		switch {
		case cell.Smoke >= sensor.SmokeThreshold:
			cause = components.CauseSmoke
		case cell.Temperature >= sensor.HeatThreshold:
			cause = components.CauseHeat
		}
		if cause == components.CauseNone {
			continue
		}

		alarm.Tripped = true
		alarm.TrippedTick = tick
		alarm.Cause = cause
		d.tripped[place.Floor]++
		if d.firstAlarm < 0 {
			d.firstAlarm = tick
		}
		trips = append(trips, DetectorTrip{Placement: *place, Tick: tick, Cause: cause})
	}

	return trips
}

// Total returns the number of installed detectors.
func (d *DetectorSystem) Total() int { return d.total }

// Installed returns the number of detectors on floor f.
func (d *DetectorSystem) Installed(f int) int {
	if f < 0 || f >= len(d.perFloor) {
		return 0
	}
	return d.perFloor[f]
}

// Tripped returns the number of latched detectors on floor f.
func (d *DetectorSystem) Tripped(f int) int {
	if f < 0 || f >= len(d.tripped) {
		return 0
	}
	return d.tripped[f]
}

// TotalTripped returns the number of latched detectors in the building.
func (d *DetectorSystem) TotalTripped() int {
	n := 0
	for _, c := range d.tripped {
		n += c
	}
	return n
}

// FirstAlarmTick returns the tick of the first alarm, if any.
func (d *DetectorSystem) FirstAlarmTick() (int32, bool) {
	return d.firstAlarm, d.firstAlarm >= 0
}
