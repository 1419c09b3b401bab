// Package telemetry derives statistics, history and threshold events from
// the building state and writes them out as CSV.
package telemetry

import (
	"fmt"
	"log/slog"
)

// EventType identifies a threshold event.
type EventType string

const (
	EventFloorInvolved EventType = "floor_involved"
	EventFloorCritical EventType = "floor_critical"
	EventWallCollapse  EventType = "wall_collapse"
	EventFirstAlarm    EventType = "first_alarm"
	EventBuildingClear EventType = "building_clear"
)

// Event is a one-off notable moment in a run. Floor is -1 for building-wide
// events.
type Event struct {
	Type        EventType `csv:"type"`
	Tick        int32     `csv:"tick"`
	Floor       int       `csv:"floor"`
	Description string    `csv:"description"`
}

// LogEvent logs the event using slog.
func (e Event) LogEvent() {
	slog.Info("event",
		"type", string(e.Type),
		"tick", e.Tick,
		"floor", e.Floor,
		"description", e.Description,
	)
}

// clearSmokeLevel is the total smoke mass below which a fire-free building
// counts as clear.
const clearSmokeLevel = 1.0

// EventDetector watches successive Stats and reports threshold crossings.
// Floor events fire once per floor until Reset.
type EventDetector struct {
	criticalDanger float64

	involved       []bool
	critical       []bool
	collapsedWalls int
	alarmed        bool
	burning        bool // fire seen since the last building_clear
}

// NewEventDetector creates a detector using the given critical danger level.
func NewEventDetector(criticalDanger float64) *EventDetector {
	return &EventDetector{criticalDanger: criticalDanger}
}

// Check compares stats with what has been seen so far and returns any new
// events, in floor order.
func (d *EventDetector) Check(s Stats) []Event {
	if len(d.involved) != len(s.Floors) {
		d.involved = make([]bool, len(s.Floors))
		d.critical = make([]bool, len(s.Floors))
	}

	var events []Event

	for f, fs := range s.Floors {
		if !d.involved[f] && fs.FireCells > 0 {
			d.involved[f] = true
			events = append(events, Event{
				Type:        EventFloorInvolved,
				Tick:        s.Tick,
				Floor:       f,
				Description: fmt.Sprintf("Fire reached floor %d (%d burning cells)", f, fs.FireCells),
			})
		}
		if !d.critical[f] && fs.DangerLevel > d.criticalDanger {
			d.critical[f] = true
			events = append(events, Event{
				Type:        EventFloorCritical,
				Tick:        s.Tick,
				Floor:       f,
				Description: fmt.Sprintf("Floor %d danger %.0f above %.0f", f, fs.DangerLevel, d.criticalDanger),
			})
		}
	}

	if s.CollapsedWalls > d.collapsedWalls {
		events = append(events, Event{
			Type:        EventWallCollapse,
			Tick:        s.Tick,
			Floor:       -1,
			Description: fmt.Sprintf("%d wall segments collapsed (%d total)", s.CollapsedWalls-d.collapsedWalls, s.CollapsedWalls),
		})
		d.collapsedWalls = s.CollapsedWalls
	}

	if !d.alarmed && s.AlarmsTripped > 0 {
		d.alarmed = true
		events = append(events, Event{
			Type:        EventFirstAlarm,
			Tick:        s.Tick,
			Floor:       -1,
			Description: fmt.Sprintf("%d detectors in alarm", s.AlarmsTripped),
		})
	}

	if s.ActiveFireCells > 0 {
		d.burning = true
	} else if d.burning && s.TotalSmokeMass < clearSmokeLevel {
		d.burning = false
		events = append(events, Event{
			Type:        EventBuildingClear,
			Tick:        s.Tick,
			Floor:       -1,
			Description: "No fire and smoke has cleared",
		})
	}

	return events
}

// Reset rearms every event.
func (d *EventDetector) Reset() {
	d.involved = nil
	d.critical = nil
	d.collapsedWalls = 0
	d.alarmed = false
	d.burning = false
}
