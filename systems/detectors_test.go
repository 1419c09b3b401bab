package systems

import (
	"testing"

	"github.com/pthm-cable/pyroflow/components"
	"github.com/pthm-cable/pyroflow/config"
)

func testDetectorsConfig() config.DetectorsConfig {
	return config.DetectorsConfig{
		Enabled:        true,
		Spacing:        6,
		SmokeThreshold: 15,
		HeatThreshold:  60,
	}
}

func TestDetectorInstallLattice(t *testing.T) {
	floors := walledFloors(2, 20, 20)
	floors[1].At(9, 9).Type = components.CellWall

	cfg := testDetectorsConfig()
	ds := NewDetectorSystem()
	ds.Install(floors, &cfg)

	// Lattice points 3, 9, 15 on each axis
	if got := ds.Installed(0); got != 9 {
		t.Errorf("floor 0 detectors = %d, want 9", got)
	}
	if got := ds.Installed(1); got != 8 {
		t.Errorf("floor 1 detectors = %d, want 8 (one lattice point is a wall)", got)
	}
	if ds.Total() != 17 {
		t.Errorf("total = %d, want 17", ds.Total())
	}
	if _, ok := ds.FirstAlarmTick(); ok {
		t.Error("fresh system reports an alarm")
	}
}

func TestDetectorDisabled(t *testing.T) {
	floors := walledFloors(1, 20, 20)
	cfg := testDetectorsConfig()
	cfg.Enabled = false

	ds := NewDetectorSystem()
	ds.Install(floors, &cfg)
	if ds.Total() != 0 {
		t.Errorf("total = %d, want 0 when disabled", ds.Total())
	}
	if trips := ds.Update(floors, 1); len(trips) != 0 {
		t.Errorf("disabled system tripped %d detectors", len(trips))
	}
}

func TestDetectorLatches(t *testing.T) {
	floors := walledFloors(2, 20, 20)
	cfg := testDetectorsConfig()
	ds := NewDetectorSystem()
	ds.Install(floors, &cfg)

	if trips := ds.Update(floors, 1); len(trips) != 0 {
		t.Fatalf("ambient building tripped %d detectors", len(trips))
	}

	floors[0].At(3, 3).Smoke = 20
	floors[1].At(15, 9).Temperature = 100

	trips := ds.Update(floors, 7)
	if len(trips) != 2 {
		t.Fatalf("got %d trips, want 2", len(trips))
	}
	causes := map[int]components.AlarmCause{}
	for _, tr := range trips {
		causes[tr.Placement.Floor] = tr.Cause
		if tr.Tick != 7 {
			t.Errorf("trip tick = %d, want 7", tr.Tick)
		}
	}
	if causes[0] != components.CauseSmoke {
		t.Errorf("floor 0 cause = %v, want smoke", causes[0])
	}
	if causes[1] != components.CauseHeat {
		t.Errorf("floor 1 cause = %v, want heat", causes[1])
	}

	if tick, ok := ds.FirstAlarmTick(); !ok || tick != 7 {
		t.Errorf("first alarm = %d,%v want 7,true", tick, ok)
	}

	// Readings clear but the alarms stay latched
	floors[0].At(3, 3).Smoke = 0
	if trips := ds.Update(floors, 8); len(trips) != 0 {
		t.Errorf("latched detectors re-tripped: %d", len(trips))
	}
	if ds.Tripped(0) != 1 || ds.Tripped(1) != 1 || ds.TotalTripped() != 2 {
		t.Errorf("tripped counts = %d/%d/%d, want 1/1/2", ds.Tripped(0), ds.Tripped(1), ds.TotalTripped())
	}
}

func TestDetectorReinstallClearsAlarms(t *testing.T) {
	floors := walledFloors(1, 20, 20)
	cfg := testDetectorsConfig()
	ds := NewDetectorSystem()
	ds.Install(floors, &cfg)

	floors[0].At(9, 9).Smoke = 50
	ds.Update(floors, 3)
	if ds.TotalTripped() != 1 {
		t.Fatalf("tripped = %d, want 1", ds.TotalTripped())
	}

	ds.Install(floors, &cfg)
	if ds.TotalTripped() != 0 {
		t.Errorf("tripped = %d after reinstall, want 0", ds.TotalTripped())
	}
	if _, ok := ds.FirstAlarmTick(); ok {
		t.Error("first alarm survived reinstall")
	}
}
