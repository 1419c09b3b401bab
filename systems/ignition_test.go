package systems

import (
	"testing"

	"github.com/pthm-cable/pyroflow/components"
	"github.com/pthm-cable/pyroflow/config"
)

func TestIgniteStandard(t *testing.T) {
	cfg := config.Cfg()
	floors := walledFloors(3, 20, 20)

	kind := Ignite(floors, 0, 5, 5, cfg)
	if kind != IgnitionStandard {
		t.Fatalf("Ignite returned %v, want standard", kind)
	}

	c := floors[0].At(5, 5)
	if c.Temperature != 900 || c.Fire != 1.0 || c.Fuel != 50 {
		t.Errorf("ignited cell = temp %v fire %v fuel %v, want 900/1/50", c.Temperature, c.Fire, c.Fuel)
	}
	if above := floors[1].At(5, 5); above.Fire != 0 || above.Temperature != cfg.Physics.AmbientTemp {
		t.Errorf("standard ignition disturbed floor above: %+v", *above)
	}
}

func TestIgniteKeepsLargerFuel(t *testing.T) {
	cfg := config.Cfg()
	floors := walledFloors(1, 10, 10)
	c := floors[0].At(3, 3)
	c.Type = components.CellFuel
	c.Fuel = 80

	Ignite(floors, 0, 3, 3, cfg)
	if c.Fuel != 80 {
		t.Errorf("fuel = %v, want 80 kept", c.Fuel)
	}
}

func TestIgniteChimney(t *testing.T) {
	cfg := config.Cfg()
	floors := walledFloors(3, 20, 20)

	above := floors[1].At(5, 5)
	above.Type = components.CellWall

	floors[0].At(5, 5).Fire = 1.0
	kind := Ignite(floors, 0, 5, 5, cfg)
	if kind != IgnitionChimney {
		t.Fatalf("Ignite returned %v, want chimney", kind)
	}

	if above.Temperature != cfg.Physics.MaxTemp {
		t.Errorf("above temperature = %v, want %v", above.Temperature, cfg.Physics.MaxTemp)
	}
	if above.Fire != 1.0 {
		t.Errorf("above fire = %v, want 1", above.Fire)
	}
	if above.Type == components.CellWall {
		t.Error("ceiling wall above was not breached")
	}
	if above.Fuel < 50 {
		t.Errorf("above fuel = %v, want >= 50", above.Fuel)
	}

	src := floors[0].At(5, 5)
	if src.Temperature != cfg.Physics.AmbientTemp+cfg.Ignition.Superheat {
		t.Errorf("source temperature = %v, want %v", src.Temperature, cfg.Physics.AmbientTemp+cfg.Ignition.Superheat)
	}
	if src.Smoke != cfg.Ignition.SuperheatSmoke {
		t.Errorf("source smoke = %v, want %v", src.Smoke, cfg.Ignition.SuperheatSmoke)
	}

	// One floor per call
	if top := floors[2].At(5, 5); top.Fire != 0 {
		t.Errorf("breach climbed two floors in one call")
	}
}

func TestIgniteChimneyByHeat(t *testing.T) {
	cfg := config.Cfg()
	floors := walledFloors(2, 10, 10)
	floors[0].At(4, 4).Temperature = 700

	if kind := Ignite(floors, 0, 4, 4, cfg); kind != IgnitionChimney {
		t.Fatalf("Ignite returned %v, want chimney", kind)
	}
	if got := floors[0].At(4, 4).Temperature; got != 1200 {
		t.Errorf("source temperature = %v, want 1200", got)
	}
}

func TestIgniteChimneySaturates(t *testing.T) {
	cfg := config.Cfg()
	floors := walledFloors(1, 10, 10)
	c := floors[0].At(4, 4)
	c.Fire = 1
	c.Temperature = 1400
	c.Smoke = 90

	// Top floor: superheat only
	if kind := Ignite(floors, 0, 4, 4, cfg); kind != IgnitionChimney {
		t.Fatalf("Ignite returned %v, want chimney", kind)
	}
	if c.Temperature != cfg.Physics.MaxTemp || c.Smoke != 100 {
		t.Errorf("cell = temp %v smoke %v, want saturated %v/100", c.Temperature, c.Smoke, cfg.Physics.MaxTemp)
	}
}

func TestIgniteInvalidIsNoOp(t *testing.T) {
	cfg := config.Cfg()

	tests := []struct {
		name    string
		f, x, y int
	}{
		{"negative floor", -1, 5, 5},
		{"floor past top", 2, 5, 5},
		{"left border", 0, 0, 5},
		{"bottom border", 0, 5, 9},
		{"outside grid", 0, 50, 50},
		{"negative coords", 0, -3, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			floors := walledFloors(2, 10, 10)
			before := floors.Clone()
			if kind := Ignite(floors, tt.f, tt.x, tt.y, cfg); kind != IgnitionNone {
				t.Errorf("Ignite returned %v, want none", kind)
			}
			if !floors.Equal(before) {
				t.Error("invalid ignition changed state")
			}
		})
	}
}
