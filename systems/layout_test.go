package systems

import (
	"testing"

	"github.com/pthm-cable/pyroflow/components"
	"github.com/pthm-cable/pyroflow/config"
)

func TestGenerateBuildingBorderIsWall(t *testing.T) {
	cfg := config.Cfg()
	floors := components.NewFloors(3, 60, 40, cfg.Physics.AmbientTemp)
	GenerateBuilding(floors, seededRNG(1), cfg)

	for f, g := range floors {
		for y := 0; y < g.H; y++ {
			for x := 0; x < g.W; x++ {
				c := g.At(x, y)
				if g.IsBorder(x, y) && (c.Type != components.CellWall || c.Integrity != 100) {
					t.Fatalf("floor %d border (%d,%d) = %v integrity %v, want intact wall", f, x, y, c.Type, c.Integrity)
				}
				if c.Temperature != cfg.Physics.AmbientTemp || c.Fire != 0 || c.Smoke != 0 {
					t.Fatalf("floor %d (%d,%d) not at rest: %+v", f, x, y, *c)
				}
			}
		}
	}
}

func TestGenerateBuildingCorridorsAreClear(t *testing.T) {
	cfg := config.Cfg()
	floors := components.NewFloors(1, 60, 40, cfg.Physics.AmbientTemp)
	GenerateBuilding(floors, seededRNG(7), cfg)

	g := floors[0]
	for y := 1; y < g.H-1; y++ {
		for x := 1; x < g.W-1; x++ {
			if isCorridor(x, y, &cfg.Layout) && g.At(x, y).Type != components.CellEmpty {
				t.Errorf("corridor cell (%d,%d) is %v, want empty", x, y, g.At(x, y).Type)
			}
		}
	}
}

func TestGenerateBuildingFuelRange(t *testing.T) {
	cfg := config.Cfg()
	floors := components.NewFloors(2, 60, 40, cfg.Physics.AmbientTemp)
	GenerateBuilding(floors, seededRNG(3), cfg)

	fuelCells := 0
	for _, g := range floors {
		for i := range g.Cells {
			c := &g.Cells[i]
			switch c.Type {
			case components.CellFuel:
				fuelCells++
				if c.Fuel < cfg.Layout.FuelMin || c.Fuel >= cfg.Layout.FuelMax {
					t.Errorf("fuel load %v outside [%v,%v)", c.Fuel, cfg.Layout.FuelMin, cfg.Layout.FuelMax)
				}
			default:
				if c.Fuel != 0 {
					t.Errorf("%v cell carries fuel %v", c.Type, c.Fuel)
				}
			}
		}
	}
	if fuelCells == 0 {
		t.Error("expected some fuel cells")
	}
}

func TestGenerateBuildingSeeded(t *testing.T) {
	cfg := config.Cfg()
	a := components.NewFloors(3, 60, 40, cfg.Physics.AmbientTemp)
	b := components.NewFloors(3, 60, 40, cfg.Physics.AmbientTemp)
	GenerateBuilding(a, seededRNG(42), cfg)
	GenerateBuilding(b, seededRNG(42), cfg)

	if !a.Equal(b) {
		t.Error("same seed produced different layouts")
	}

	c := components.NewFloors(3, 60, 40, cfg.Physics.AmbientTemp)
	GenerateBuilding(c, seededRNG(43), cfg)
	if a.Equal(c) {
		t.Error("different seeds produced identical layouts")
	}
}
