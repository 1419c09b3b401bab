package systems

import "github.com/pthm-cable/pyroflow/components"

// clampCell saturates a cell's quantities into their legal ranges.
func clampCell(c *components.Cell, maxTemp float64) {
	if c.Temperature > maxTemp {
		c.Temperature = maxTemp
	}
	if c.Smoke > 100 {
		c.Smoke = 100
	} else if c.Smoke < 0 {
		c.Smoke = 0
	}
	if c.Integrity < 0 {
		c.Integrity = 0
	}
	if c.Fuel < 0 {
		c.Fuel = 0
	}
	if c.Fire > 1 {
		c.Fire = 1
	} else if c.Fire < 0 {
		c.Fire = 0
	}
}
