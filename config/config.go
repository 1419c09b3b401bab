// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Building   BuildingConfig   `yaml:"building"`
	Layout     LayoutConfig     `yaml:"layout"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Combustion CombustionConfig `yaml:"combustion"`
	Ignition   IgnitionConfig   `yaml:"ignition"`
	Wind       WindConfig       `yaml:"wind"`
	Engine     EngineConfig     `yaml:"engine"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Detectors  DetectorsConfig  `yaml:"detectors"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// BuildingConfig holds grid dimensions and the floor count.
type BuildingConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Floors int `yaml:"floors"`
}

// LayoutConfig holds the procedural floor-plan rules.
type LayoutConfig struct {
	CorridorPeriodX int     `yaml:"corridor_period_x"`
	CorridorMinX    int     `yaml:"corridor_min_x"`
	CorridorMaxX    int     `yaml:"corridor_max_x"`
	CorridorPeriodY int     `yaml:"corridor_period_y"`
	CorridorMinY    int     `yaml:"corridor_min_y"`
	CorridorMaxY    int     `yaml:"corridor_max_y"`
	WallChance      float64 `yaml:"wall_chance"`
	FuelChance      float64 `yaml:"fuel_chance"`
	FuelMin         float64 `yaml:"fuel_min"`
	FuelMax         float64 `yaml:"fuel_max"`
}

// PhysicsConfig holds diffusion, cooling, wall and vertical coupling parameters.
type PhysicsConfig struct {
	AmbientTemp          float64 `yaml:"ambient_temp"`
	MaxTemp              float64 `yaml:"max_temp"`
	HeatTransfer         float64 `yaml:"heat_transfer"`
	CoolingRate          float64 `yaml:"cooling_rate"`
	SmokeDecay           float64 `yaml:"smoke_decay"`
	SmokeBlend           float64 `yaml:"smoke_blend"`
	SmokeWallLeak        float64 `yaml:"smoke_wall_leak"`
	SmokeRiseRate        float64 `yaml:"smoke_rise_rate"`
	SmokeRiseDamping     float64 `yaml:"smoke_rise_damping"`
	VerticalConductivity float64 `yaml:"vertical_conductivity"`
	DiffusionRate        float64 `yaml:"diffusion_rate"` // accepted for compatibility, unused
	WallFailureTemp      float64 `yaml:"wall_failure_temp"`
	WallDecayRate        float64 `yaml:"wall_decay_rate"`
	WallCollapseHeat     float64 `yaml:"wall_collapse_heat"`
	WallConduction       float64 `yaml:"wall_conduction"`
	WallCooling          float64 `yaml:"wall_cooling"`
}

// CombustionConfig holds fuel ignition and burn parameters.
type CombustionConfig struct {
	IgnitionTemp          float64 `yaml:"ignition_temp"`
	CertainIgnitionFactor float64 `yaml:"certain_ignition_factor"`
	IgnitionChance        float64 `yaml:"ignition_chance"`
	OnsetFireGain         float64 `yaml:"onset_fire_gain"`
	OnsetHeat             float64 `yaml:"onset_heat"`
	OnsetFuelBurn         float64 `yaml:"onset_fuel_burn"`
	OnsetSmoke            float64 `yaml:"onset_smoke"`
	SustainHeat           float64 `yaml:"sustain_heat"`
	SustainFuelBurn       float64 `yaml:"sustain_fuel_burn"`
	SustainSmoke          float64 `yaml:"sustain_smoke"`
	EmberDecay            float64 `yaml:"ember_decay"`
}

// IgnitionConfig holds the parameters of user-driven ignition.
type IgnitionConfig struct {
	Temperature    float64 `yaml:"temperature"`
	MinFuel        float64 `yaml:"min_fuel"`
	ChimneyFire    float64 `yaml:"chimney_fire"` // re-ignition above this fire level breaches the ceiling
	ChimneyTemp    float64 `yaml:"chimney_temp"`
	Superheat      float64 `yaml:"superheat"`
	SuperheatSmoke float64 `yaml:"superheat_smoke"`
}

// WindConfig is accepted for compatibility; the transition rule ignores it.
type WindConfig struct {
	Speed     float64 `yaml:"speed"`
	Direction float64 `yaml:"direction"` // degrees, 0-360
}

// EngineConfig holds execution settings.
type EngineConfig struct {
	Workers int `yaml:"workers"` // 0 = GOMAXPROCS, 1 = serial
}

// TelemetryConfig holds statistics and history parameters.
type TelemetryConfig struct {
	StatsInterval     int     `yaml:"stats_interval"`
	HistorySize       int     `yaml:"history_size"`
	DangerFireWeight  float64 `yaml:"danger_fire_weight"`
	DangerSmokeWeight float64 `yaml:"danger_smoke_weight"`
	CriticalDanger    float64 `yaml:"critical_danger"`
	PerfWindow        int     `yaml:"perf_window"`
}

// DetectorsConfig holds simulated smoke/heat detector placement and thresholds.
type DetectorsConfig struct {
	Enabled        bool    `yaml:"enabled"`
	Spacing        int     `yaml:"spacing"`
	SmokeThreshold float64 `yaml:"smoke_threshold"`
	HeatThreshold  float64 `yaml:"heat_threshold"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	CertainIgnitionTemp float64 // Combustion.IgnitionTemp * CertainIgnitionFactor
	Workers             int     // Engine.Workers resolved against GOMAXPROCS
	CellsPerFloor       int
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// validate rejects configurations the engine cannot run with.
func (c *Config) validate() error {
	b := c.Building
	if b.Width < 3 || b.Height < 3 {
		return fmt.Errorf("building must be at least 3x3, got %dx%d", b.Width, b.Height)
	}
	if b.Floors < 1 {
		return fmt.Errorf("building needs at least one floor, got %d", b.Floors)
	}
	if c.Layout.CorridorPeriodX <= 0 || c.Layout.CorridorPeriodY <= 0 {
		return fmt.Errorf("corridor periods must be positive")
	}
	if c.Layout.FuelMax < c.Layout.FuelMin {
		return fmt.Errorf("layout.fuel_max (%v) below fuel_min (%v)", c.Layout.FuelMax, c.Layout.FuelMin)
	}
	if c.Physics.MaxTemp <= c.Physics.AmbientTemp {
		return fmt.Errorf("physics.max_temp must exceed ambient_temp")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.CertainIgnitionTemp = c.Combustion.IgnitionTemp * c.Combustion.CertainIgnitionFactor
	c.Derived.CellsPerFloor = c.Building.Width * c.Building.Height

	workers := c.Engine.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	c.Derived.Workers = workers

	c.Layout.WallChance = clamp01(c.Layout.WallChance)
	c.Layout.FuelChance = clamp01(c.Layout.FuelChance)
	c.Combustion.IgnitionChance = clamp01(c.Combustion.IgnitionChance)

	if c.Telemetry.StatsInterval < 1 {
		c.Telemetry.StatsInterval = 1
	}
	if c.Telemetry.HistorySize < 1 {
		c.Telemetry.HistorySize = 1
	}
	if c.Detectors.Spacing < 1 {
		c.Detectors.Spacing = 1
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// YAML returns the configuration encoded as YAML.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}
