package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/pyroflow/config"
)

// csvFile is an append-only CSV log whose header goes out with the first batch.
type csvFile struct {
	name   string
	f      *os.File
	header bool
}

// append marshals a slice of csv-tagged structs.
func (c *csvFile) append(records any) error {
	var err error
	if c.header {
		err = gocsv.MarshalWithoutHeaders(records, c.f)
	} else {
		err = gocsv.Marshal(records, c.f)
		c.header = err == nil
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", c.name, err)
	}
	return nil
}

// OutputManager writes a run's CSV logs and config snapshot into one
// directory. A nil *OutputManager is valid and discards everything.
type OutputManager struct {
	dir string

	telemetry *csvFile // building totals, one row per sample
	floors    *csvFile // one row per floor per sample
	perf      *csvFile
	events    *csvFile
}

// NewOutputManager creates dir and the CSV files inside it.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	for _, dst := range []struct {
		name string
		file **csvFile
	}{
		{"telemetry.csv", &om.telemetry},
		{"floors.csv", &om.floors},
		{"perf.csv", &om.perf},
		{"events.csv", &om.events},
	} {
		fh, err := os.Create(filepath.Join(dir, dst.name))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", dst.name, err)
		}
		*dst.file = &csvFile{name: dst.name, f: fh}
	}
	return om, nil
}

// WriteConfig saves cfg as config.yaml.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// FloorStatsCSV is one row of floors.csv.
type FloorStatsCSV struct {
	Tick int32 `csv:"tick"`
	FloorStats
}

// WriteTelemetry appends the building totals and each floor's stats.
func (om *OutputManager) WriteTelemetry(stats Stats) error {
	if om == nil {
		return nil
	}
	if err := om.telemetry.append([]Stats{stats}); err != nil {
		return err
	}
	if len(stats.Floors) == 0 {
		return nil
	}

	rows := make([]FloorStatsCSV, len(stats.Floors))
	for i, fs := range stats.Floors {
		rows[i] = FloorStatsCSV{Tick: stats.Tick, FloorStats: fs}
	}
	return om.floors.append(rows)
}

// WritePerf appends the perf window summary taken at tick.
func (om *OutputManager) WritePerf(stats PerfStats, tick int32) error {
	if om == nil {
		return nil
	}
	return om.perf.append([]PerfStatsCSV{stats.ToCSV(tick)})
}

// WriteEvent appends an event.
func (om *OutputManager) WriteEvent(e Event) error {
	if om == nil {
		return nil
	}
	return om.events.append([]Event{e})
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes every file and returns the first error.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, c := range []*csvFile{om.telemetry, om.floors, om.perf, om.events} {
		if c == nil {
			continue
		}
		if err := c.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
