package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/flowlines/config"
)

// csvFile appends gocsv rows to one file, writing the header only once.
type csvFile struct {
	name   string
	f      *os.File
	header bool
}

func createCSV(dir, name string) (*csvFile, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvFile{name: name, f: f}, nil
}

func appendRows[T any](c *csvFile, rows []T) error {
	var err error
	if c.header {
		err = gocsv.MarshalWithoutHeaders(rows, c.f)
	} else {
		err = gocsv.Marshal(rows, c.f)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", c.name, err)
	}
	c.header = true
	return nil
}

// OutputManager handles structured run output: window stats, perf stats
// and the end-of-run trail summary as CSV, plus a config snapshot.
type OutputManager struct {
	dir       string
	telemetry *csvFile
	perf      *csvFile
	trails    *csvFile
}

// NewOutputManager creates the output directory and its CSV files.
// Returns nil if dir is empty (output disabled); every method is a no-op on
// a nil manager.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	for _, f := range []struct {
		dst  **csvFile
		name string
	}{
		{&om.telemetry, "telemetry.csv"},
		{&om.perf, "perf.csv"},
		{&om.trails, "trails.csv"},
	} {
		c, err := createCSV(dir, f.name)
		if err != nil {
			om.Close()
			return nil, err
		}
		*f.dst = c
	}

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry appends a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return appendRows(om.telemetry, []WindowStats{stats})
}

// WritePerf appends a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int) error {
	if om == nil {
		return nil
	}
	return appendRows(om.perf, []PerfStatsCSV{stats.ToCSV(windowEnd)})
}

// WriteTrails writes one row per trail to trails.csv. It is meant to be
// called once, at the end of a run.
func (om *OutputManager) WriteTrails(records []TrailRecord) error {
	if om == nil || len(records) == 0 {
		return nil
	}
	return appendRows(om.trails, records)
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var errs []error
	for _, c := range []*csvFile{om.telemetry, om.perf, om.trails} {
		if c != nil {
			errs = append(errs, c.f.Close())
		}
	}
	return errors.Join(errs...)
}
