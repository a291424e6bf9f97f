// Package report serializes a completed run's metric records to JSON and
// CSV. It depends only on the tracker's query interface and the record
// schema {period, type, id, region, cohort, age_bracket, segment, value}.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/gc-ohds/expenditure-forecast/sim"
)

// csvHeader is the column order every CSV consumer of this model expects.
var csvHeader = []string{"period", "type", "id", "region", "cohort", "age_bracket", "segment", "value"}

// Results is the JSON document shape: run parameters plus the full
// normalized record list.
type Results struct {
	SimulationParams *sim.Summary      `json:"simulation_params"`
	Metrics          []sim.MetricRecord `json:"metrics"`
}

// WriteJSON writes the complete results document to path.
func WriteJSON(path string, summary *sim.Summary, records []sim.MetricRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Results{SimulationParams: summary, Metrics: records}); err != nil {
		return fmt.Errorf("encoding results to %s: %w", path, err)
	}
	logrus.Infof("wrote %d metric records to %s", len(records), path)
	return nil
}

// WriteCSV writes one CSV file per metric type present in records, named
// <prefix>_<type>.csv under dir. Returns the paths written.
func WriteCSV(dir, prefix string, records []sim.MetricRecord) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	byType := make(map[sim.MetricType][]sim.MetricRecord)
	var order []sim.MetricType
	for _, r := range records {
		if _, seen := byType[r.Type]; !seen {
			order = append(order, r.Type)
		}
		byType[r.Type] = append(byType[r.Type], r)
	}

	var paths []string
	for _, typ := range order {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.csv", prefix, typ))
		if err := writeCSVFile(path, byType[typ]); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	logrus.Infof("wrote %d CSV files to %s", len(paths), dir)
	return paths, nil
}

func writeCSVFile(path string, records []sim.MetricRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Period,
			string(r.Type),
			r.ID,
			r.Region,
			r.Cohort,
			r.AgeBracket,
			r.Segment,
			strconv.FormatFloat(r.Value, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
