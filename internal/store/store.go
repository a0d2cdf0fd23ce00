package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/paintsim/internal/sim"
	"github.com/san-kum/paintsim/internal/station"
)

// Store persists headless runs under a base directory, one subdirectory per
// run holding metadata.json and ticks.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Station   string             `json:"station"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Ticks     int                `json:"ticks"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a collected run and returns its run id.
func (s *Store) Save(stationName string, dt float64, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", stationName, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Station:   stationName,
		Timestamp: time.Now(),
		Dt:        dt,
		Ticks:     len(result.Records),
		Metrics:   result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "ticks.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if len(result.Records) == 0 {
		return runID, nil
	}

	header := []string{"time"}
	for _, ts := range result.Records[0].Snapshot.Tanks {
		header = append(header, ts.Name+"_level", ts.Name+"_flow")
	}
	header = append(header, "mixer_color", "overflow")
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, rec := range result.Records {
		row := []string{strconv.FormatFloat(rec.Time, 'f', 6, 64)}
		for _, ts := range rec.Snapshot.Tanks {
			row = append(row,
				strconv.FormatFloat(ts.Volume, 'f', 6, 64),
				strconv.FormatFloat(ts.Outflow, 'f', 6, 64),
			)
		}
		excess := 0.0
		for _, ov := range rec.Overflows {
			excess += ov.Excess
		}
		row = append(row, rec.Snapshot.Mixer().Color,
			strconv.FormatFloat(excess, 'f', 6, 64))
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// TickTable is the tabular tick history of a saved run. Values holds one
// row per tick with len(Columns) entries.
type TickTable struct {
	Columns []string
	Times   []float64
	Values  [][]float64
	Colors  []string // mixer display color per tick
}

// Series returns the values of one named column.
func (t *TickTable) Series(column string) ([]float64, bool) {
	for i, name := range t.Columns {
		if name != column {
			continue
		}
		out := make([]float64, len(t.Values))
		for j, row := range t.Values {
			out[j] = row[i]
		}
		return out, true
	}
	return nil, false
}

func (s *Store) LoadTicks(runID string) (*TickTable, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "ticks.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return &TickTable{}, nil
	}

	header := records[0]
	colorCol := -1
	numeric := make([]int, 0, len(header))
	columns := make([]string, 0, len(header))
	for i, name := range header {
		switch {
		case name == "time":
		case name == "mixer_color":
			colorCol = i
		default:
			numeric = append(numeric, i)
			columns = append(columns, name)
		}
	}

	table := &TickTable{Columns: columns}
	for _, record := range records[1:] {
		if len(record) != len(header) {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		row := make([]float64, 0, len(numeric))
		for _, i := range numeric {
			v, err := strconv.ParseFloat(record[i], 64)
			if err != nil {
				v = 0
			}
			row = append(row, v)
		}
		table.Times = append(table.Times, t)
		table.Values = append(table.Values, row)
		if colorCol >= 0 {
			table.Colors = append(table.Colors, record[colorCol])
		}
	}
	return table, nil
}

// LevelColumn names the saved level column for a tank.
func LevelColumn(tank string) string { return tank + "_level" }

// FlowColumn names the saved flow column for a tank.
func FlowColumn(tank string) string { return tank + "_flow" }

// MixerLevelColumn is the saved level column of the mixing tank.
var MixerLevelColumn = LevelColumn(station.MixerName)
