package store

import (
	"encoding/json"
	"io"
	"os"
)

// ExportData is the JSON shape of an exported run.
type ExportData struct {
	Station string             `json:"station"`
	Dt      float64            `json:"dt"`
	Ticks   int                `json:"ticks"`
	Columns []string           `json:"columns"`
	Times   []float64          `json:"times"`
	Values  [][]float64        `json:"values"`
	Colors  []string           `json:"mixer_colors"`
	Metrics map[string]float64 `json:"metrics"`
}

func buildExport(meta *RunMetadata, table *TickTable) ExportData {
	return ExportData{
		Station: meta.Station,
		Dt:      meta.Dt,
		Ticks:   meta.Ticks,
		Columns: table.Columns,
		Times:   table.Times,
		Values:  table.Values,
		Colors:  table.Colors,
		Metrics: meta.Metrics,
	}
}

// ExportJSON writes a saved run as indented JSON.
func ExportJSON(w io.Writer, meta *RunMetadata, table *TickTable) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildExport(meta, table))
}

// ExportJSONFile writes a saved run as indented JSON to a file.
func ExportJSONFile(path string, meta *RunMetadata, table *TickTable) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, meta, table)
}
