package storage

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
)

// Sample is one frame of engine telemetry.
type Sample struct {
	Frame   uint64
	Time    float64
	Metrics map[string]float64
}

// WriteTelemetry writes samples as CSV with one column per metric, sorted
// by name.
func WriteTelemetry(w io.Writer, samples []Sample) error {
	cw := csv.NewWriter(w)

	var names []string
	if len(samples) > 0 {
		for name := range samples[0].Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	header := append([]string{"frame", "time"}, names...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, s := range samples {
		row := []string{
			strconv.FormatUint(s.Frame, 10),
			strconv.FormatFloat(s.Time, 'f', 6, 64),
		}
		for _, name := range names {
			row = append(row, strconv.FormatFloat(s.Metrics[name], 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
