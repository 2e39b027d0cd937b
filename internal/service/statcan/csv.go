package statcan

import (
	"encoding/csv"
	"fmt"
	"io"

	"PriceTrack/internal/domain/models"
	"PriceTrack/pkg/util"
)

// Columns read from the table; everything else in the CSV is ignored.
const (
	colRefDate = "REF_DATE"
	colGeo     = "GEO"
	colProduct = "Products"
	colVector  = "VECTOR"
	colValue   = "VALUE"
)

// ParseObservations streams observations out of a StatCan full-table
// CSV, emitting them in batches of batchSize. It returns the number of
// data rows read. Rows with an empty VALUE become observations with a
// nil value; they are kept, since a missing value still terminates a
// streak downstream.
func ParseObservations(r io.Reader, batchSize int, emit func([]models.Observation) error) (int, error) {
	if batchSize <= 0 {
		batchSize = 1000
	}

	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return 0, fmt.Errorf("read csv header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		// the first header cell may carry a UTF-8 BOM
		if i == 0 {
			name = trimBOM(name)
		}
		idx[name] = i
	}
	for _, required := range []string{colRefDate, colGeo, colProduct, colValue} {
		if _, ok := idx[required]; !ok {
			return 0, fmt.Errorf("csv missing column %q", required)
		}
	}

	at := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var (
		read  int
		batch = make([]models.Observation, 0, batchSize)
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return read, fmt.Errorf("read csv row: %w", err)
		}
		read++

		batch = append(batch, models.Observation{
			RefDate: at(rec, colRefDate),
			Geo:     at(rec, colGeo),
			Product: at(rec, colProduct),
			Vector:  at(rec, colVector),
			Value:   util.ParseFloat64Ptr(at(rec, colValue)),
		})

		if len(batch) >= batchSize {
			if err := emit(batch); err != nil {
				return read, err
			}
			batch = make([]models.Observation, 0, batchSize)
		}
	}

	if len(batch) > 0 {
		if err := emit(batch); err != nil {
			return read, err
		}
	}
	return read, nil
}

func trimBOM(s string) string {
	const bom = "\uFEFF"
	if len(s) >= len(bom) && s[:len(bom)] == bom {
		return s[len(bom):]
	}
	return s
}
