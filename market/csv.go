package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// LoadCSV reads rows of
//
//	time,price[,volume][,signal]
//
// where time is RFC3339 or YYYY-MM-DD. A header row ("time,...") is allowed
// and blank rows are skipped. Signals is nil unless the file has a fourth
// column.
func LoadCSV(path, instrument string) (*Series, []int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	s, sig, err := ReadCSV(f, instrument)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, sig, nil
}

// ReadCSV is LoadCSV over an io.Reader.
func ReadCSV(r io.Reader, instrument string) (*Series, []int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	s := &Series{Instrument: instrument}
	var (
		signals    []int
		hasVolume  bool
		hasSignals bool
		first      = true
	)

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}
		line, _ := cr.FieldPos(0)

		// Allow a single header row
		header := first && strings.EqualFold(strings.TrimSpace(row[0]), "time")
		first = false
		if header {
			continue
		}

		b, err := parseBarRow(row)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}

		if s.Len() == 0 {
			hasVolume = len(row) >= 3
			hasSignals = len(row) >= 4
		} else if (len(row) >= 3) != hasVolume || (len(row) >= 4) != hasSignals {
			return nil, nil, fmt.Errorf("line %d: expected %d columns", line, columns(hasVolume, hasSignals))
		}

		s.Times = append(s.Times, b.time)
		s.Prices = append(s.Prices, b.price)
		if hasVolume {
			s.Volumes = append(s.Volumes, b.volume)
		}
		if hasSignals {
			signals = append(signals, b.signal)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	return s, signals, nil
}

type bar struct {
	time   time.Time
	price  float64
	volume float64
	signal int
}

func parseBarRow(row []string) (bar, error) {
	var b bar
	if len(row) < 2 {
		return b, fmt.Errorf("need time and price, got %d fields", len(row))
	}

	t, err := parseTime(strings.TrimSpace(row[0]))
	if err != nil {
		return b, err
	}
	b.time = t

	b.price, err = strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
	if err != nil {
		return b, fmt.Errorf("bad price %q: %w", row[1], err)
	}

	if len(row) >= 3 {
		if v := strings.TrimSpace(row[2]); v != "" {
			b.volume, err = strconv.ParseFloat(v, 64)
			if err != nil {
				return b, fmt.Errorf("bad volume %q: %w", row[2], err)
			}
		}
	}

	if len(row) >= 4 {
		b.signal, err = strconv.Atoi(strings.TrimSpace(row[3]))
		if err != nil {
			return b, fmt.Errorf("bad signal %q: %w", row[3], err)
		}
	}
	return b, nil
}

// parseTime accepts RFC3339, RFC3339Nano or a bare date (UTC midnight).
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time")
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad time %q: want RFC3339 or %s", s, dateLayout)
	}
	return t, nil
}

func columns(volume, signals bool) int {
	switch {
	case signals:
		return 4
	case volume:
		return 3
	}
	return 2
}
