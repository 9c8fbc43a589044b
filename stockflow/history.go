package stockflow

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/sarchlab/stockflow/sim"
)

// Names returns the quantity names in declaration order.
func (m *Model) Names() []string {
	names := make([]string, 0, len(m.order))
	for _, q := range m.order {
		names = append(names, q.name)
	}

	return names
}

// FlagNames returns the flag names in declaration order.
func (m *Model) FlagNames() []string {
	return append([]string(nil), m.flagOrder...)
}

// Now returns the latest evaluated time. It is 0 before the first
// evaluation.
func (m *Model) Now() sim.VTime {
	if m.latest < 0 {
		return 0
	}

	return m.timeOf(m.latest)
}

// Value returns the value of a quantity at the latest evaluated time.
func (m *Model) Value(name string) (float64, error) {
	return m.Read(name, m.Now())
}

// Times returns every evaluated time, from 0 to the latest.
func (m *Model) Times() []sim.VTime {
	times := make([]sim.VTime, 0, m.latest+1)
	for idx := int64(0); idx <= m.latest; idx++ {
		times = append(times, m.timeOf(idx))
	}

	return times
}

// Series returns the values of a quantity from time 0 to the latest
// evaluated time.
func (m *Model) Series(name string) ([]float64, error) {
	q, ok := m.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: quantity %q", sim.ErrLookup, name)
	}

	series := make([]float64, 0, m.latest+1)
	for idx := int64(0); idx <= m.latest; idx++ {
		series = append(series, q.values[idx])
	}

	return series, nil
}

// Snapshot returns the values of every quantity at the latest evaluated time.
func (m *Model) Snapshot() map[string]float64 {
	snapshot := make(map[string]float64, len(m.order))
	for _, q := range m.order {
		if v, ok := q.values[m.latest]; ok {
			snapshot[q.name] = v
		}
	}

	return snapshot
}

// WriteCSV writes the history as a table with one row per step and one
// column per quantity, in declaration order.
func (m *Model) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	header := append([]string{"t"}, m.Names()...)
	if err := writer.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for idx := int64(0); idx <= m.latest; idx++ {
		row[0] = formatFloat(float64(m.timeOf(idx)))

		for i, q := range m.order {
			v, ok := q.values[idx]
			if !ok {
				row[i+1] = ""
				continue
			}

			row[i+1] = formatFloat(v)
		}

		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()

	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
