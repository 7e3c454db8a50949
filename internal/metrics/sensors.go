package metrics

import (
	"context"
	"fmt"
	"sort"
)

// Temperatures returns one "<sensor> <value>°C" entry per sensor with a reading
func (s *Source) Temperatures(ctx context.Context) ([]string, error) {
	temps, err := s.SensorTemps(ctx)
	// Partial results come back with a warnings error
	if err != nil && len(temps) == 0 {
		return nil, err
	}

	sort.SliceStable(temps, func(i, j int) bool {
		return temps[i].SensorKey < temps[j].SensorKey
	})

	readings := []string{}
	for _, t := range temps {
		if t.Temperature <= 0 {
			continue
		}
		readings = append(readings, FormatTemperature(t.SensorKey, t.Temperature))
	}
	return readings, nil
}

// FormatTemperature renders one sensor reading
func FormatTemperature(sensor string, celsius float64) string {
	return fmt.Sprintf("%s %.1f°C", sensor, celsius)
}
