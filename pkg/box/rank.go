package box

import (
	"fmt"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
)

// Metric scores a box. Lower is better.
type Metric func(Box) float64

// Metric names accepted by [MetricByName].
const (
	MetricDispersion = "dispersion"
	MetricSpaces     = "spaces"
)

var metrics = map[string]Metric{
	MetricDispersion: Dispersion,
	MetricSpaces:     SpaceCount,
}

// MetricByName returns the metric registered under name.
func MetricByName(name string) (Metric, error) {
	m, ok := metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric %q (must be one of: %s)", name, strings.Join(MetricNames(), ", "))
	}
	return m, nil
}

// MetricNames returns the registered metric names in sorted order.
func MetricNames() []string {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Rank returns the boxes that achieve the minimum score under metric, in
// their original order. Every box tied for the minimum is kept.
func Rank(boxes []Box, metric Metric) []Box {
	if len(boxes) == 0 {
		return nil
	}
	scores := make([]float64, len(boxes))
	best := 0
	for i, b := range boxes {
		scores[i] = metric(b)
		if scores[i] < scores[best] {
			best = i
		}
	}

	var out []Box
	for i, b := range boxes {
		if scores[i] == scores[best] {
			out = append(out, b)
		}
	}
	return out
}

// SpaceCount counts the space characters of all padded lines: padding and
// word separators alike.
func SpaceCount(b Box) float64 {
	n := 0
	for _, l := range b.lines {
		n += strings.Count(l.Text(), " ")
	}
	return float64(n)
}

// Dispersion is the sample variance of the number of non-space characters
// per line. Boxes with fewer than two lines have no dispersion.
func Dispersion(b Box) float64 {
	if len(b.lines) < 2 {
		return 0
	}
	counts := make(stats.Float64Data, len(b.lines))
	for i, l := range b.lines {
		counts[i] = float64(runeLen(strings.ReplaceAll(l.Text(), " ", "")))
	}
	v, err := stats.SampleVariance(counts)
	if err != nil {
		return 0
	}
	return v
}
