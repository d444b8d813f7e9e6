package zonal

import (
	"math"
	"sort"
	"strings"
)

// DefaultStatistics is the full set of recognized statistic names.
var DefaultStatistics = []string{"MIN", "MAX", "MEAN", "MEDIAN", "VARIANCE", "STDEV", "PERC90"}

// Stats computes the requested statistics over a flat list of values and
// returns them keyed by canonical lowercase name (min, max, mean, median,
// var, stdev, perc90). Names are case-insensitive and accept the aliases
// MINIMUM, MAXIMUM, AVERAGE, AVG, and VAR; unrecognized names are silently
// dropped, so the caller can detect them only by comparing the size of the
// result against the number of names requested.
//
// An empty input returns every requested key mapped to 0, not an empty map.
// Min, max, median, and perc90 sort values in place. The median is the
// value at 1-based rank round(0.5*n) and perc90 the value at rank
// ceil(0.9*n); neither interpolates between elements.
func Stats(values []float64, options []string) map[string]float64 {
	requested := make(map[string]bool, len(options))
	for _, opt := range options {
		requested[strings.ToUpper(opt)] = true
	}
	calculate := map[string]bool{
		"min":    requested["MIN"] || requested["MINIMUM"],
		"max":    requested["MAX"] || requested["MAXIMUM"],
		"mean":   requested["MEAN"] || requested["AVERAGE"] || requested["AVG"],
		"median": requested["MEDIAN"],
		"var":    requested["VAR"] || requested["VARIANCE"],
		"stdev":  requested["STDEV"],
		"perc90": requested["PERC90"],
	}

	stats := make(map[string]float64)
	for key, wanted := range calculate {
		if wanted {
			stats[key] = 0
		}
	}
	if len(values) == 0 {
		return stats
	}

	n := float64(len(values))

	// The mean is accumulated as running partial sums rather than one
	// division at the end; downstream consumers compare against outputs
	// produced this way, so the rounding behavior is part of the contract.
	var mean float64
	if calculate["mean"] || calculate["stdev"] || calculate["var"] {
		for _, v := range values {
			mean += v / n
		}
	}
	if calculate["mean"] {
		stats["mean"] = mean
	}

	if calculate["stdev"] || calculate["var"] {
		var variance float64
		for _, v := range values {
			d := v - mean
			variance += d * d / n
		}
		if calculate["var"] {
			stats["var"] = variance
		}
		if calculate["stdev"] {
			stats["stdev"] = math.Sqrt(variance)
		}
	}

	if calculate["min"] || calculate["max"] || calculate["median"] || calculate["perc90"] {
		sort.Float64s(values)
		if calculate["min"] {
			stats["min"] = values[0]
		}
		if calculate["max"] {
			stats["max"] = values[len(values)-1]
		}
		if calculate["median"] {
			stats["median"] = values[int(math.Round(0.5*n))-1]
		}
		if calculate["perc90"] {
			stats["perc90"] = values[int(math.Ceil(0.9*n))-1]
		}
	}
	return stats
}
