package evaluation

import (
	"fmt"
	"io"
)

// AccuracyResult holds one threshold's hit count and fraction.
type AccuracyResult struct {
	Hits     int     `json:"hits"`
	Fraction float64 `json:"fraction"`
}

// Report aggregates metrics across the evaluation set.
type Report struct {
	TotalBugs  int                    `json:"total_bugs"`
	Thresholds []int                  `json:"thresholds"`
	Accuracy   map[int]AccuracyResult `json:"accuracy"` // Accuracy@K per threshold
	RankCutoff int                    `json:"rank_cutoff"`
	MRR        float64                `json:"mrr"`
	MAP        float64                `json:"map"`
}

// Evaluate computes Accuracy@K for each threshold plus MRR and MAP at the
// rank cutoff. The denominator for every metric is the full set size:
// bugs with empty suspicious lists are counted misses, never excluded.
func Evaluate(set *Set, thresholds []int, cutoff int) *Report {
	report := &Report{
		TotalBugs:  set.Len(),
		Thresholds: thresholds,
		Accuracy:   make(map[int]AccuracyResult),
		RankCutoff: cutoff,
	}

	if report.TotalBugs == 0 {
		return report
	}

	bugs := set.Bugs()
	total := float64(report.TotalBugs)

	for _, k := range thresholds {
		hits := 0
		for _, b := range bugs {
			if HitAtK(b, k) {
				hits++
			}
		}
		report.Accuracy[k] = AccuracyResult{
			Hits:     hits,
			Fraction: float64(hits) / total,
		}
	}

	inverseRank := 0.0
	for _, b := range bugs {
		inverseRank += ReciprocalRank(b, cutoff)
	}
	report.MRR = inverseRank / total

	totalAveragePrecision := 0.0
	for _, b := range bugs {
		totalAveragePrecision += AveragePrecision(b, cutoff)
	}
	report.MAP = totalAveragePrecision / total

	return report
}

// Write prints the human-readable report. An empty evaluation set prints
// the total line only.
func (r *Report) Write(w io.Writer) {
	fmt.Fprintf(w, "\nTotal Bugs Processed: %d\n", r.TotalBugs)
	if r.TotalBugs == 0 {
		return
	}

	for _, k := range r.Thresholds {
		acc := r.Accuracy[k]
		fmt.Fprintf(w, "Accuracy@%d: %d/%d = %.2f%%\n", k, acc.Hits, r.TotalBugs, acc.Fraction*100)
	}
	fmt.Fprintf(w, "MRR@%d: %.4f\n", r.RankCutoff, r.MRR)
	fmt.Fprintf(w, "MAP@%d: %.4f\n", r.RankCutoff, r.MAP)
}
