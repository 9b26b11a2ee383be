package ingest

import (
	"encoding/json"
	"strings"

	"github.com/bugloc/bugloc/internal/evaluation"
	"github.com/bugloc/bugloc/internal/pkg/errors"
)

// PatchRecord is one bug of the external dataset: an identifier plus the
// unified diff of its ground-truth fix.
type PatchRecord struct {
	InstanceID string `json:"instance_id"`
	Patch      string `json:"patch"`
}

// ReadDataset loads the patch dataset from a JSONL file.
func ReadDataset(path string) ([]PatchRecord, error) {
	var records []PatchRecord
	err := scanJSONL(path, func(ln int, data []byte) error {
		var rec PatchRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return errors.ParseError(path, ln, err)
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// BuildStats tallies what happened while building the evaluation set.
type BuildStats struct {
	Built         int // bugs that entered the set
	SkippedNoFix  int // patches with no extractable fixed files
	MissingResult int // bugs with no prediction in the model output
}

// BuildSet assembles the evaluation set from the dataset and the model
// results. Bugs whose patch yields no fixed files are excluded entirely;
// bugs absent from the results enter with an empty suspicious list so they
// count against every denominator.
func BuildSet(dataset []PatchRecord, results map[string][]string) (*evaluation.Set, BuildStats) {
	set := evaluation.NewSet()
	stats := BuildStats{}

	for _, rec := range dataset {
		id := strings.TrimSpace(rec.InstanceID)
		if id == "" {
			continue
		}

		fixed := FixedFiles(rec.Patch)
		if len(fixed) == 0 {
			stats.SkippedNoFix++
			continue
		}

		suspicious := results[id]
		if len(suspicious) == 0 {
			stats.MissingResult++
		}

		set.Add(evaluation.NewBugRecord(id, suspicious, fixed))
		stats.Built++
	}

	return set, stats
}
