package ingest

import (
	"encoding/json"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bugloc/bugloc/internal/pkg/errors"
	"github.com/bugloc/bugloc/internal/pkg/logger"
)

// FoundFilesKind tags the shape the found-files field arrived in.
type FoundFilesKind int

const (
	FoundAbsent FoundFilesKind = iota
	FoundFlat                  // ["a.py", "b.py"]
	FoundNested                // [["a.py"], ["b.py", "c.py"]]
	FoundText                  // "a.py"
)

// FoundFiles is the model's structured prediction field. The field shape
// varies between runs, so it is resolved into an explicit variant once at
// decode time; all later code sees only the flattened ranked list.
type FoundFiles struct {
	Kind  FoundFilesKind
	Paths []string
}

// UnmarshalJSON resolves the field's shape. Elements that are neither
// strings nor string lists are dropped, never an error.
func (f *FoundFiles) UnmarshalJSON(data []byte) error {
	*f = FoundFiles{Kind: FoundAbsent}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		f.Kind = FoundText
		f.Paths = []string{single}
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}

	f.Kind = FoundFlat
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			f.Paths = append(f.Paths, s)
			continue
		}
		var nested []string
		if err := json.Unmarshal(item, &nested); err == nil {
			f.Kind = FoundNested
			f.Paths = append(f.Paths, nested...)
		}
	}
	return nil
}

// Empty reports whether no paths survived flattening. This covers absent
// fields as well as [] and [[]].
func (f FoundFiles) Empty() bool {
	return len(f.Paths) == 0
}

// Narrative is the model's free-text output field. Non-string entries are
// dropped at decode time.
type Narrative []string

// UnmarshalJSON accepts a list of mixed-type values and keeps the strings.
func (n *Narrative) UnmarshalJSON(data []byte) error {
	*n = nil

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			*n = append(*n, s)
		}
	}
	return nil
}

// ModelRecord is one line of a model-output JSONL file.
type ModelRecord struct {
	InstanceID string     `json:"instance_id"`
	FoundFiles FoundFiles `json:"found_files"`
	RawOutput  Narrative  `json:"raw_output_loc"`
}

var fencedBlockRe = regexp.MustCompile("(?s)```(.*?)```")

// Normalizer turns a model record into a ranked, deduplicated file list.
type Normalizer struct {
	lineRe *regexp.Regexp
}

// NewNormalizer creates a normalizer for paths ending in the given source
// extension (".py", ".java", ...).
func NewNormalizer(ext string) *Normalizer {
	return &Normalizer{
		lineRe: regexp.MustCompile(`^(.+?` + regexp.QuoteMeta(ext) + `)\b`),
	}
}

// Normalize returns the record's ranked file list, most-confident first,
// first occurrence winning. The structured field is preferred; only when it
// is absent or empty does the narrative fallback run.
func (n *Normalizer) Normalize(rec *ModelRecord) []string {
	paths := rec.FoundFiles.Paths
	if rec.FoundFiles.Empty() {
		paths = n.parseNarrative(rec.RawOutput)
	}
	return dedup(paths)
}

// parseNarrative is a best-effort heuristic: it pulls file paths out of
// fenced text blocks by matching lines that start with a path ending in the
// source extension, e.g. `astropy/io/ascii/rst.py:RST`. It may miss or
// misparse paths; it never fails on malformed input.
func (n *Normalizer) parseNarrative(narrative Narrative) []string {
	if len(narrative) == 0 {
		return nil
	}
	text := strings.Join(narrative, "\n")

	var files []string
	for _, block := range fencedBlockRe.FindAllStringSubmatch(text, -1) {
		for _, line := range strings.Split(block[1], "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if m := n.lineRe.FindStringSubmatch(line); m != nil {
				files = append(files, m[1])
			}
		}
	}
	return files
}

func dedup(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// LoadResults reads every model-output file matching the glob pattern and
// maps bug ID to its normalized ranked file list. No matching file is fatal.
// A malformed JSON line is fatal and names the file and line number.
func LoadResults(pattern string, norm *Normalizer, log *logger.Logger) (map[string][]string, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.BadInputError("bad glob pattern", err)
	}
	if len(paths) == 0 {
		return nil, errors.NoMatchError(pattern)
	}

	results := make(map[string][]string)
	for _, p := range paths {
		log.WithPath(p).Info("reading model output")

		err := scanJSONL(p, func(ln int, data []byte) error {
			var rec ModelRecord
			if err := json.Unmarshal(data, &rec); err != nil {
				return errors.ParseError(p, ln, err)
			}

			id := strings.TrimSpace(rec.InstanceID)
			if id == "" {
				return nil
			}
			files := norm.Normalize(&rec)
			if rec.FoundFiles.Empty() {
				log.Debug("structured field empty, used narrative fallback",
					"instance_id", id, "files", len(files))
			}
			results[id] = files
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
