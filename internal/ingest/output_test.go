package ingest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/bugloc/bugloc/internal/pkg/errors"
	"github.com/bugloc/bugloc/internal/pkg/logger"
)

func TestFoundFiles_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantKind  FoundFilesKind
		wantPaths []string
	}{
		{
			name:      "flat list",
			input:     `["a.py", "b.py"]`,
			wantKind:  FoundFlat,
			wantPaths: []string{"a.py", "b.py"},
		},
		{
			name:      "nested list",
			input:     `[["a.py"], ["b.py", "c.py"]]`,
			wantKind:  FoundNested,
			wantPaths: []string{"a.py", "b.py", "c.py"},
		},
		{
			name:      "mixed list",
			input:     `["a.py", ["b.py"]]`,
			wantKind:  FoundNested,
			wantPaths: []string{"a.py", "b.py"},
		},
		{
			name:      "plain string",
			input:     `"a.py"`,
			wantKind:  FoundText,
			wantPaths: []string{"a.py"},
		},
		{
			name:      "null",
			input:     `null`,
			wantKind:  FoundAbsent,
			wantPaths: nil,
		},
		{
			name:      "empty list",
			input:     `[]`,
			wantKind:  FoundFlat,
			wantPaths: nil,
		},
		{
			name:      "list of empty list",
			input:     `[[]]`,
			wantKind:  FoundNested,
			wantPaths: nil,
		},
		{
			name:      "junk elements dropped",
			input:     `[42, "a.py", {"x": 1}]`,
			wantKind:  FoundFlat,
			wantPaths: []string{"a.py"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FoundFiles
			if err := json.Unmarshal([]byte(tt.input), &f); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if f.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", f.Kind, tt.wantKind)
			}
			if !reflect.DeepEqual(f.Paths, tt.wantPaths) {
				t.Errorf("Paths = %v, want %v", f.Paths, tt.wantPaths)
			}
		})
	}
}

func TestNormalize_PrefersStructuredField(t *testing.T) {
	norm := NewNormalizer(".py")

	var rec ModelRecord
	input := `{
		"instance_id": "astropy-1",
		"found_files": ["a.py", "b.py", "a.py"],
		"raw_output_loc": ["` + "```" + `\nc.py\n` + "```" + `"]
	}`
	if err := json.Unmarshal([]byte(input), &rec); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	got := norm.Normalize(&rec)
	want := []string{"a.py", "b.py"} // deduped, narrative ignored
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() = %v, want %v", got, want)
	}
}

func TestNormalize_NarrativeFallback(t *testing.T) {
	norm := NewNormalizer(".py")

	tests := []struct {
		name      string
		narrative Narrative
		want      []string
	}{
		{
			name: "paths with trailing symbols",
			narrative: Narrative{"The fix belongs in:\n```\n" +
				"astropy/io/ascii/rst.py:RST\n" +
				"astropy/io/ascii/fixedwidth.py:FixedWidthData.write\n" +
				"```"},
			want: []string{"astropy/io/ascii/rst.py", "astropy/io/ascii/fixedwidth.py"},
		},
		{
			name:      "no fenced block",
			narrative: Narrative{"look at astropy/io/ascii/rst.py"},
			want:      nil,
		},
		{
			name:      "fenced block without matching lines",
			narrative: Narrative{"```\njust prose, no paths\n```"},
			want:      nil,
		},
		{
			name:      "empty narrative",
			narrative: nil,
			want:      nil,
		},
		{
			name:      "duplicate paths first occurrence wins",
			narrative: Narrative{"```\na.py:1\nb.py\na.py:2\n```"},
			want:      []string{"a.py", "b.py"},
		},
		{
			name:      "multiple blocks",
			narrative: Narrative{"```\na.py\n```\nmore prose\n```\nb.py\n```"},
			want:      []string{"a.py", "b.py"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &ModelRecord{RawOutput: tt.narrative}
			got := norm.Normalize(rec)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalize_CustomExtension(t *testing.T) {
	norm := NewNormalizer(".java")

	rec := &ModelRecord{RawOutput: Narrative{"```\nsrc/Main.java:Main\nignored.py\n```"}}
	got := norm.Normalize(rec)
	want := []string{"src/Main.java"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() = %v, want %v", got, want)
	}
}

func TestNarrative_UnmarshalDropsNonStrings(t *testing.T) {
	var n Narrative
	if err := json.Unmarshal([]byte(`["text", 42, null, "more"]`), &n); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	want := Narrative{"text", "more"}
	if !reflect.DeepEqual(n, want) {
		t.Errorf("Narrative = %v, want %v", n, want)
	}
}

func TestLoadResults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loc_outputs.jsonl")
	content := `{"instance_id": "astropy-1", "found_files": ["a.py"]}
{"instance_id": "astropy-2", "found_files": [], "raw_output_loc": ["` + "```" + `\nb.py:cls\n` + "```" + `"]}

{"instance_id": "  astropy-3  ", "found_files": [["c.py"]]}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	results, err := LoadResults(path, NewNormalizer(".py"), logger.New("error", "text"))
	if err != nil {
		t.Fatalf("LoadResults() error = %v", err)
	}

	want := map[string][]string{
		"astropy-1": {"a.py"},
		"astropy-2": {"b.py"},
		"astropy-3": {"c.py"},
	}
	if !reflect.DeepEqual(results, want) {
		t.Errorf("LoadResults() = %v, want %v", results, want)
	}
}

func TestLoadResults_NoMatch(t *testing.T) {
	pattern := filepath.Join(t.TempDir(), "missing", "*.jsonl")

	_, err := LoadResults(pattern, NewNormalizer(".py"), logger.New("error", "text"))
	if !errors.IsNotFound(err) {
		t.Fatalf("LoadResults() error = %v, want not found", err)
	}
	if !strings.Contains(err.Error(), pattern) {
		t.Errorf("error should name the pattern, got: %v", err)
	}
}

func TestLoadResults_MalformedLineIsFatal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loc_outputs.jsonl")
	content := `{"instance_id": "astropy-1", "found_files": ["a.py"]}
{not json`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := LoadResults(path, NewNormalizer(".py"), logger.New("error", "text"))
	if !errors.IsParse(err) {
		t.Fatalf("LoadResults() error = %v, want parse error", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error should name line 2, got: %v", err)
	}
}
