// Package ingest builds the evaluation set from the patch dataset and the
// model-output stream. Both the metrics and hit-set commands consume it, so
// ingestion semantics cannot drift between them.
package ingest

import (
	"bufio"
	"os"
	"strings"

	"github.com/bugloc/bugloc/internal/pkg/errors"
)

// Patch texts can be large, so give the scanner plenty of headroom.
const maxLineSize = 16 * 1024 * 1024

// scanJSONL calls fn for each non-blank line of a JSON-lines file with its
// 1-based line number. fn errors abort the scan.
func scanJSONL(path string, fn func(line int, data []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(errors.CodeNotFound, "opening "+path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	ln := 0
	for scanner.Scan() {
		ln++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := fn(ln, []byte(line)); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.BadInputError("reading "+path, err)
	}
	return nil
}
