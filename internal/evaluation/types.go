package evaluation

// BugRecord holds one bug's ranked prediction and ground truth.
type BugRecord struct {
	ID              string   `json:"id"`
	SuspiciousFiles []string `json:"suspicious_files"` // ranked, most-confident first; may be empty
	FixedFiles      []string `json:"fixed_files"`      // patch-derived ground truth, sorted

	fixed map[string]struct{}
}

// NewBugRecord creates a bug record and indexes its ground truth.
func NewBugRecord(id string, suspicious, fixed []string) *BugRecord {
	idx := make(map[string]struct{}, len(fixed))
	for _, f := range fixed {
		idx[f] = struct{}{}
	}
	return &BugRecord{
		ID:              id,
		SuspiciousFiles: suspicious,
		FixedFiles:      fixed,
		fixed:           idx,
	}
}

// IsFixed reports whether path is one of the bug's ground-truth files.
func (b *BugRecord) IsFixed(path string) bool {
	_, ok := b.fixed[path]
	return ok
}

// Set is an insertion-ordered collection of bug records. Hit-set export
// order is defined as set iteration order, so order must survive a Go map.
type Set struct {
	bugs  map[string]*BugRecord
	order []string
}

// NewSet creates an empty evaluation set.
func NewSet() *Set {
	return &Set{bugs: make(map[string]*BugRecord)}
}

// Add inserts a record. A record with an ID already present replaces the
// existing one without changing its position.
func (s *Set) Add(rec *BugRecord) {
	if _, ok := s.bugs[rec.ID]; !ok {
		s.order = append(s.order, rec.ID)
	}
	s.bugs[rec.ID] = rec
}

// Get returns the record for an ID.
func (s *Set) Get(id string) (*BugRecord, bool) {
	rec, ok := s.bugs[id]
	return rec, ok
}

// Len returns the number of records.
func (s *Set) Len() int {
	return len(s.order)
}

// Bugs returns all records in insertion order.
func (s *Set) Bugs() []*BugRecord {
	out := make([]*BugRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.bugs[id])
	}
	return out
}
