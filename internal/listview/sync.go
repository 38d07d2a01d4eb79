package listview

// Synchronizer moves list params between state and a History.
// Both directions are guarded by equality so neither can trigger the other.
type Synchronizer struct {
	hist History
}

func NewSynchronizer(h History) *Synchronizer {
	return &Synchronizer{hist: h}
}

// Read parses the current history entry.
func (s *Synchronizer) Read() Params {
	return ParseQuery(s.hist.Location())
}

// Push appends p to history unless the current entry already encodes it.
func (s *Synchronizer) Push(p Params) bool {
	if s.Read() == p {
		return false
	}
	s.hist.Push(p.Encode())
	return true
}

// Changed returns the URL params when they differ from current.
func (s *Synchronizer) Changed(current Params) (Params, bool) {
	next := s.Read()
	if next == current {
		return current, false
	}
	return next, true
}
