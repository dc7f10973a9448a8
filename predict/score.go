// Package predict holds the heuristic layer: switch forecasting, opponent
// move prediction, archetype classification and action recommendation, plus
// the orchestrator that folds them into one per-turn report. Everything is
// a pure function over a state snapshot and the knowledge base.
package predict

// Contribution is one named, weighted signal inside a score, kept so every
// number in a report can justify itself.
type Contribution struct {
	Signal string  `json:"signal"`
	Weight float64 `json:"weight"`
	Note   string  `json:"note,omitempty"`
}

// Score is the result of folding contributions over a base value.
type Score struct {
	Value float64        `json:"value"`
	Trail []Contribution `json:"trail,omitempty"`
}

// scorecard accumulates contributions in order. The fold is pure from the
// caller's perspective: build, add, done.
type scorecard struct {
	value float64
	trail []Contribution
}

func newScorecard(base float64, note string) *scorecard {
	s := &scorecard{value: base}
	if base != 0 || note != "" {
		s.trail = append(s.trail, Contribution{Signal: "base", Weight: base, Note: note})
	}
	return s
}

// add records a signal and moves the running value by its weight.
func (s *scorecard) add(signal string, weight float64, note string) {
	s.value += weight
	s.trail = append(s.trail, Contribution{Signal: signal, Weight: weight, Note: note})
}

func (s *scorecard) clamp(lo, hi float64) {
	if s.value < lo {
		s.value = lo
	}
	if s.value > hi {
		s.value = hi
	}
}

func (s *scorecard) done() Score {
	return Score{Value: s.value, Trail: s.trail}
}
