package sat

import "sort"

// ReduceDB deletes about half of the learnt clauses, keeping the ones most
// likely to be useful: low LBD first, high activity to break ties. Clauses
// that are currently the reason of an assignment (locked), glue clauses
// (LBD <= 2) and clauses protected by the last vivification pass are never
// deleted. Protection only lasts one reduction.
func (s *Solver) ReduceDB() {
	// Worst clauses first: highest LBD, then lowest activity.
	sort.Slice(s.learnts, func(i, j int) bool {
		ci, cj := s.learnts[i], s.learnts[j]
		if ci.lbd != cj.lbd {
			return ci.lbd > cj.lbd
		}
		return ci.activity < cj.activity
	})

	target := len(s.learnts) / 2
	j := 0
	for i, c := range s.learnts {
		keep := i >= target || c.lbd <= 2 || c.locked(s) || c.isProtected()
		if keep {
			c.setUnprotected()
			s.learnts[j] = c
			j++
		} else {
			c.Delete(s)
			s.TotalDeleted++
		}
	}
	s.learnts = s.learnts[:j]
}
