package sat

// Rephasing periodically resets the decision-time phase preferences to the
// best full phase assignment observed so far, where "best" means the deepest
// propagation fixpoint reached since the last rephase. This pulls the search
// back towards the most promising region it has seen instead of letting
// phase saving drift with every backtrack.

const rephaseInterval = 10000

// snapshotBestPhases records the current assignment as the best phase
// assignment seen so far. Unassigned variables keep their previous best.
func (s *Solver) snapshotBestPhases() {
	s.bestTrail = s.NumAssigns()
	for _, l := range s.trail {
		s.bestPhases[l.VarID()] = Lift(l.IsPositive())
	}
}

func (s *Solver) maybeRephase() {
	if !s.rephasing || s.TotalConflicts < s.nextRephase {
		return
	}
	copy(s.phases, s.bestPhases)
	s.bestTrail = 0
	s.nextRephase = s.TotalConflicts + rephaseInterval
}
