package sat

// Propagate applies unit propagation until fixpoint or until a conflict is
// found, in which case the conflicting clause is returned. Literals are
// consumed from the trail in assignment order; the watch list of each
// falsified literal is scanned with the two-watched-literal rule. This is the
// solver's hottest loop.
func (s *Solver) Propagate() *Clause {
	for s.propHead < len(s.trail) {
		l := s.trail[s.propHead]
		s.propHead++
		s.TotalPropagations++

		s.tmpWatchers = s.tmpWatchers[:0]
		s.tmpWatchers = append(s.tmpWatchers, s.watchers[l]...)
		s.watchers[l] = s.watchers[l][:0]

		for i, w := range s.tmpWatchers {
			// No need to propagate the clause if its guard is true. This
			// block is not necessary for propagation to behave properly.
			// However, it helps to significantly speed-up computation by
			// avoiding loading clauses (in memory) that do not need to be
			// propagated. Note that this alters the order in which clauses
			// are propagated and can thus yield different conflict analysis
			// and learnt clauses.
			if s.LitValue(w.guard) == True {
				s.watchers[l] = append(s.watchers[l], w)
				continue
			}

			if w.clause.Propagate(s, l) {
				continue
			}

			// Clause is conflicting, copy the remaining watchers and return
			// it. The unconsumed part of the trail is left as is: the caller
			// either backtracks (which rewinds the propagation head) or
			// aborts the search.
			s.watchers[l] = append(s.watchers[l], s.tmpWatchers[i+1:]...)
			return s.tmpWatchers[i].clause
		}
	}

	return nil
}
