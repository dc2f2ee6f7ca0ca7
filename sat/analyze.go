package sat

// explain returns the antecedent literals of clause c: all its literals if c
// is the conflicting clause (l == -1), all but the propagated literal
// otherwise. Learnt antecedents are bumped as they participate in the
// analysis.
func (s *Solver) explain(c *Clause, l Literal) []Literal {
	if l == -1 {
		c.explainConflict(&s.tmpReason)
	} else {
		c.explainAssign(&s.tmpReason)
	}
	if c.isLearnt() {
		s.BumpClaActivity(c)
	}
	return s.tmpReason
}

// analyze derives a learnt clause from the given conflict using first-UIP
// backward resolution: literals assigned at the current decision level are
// resolved away, walking the trail backwards, until a single one remains
// (the unique implication point). The learnt clause is returned with the
// asserting literal first, together with the backtrack level (the
// second-highest decision level among its literals). It also computes the
// clause's LBD (stored in s.lastLBD).
func (s *Solver) analyze(confl *Clause) ([]Literal, int) {
	// Current number of "implication" nodes encountered in the exploration
	// of the decision level. A value of 0 indicates that the exploration has
	// reached a single implication point.
	nImplicationPoints := 0

	// Empty the buffer of literals in which the learnt clause will be
	// stored. Note that the first literal is reserved for the FUIP which is
	// set at the end of this function.
	s.tmpLearnts = s.tmpLearnts[:0]
	s.tmpLearnts = append(s.tmpLearnts, -1)

	// Next literal to look at. This is used to iterate over the trail
	// without actually undoing the literal assignments.
	nextLiteral := len(s.trail) - 1

	l := Literal(-1) // unknown literal used to represent the conflict
	s.seenVar.Clear()

	for {
		for _, q := range s.explain(confl, l) {
			v := q.VarID()
			if s.seenVar.Contains(v) {
				continue
			}

			s.seenVar.Add(v)
			s.reward.onConflictSeen(s, v)
			if s.levels[v] == s.decisionLevel() {
				nImplicationPoints++
			} else if s.levels[v] > 0 {
				// Root level literals are false forever and need not be part
				// of the learnt clause.
				s.tmpLearnts = append(s.tmpLearnts, q.Opposite())
			}
		}

		// Select next literal to look at.
		for {
			l = s.trail[nextLiteral]
			nextLiteral--
			v := l.VarID()
			confl = s.reasons[v]
			if s.seenVar.Contains(v) {
				break
			}
		}

		nImplicationPoints--
		if nImplicationPoints <= 0 {
			break
		}
	}

	// Add the literal corresponding to the FUIP.
	s.tmpLearnts[0] = l.Opposite()

	s.minimizeLearnt()
	s.creditReasonSide()

	backtrackLevel := 0
	for _, q := range s.tmpLearnts[1:] {
		if level := s.levels[q.VarID()]; level > backtrackLevel {
			backtrackLevel = level
		}
	}
	s.lastLBD = s.computeLBD(s.tmpLearnts)

	return s.tmpLearnts, backtrackLevel
}

// minimizeLearnt removes redundant literals from the learnt clause: a
// literal is redundant if the reason of its variable is made entirely of
// literals already in the clause (or falsified at the root level). This is
// the self-subsumption step of conflict clause minimization.
func (s *Solver) minimizeLearnt() {
	j := 1
	for i := 1; i < len(s.tmpLearnts); i++ {
		q := s.tmpLearnts[i]
		reason := s.reasons[q.VarID()]
		if reason == nil {
			s.tmpLearnts[j] = q
			j++
			continue
		}
		redundant := true
		for _, r := range reason.literals[1:] {
			if v := r.VarID(); !s.seenVar.Contains(v) && s.levels[v] > 0 {
				redundant = false
				break
			}
		}
		if !redundant {
			s.tmpLearnts[j] = q
			j++
		}
	}
	s.tmpLearnts = s.tmpLearnts[:j]
}

// creditReasonSide credits the variables appearing in the reasons of the
// learnt clause's literals. This only matters for the LRB reward scheme,
// which gives partial reward to reason side variables.
func (s *Solver) creditReasonSide() {
	for _, q := range s.tmpLearnts[1:] {
		reason := s.reasons[q.VarID()]
		if reason == nil {
			continue
		}
		for _, r := range reason.literals[1:] {
			if v := r.VarID(); !s.seenVar.Contains(v) && s.levels[v] > 0 {
				s.reward.onReasonSide(s, v)
			}
		}
	}
}

// computeLBD returns the literal block distance of the given literals: the
// number of distinct (non root) decision levels they were assigned at.
func (s *Solver) computeLBD(lits []Literal) int {
	s.seenLevel.Clear()
	n := 0
	for _, l := range lits {
		level := s.levels[l.VarID()]
		if level <= 0 {
			continue
		}
		if !s.seenLevel.Contains(level) {
			s.seenLevel.Add(level)
			n++
		}
	}
	return n
}

// analyzeFinal computes the conflict core for failed assumption p: the
// subset of the current assumptions that, together with p, cannot all be
// true. The core is stored in s.failed, assumption literals as assumed.
func (s *Solver) analyzeFinal(p Literal) {
	s.failed = s.failed[:0]
	s.failed = append(s.failed, p)
	if s.decisionLevel() == 0 {
		return
	}

	s.seenVar.Clear()
	s.seenVar.Add(p.VarID())
	for i := len(s.trail) - 1; i >= s.trailLim[0]; i-- {
		v := s.trail[i].VarID()
		if !s.seenVar.Contains(v) {
			continue
		}
		if reason := s.reasons[v]; reason == nil {
			// A decision above the root can only be an assumption here.
			s.failed = append(s.failed, s.trail[i])
		} else {
			for _, q := range reason.literals[1:] {
				if s.levels[q.VarID()] > 0 {
					s.seenVar.Add(q.VarID())
				}
			}
		}
	}
}
