package sat

import (
	"log"

	"github.com/rhartert/yagh"
)

// VarOrder maintains the set of unassigned variables ordered by decreasing
// activity. It is rebuilt at the beginning of each solve invocation (which
// also takes care of variables added in between invocations) and kept in
// sync with the trail afterwards: variables are removed as they are selected
// and reinserted when they are unassigned.
type VarOrder struct {
	solver *Solver
	heap   *yagh.IntMap[float64]
}

func NewVarOrder(s *Solver, nVars int) *VarOrder {
	vo := &VarOrder{
		solver: s,
		heap:   yagh.New[float64](nVars),
	}
	for v := 0; v < nVars; v++ {
		if s.VarValue(v) == Unknown {
			vo.heap.Put(v, -s.activities[v])
		}
	}
	return vo
}

// Update repositions the variable after its activity changed. Assigned
// variables are not in the heap and are left alone: they get their correct
// position when they are reinserted.
func (vo *VarOrder) Update(varID int) {
	if vo.heap.Contains(varID) {
		vo.heap.Put(varID, -vo.solver.activities[varID])
	}
}

// Reinsert puts an unassigned variable back in the ordering.
func (vo *VarOrder) Reinsert(varID int) {
	vo.heap.Put(varID, -vo.solver.activities[varID])
}

// Select returns the decision literal to branch on: the unassigned variable
// with the highest activity (ties broken by lowest variable ID), with the
// polarity it last had, negative if it was never assigned.
func (vo *VarOrder) Select() Literal {
	for {
		next, ok := vo.heap.Pop()
		if !ok {
			log.Fatalln("empty order heap")
		}
		if vo.solver.VarValue(next.Elem) != Unknown {
			continue // already assigned
		}

		v := vo.selectTied(next.Elem)
		switch vo.solver.phases[v] {
		case True:
			return PositiveLiteral(v)
		default:
			return NegativeLiteral(v)
		}
	}
}

// selectTied drains the variables that have the same activity as v and
// returns the one with the lowest ID, reinserting the others. The heap
// itself orders by activity only.
func (vo *VarOrder) selectTied(v int) int {
	act := vo.solver.activities[v]
	var tied []int
	for {
		e, ok := vo.heap.Pop()
		if !ok {
			break
		}
		if vo.solver.VarValue(e.Elem) != Unknown {
			continue // already assigned, drop it
		}
		if vo.solver.activities[e.Elem] != act {
			vo.heap.Put(e.Elem, -vo.solver.activities[e.Elem])
			break
		}
		if e.Elem < v {
			tied = append(tied, v)
			v = e.Elem
		} else {
			tied = append(tied, e.Elem)
		}
	}
	for _, w := range tied {
		vo.heap.Put(w, -vo.solver.activities[w])
	}
	return v
}

// rewardScheme is the branching activity strategy, fixed when the solver is
// created. Exactly one of the two schemes below is active; the search loop
// calls the hooks unconditionally.
type rewardScheme interface {
	// expand makes room for one more variable.
	expand()
	// onAssign is called when a variable gets assigned.
	onAssign(s *Solver, v int)
	// onUnassign is called when a variable is unassigned on backtrack,
	// before it is reinserted in the ordering.
	onUnassign(s *Solver, v int)
	// onConflictSeen is called for each variable resolved or collected
	// during conflict analysis.
	onConflictSeen(s *Solver, v int)
	// onReasonSide is called for variables on the reason side of the learnt
	// clause.
	onReasonSide(s *Solver, v int)
	// onConflictDone is called once per conflict, after analysis.
	onConflictDone(s *Solver)
}

// evsidsReward implements exponential VSIDS: variables seen during conflict
// analysis are bumped by an increment that grows geometrically with each
// conflict, which is equivalent to decaying all activities.
type evsidsReward struct{}

func (r *evsidsReward) expand()                       {}
func (r *evsidsReward) onAssign(s *Solver, v int)     {}
func (r *evsidsReward) onUnassign(s *Solver, v int)   {}
func (r *evsidsReward) onReasonSide(s *Solver, v int) {}

func (r *evsidsReward) onConflictSeen(s *Solver, v int) {
	s.activities[v] += s.varInc

	if s.activities[v] > 1e100 {
		s.varInc *= 1e-100 // important to keep proportions
		for i := range s.activities {
			s.activities[i] *= 1e-100
		}
	}

	s.order.Update(v)
}

func (r *evsidsReward) onConflictDone(s *Solver) {
	s.varInc *= 1 / s.varDecay
}

const (
	lrbAlphaInit  = 0.4
	lrbAlphaLimit = 0.06
	lrbAlphaStep  = 1e-6
)

// lrbReward implements learning-rate branching: when a variable is
// unassigned, its activity moves towards the rate at which it participated
// in conflicts while it was assigned. The moving average step alpha decays
// from lrbAlphaInit to lrbAlphaLimit over the run.
type lrbReward struct {
	alpha        float64
	assignedAt   []int64
	participated []int64
	reasoned     []int64
}

func (r *lrbReward) expand() {
	r.assignedAt = append(r.assignedAt, 0)
	r.participated = append(r.participated, 0)
	r.reasoned = append(r.reasoned, 0)
}

func (r *lrbReward) onAssign(s *Solver, v int) {
	r.assignedAt[v] = s.TotalConflicts
	r.participated[v] = 0
	r.reasoned[v] = 0
}

func (r *lrbReward) onUnassign(s *Solver, v int) {
	interval := s.TotalConflicts - r.assignedAt[v]
	if interval <= 0 {
		return
	}
	rate := float64(r.participated[v]+r.reasoned[v]) / float64(interval)
	s.activities[v] = (1-r.alpha)*s.activities[v] + r.alpha*rate
}

func (r *lrbReward) onConflictSeen(s *Solver, v int) {
	r.participated[v]++
}

func (r *lrbReward) onReasonSide(s *Solver, v int) {
	r.reasoned[v]++
}

func (r *lrbReward) onConflictDone(s *Solver) {
	if r.alpha > lrbAlphaLimit {
		r.alpha -= lrbAlphaStep
	}
}
