package sat

// restartPolicy decides when the search should abandon its current branch
// and go back to the root level. The policy is fixed when the solver is
// created. Restarts keep all learnt clauses and heuristic state: they are a
// search strategy device, not error recovery.
type restartPolicy interface {
	// onSolveStart resets per-invocation state.
	onSolveStart()
	// onConflict feeds the policy with the LBD of the clause learnt from the
	// latest conflict and the trail size at that point.
	onConflict(lbd int, trailSize int)
	// shouldRestart reports whether a restart should happen now.
	shouldRestart() bool
	// onRestart is called when the restart is performed.
	onRestart()
}

const (
	// Minimum number of conflicts between two restarts.
	restartMinInterval = 50

	// Force a restart when the short-term average LBD exceeds the long-term
	// one by this factor ("K" in Glucose).
	restartForceK = 1.25

	// Block a restart when the trail is growing beyond this factor of its
	// long-term average ("R" in Glucose): the search is probably getting
	// close to a model and should not be interrupted.
	restartBlockR = 1.4

	restartFastDecay = 1 - 1.0/32
	restartSlowDecay = 1 - 1.0/4096
)

// dynamicRestart implements the Glucose-style dynamic policy: restarts are
// forced when the quality of recently learnt clauses (their LBD) degrades
// compared to the long run, and blocked when the assignment trail is deeper
// than usual.
type dynamicRestart struct {
	lbd           DualEMA
	trail         DualEMA
	sinceRestart  int
	blockedCount  int64
	pendingForced bool
}

func newDynamicRestart() *dynamicRestart {
	return &dynamicRestart{
		lbd:   NewDualEMA(restartFastDecay, restartSlowDecay),
		trail: NewDualEMA(restartFastDecay, restartSlowDecay),
	}
}

func (r *dynamicRestart) onSolveStart() {
	r.sinceRestart = 0
	r.pendingForced = false
}

func (r *dynamicRestart) onConflict(lbd int, trailSize int) {
	r.sinceRestart++
	r.lbd.Add(float64(lbd))
	r.trail.Add(float64(trailSize))

	if r.sinceRestart < restartMinInterval {
		return
	}
	if float64(trailSize) > restartBlockR*r.trail.Slow() {
		// Blocking: absorb the restart signal.
		r.sinceRestart = 0
		r.blockedCount++
		r.pendingForced = false
		return
	}
	r.pendingForced = r.lbd.Trend() > restartForceK
}

func (r *dynamicRestart) shouldRestart() bool {
	return r.pendingForced
}

func (r *dynamicRestart) onRestart() {
	r.sinceRestart = 0
	r.pendingForced = false
}

// lubyRestart implements the fixed restart schedule: the i-th run is allowed
// luby(i) * lubyStep conflicts.
type lubyRestart struct {
	index        uint
	sinceRestart int
	limit        int
}

const lubyStep = 100

func newLubyRestart() *lubyRestart {
	return &lubyRestart{
		index: 1,
		limit: lubyStep, // luby(1) == 1
	}
}

func (r *lubyRestart) onSolveStart() {
	r.sinceRestart = 0
}

func (r *lubyRestart) onConflict(lbd int, trailSize int) {
	r.sinceRestart++
}

func (r *lubyRestart) shouldRestart() bool {
	return r.sinceRestart >= r.limit
}

func (r *lubyRestart) onRestart() {
	r.index++
	r.sinceRestart = 0
	r.limit = int(luby(r.index)) * lubyStep
}

// luby returns the i-th term (1-based) of the Luby series:
// 1, 1, 2, 1, 1, 2, 4, 1, 1, 2, 1, 1, 2, 4, 8, ...
func luby(i uint) uint {
	for k := 1; k < 32; k++ {
		if i == (1<<k)-1 {
			return 1 << (k - 1)
		}
	}
	k := 1
	for {
		if (1<<(k-1)) <= i && i < (1<<k)-1 {
			return luby(i - (1 << (k - 1)) + 1)
		}
		k++
	}
}
