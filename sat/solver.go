package sat

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"
)

// Solver is a CDCL SAT solver. A Solver is built for a fixed set of variables
// (which can be extended with AddVariable between solve calls), accumulates
// clauses through AddClause, and answers satisfiability queries through Solve
// and SolveWithAssumptions. A Solver must not be used from multiple
// goroutines: one solve invocation runs to completion on the calling
// goroutine, the only operation safe to call concurrently is Interrupt.
type Solver struct {
	// Clause database.
	constraints []*Clause
	learnts     []*Clause
	clauseInc   float64
	clauseDecay float64
	maxLearnts  int

	// Variable ordering and branching.
	activities []float64
	varInc     float64
	varDecay   float64
	order      *VarOrder
	reward     rewardScheme

	// Phase memory. phases holds the last polarity assigned to each
	// variable, bestPhases the polarities of the deepest trail reached since
	// the last rephase.
	phases      []LBool
	bestPhases  []LBool
	bestTrail   int
	rephasing   bool
	nextRephase int64

	// Propagation and watchers. The trail itself acts as the propagation
	// queue: literals in trail[propHead:] are assigned but their watch lists
	// have not been consumed yet.
	watchers [][]watcher
	propHead int

	// Value assigned to each literal.
	assigns []LBool

	// Trail.
	trail    []Literal
	trailLim []int
	reasons  []*Clause
	levels   []int

	// Assumptions of the current solve invocation and, if one of them could
	// not be satisfied, the subset of assumptions responsible (the conflict
	// core).
	assumptions []Literal
	failed      []Literal

	// Restart and database maintenance policies.
	restart    restartPolicy
	chronoBT   bool
	vivify     bool
	nextVivify int64

	// Whether the problem has reached a top level conflict.
	unsat bool

	// Search statistics.
	TotalConflicts    int64
	TotalRestarts     int64
	TotalDecisions    int64
	TotalPropagations int64
	TotalIterations   int64
	TotalLearnts      int64
	TotalDeleted      int64
	TotalVivified     int64
	startTime         time.Time

	// Stop conditions.
	hasStopCond  bool
	maxConflict  int64
	conflictsEnd int64
	timeout      time.Duration
	interrupted  atomic.Bool
	stopReason   StopReason

	verbose     bool
	incremental bool

	// Models found so far and the most recent one.
	Models    [][]bool
	lastModel []bool

	// Shared by operations that need to put variables in a set and empty
	// that set efficiently.
	seenVar *ResetSet

	// Same for decision levels (used to compute LBDs).
	seenLevel *ResetSet

	// LBD of the most recently learnt clause.
	lastLBD int

	// Temporary slice used in the Propagate function. The slice is re-used by
	// all Propagate calls to avoid unnecessarily allocating new slices.
	tmpWatchers []watcher

	// Temporary slice used in analyze to accumulate literals before these are
	// used to create a new learnt clause. Having one shared buffer between
	// all calls reduces the overhead of having to grow each time analyze is
	// called.
	tmpLearnts []Literal

	// Used by clauses to explain themselves.
	tmpReason []Literal

	// Used by vivification to accumulate the shortened clause.
	tmpVivify []Literal
}

// watcher represents a clause attached to the watch list of a literal.
type watcher struct {
	// The watching clause to be propagated when the watched literal becomes
	// true.
	clause *Clause

	// Guard is one of the clause's literals. If it is true, then there is
	// no need to propagate the clause. Note that the guard literal must be
	// different from the watcher literal.
	guard Literal
}

// NewDefaultSolver returns a solver configured with default options. This is
// equivalent to calling NewSolver with DefaultOptions.
func NewDefaultSolver() *Solver {
	return NewSolver(DefaultOptions)
}

func NewSolver(ops Options) *Solver {
	s := &Solver{
		clauseDecay: ops.ClauseDecay,
		varDecay:    ops.VariableDecay,
		clauseInc:   1,
		varInc:      1,
		chronoBT:    ops.ChronoBacktrack,
		vivify:      ops.Vivification,
		rephasing:   ops.Rephasing,
		incremental: ops.Incremental,
		maxConflict: -1,
		timeout:     -1,
		verbose:     ops.Verbose,
		seenVar:     &ResetSet{},
		seenLevel:   &ResetSet{},
	}

	// Decision levels range from 0 to the number of variables, hence the
	// extra slot compared to seenVar.
	s.seenLevel.Expand()

	switch ops.BranchReward {
	case RewardLRB:
		s.reward = &lrbReward{alpha: lrbAlphaInit}
	default:
		s.reward = &evsidsReward{}
	}
	switch ops.RestartPolicy {
	case RestartLuby:
		s.restart = newLubyRestart()
	default:
		s.restart = newDynamicRestart()
	}

	if ops.MaxConflicts >= 0 {
		s.hasStopCond = true
		s.maxConflict = ops.MaxConflicts
	}
	if ops.Timeout >= 0 {
		s.hasStopCond = true
		s.timeout = ops.Timeout
	}

	return s
}

// Interrupt asks the solver to stop as soon as possible. The ongoing solve
// invocation returns Unknown at the next decision point. Interrupt is the
// only method safe to call from another goroutine.
func (s *Solver) Interrupt() {
	s.interrupted.Store(true)
}

func (s *Solver) shouldStop() bool {
	if s.interrupted.Load() {
		s.stopReason = StopInterrupted
		return true
	}
	if !s.hasStopCond {
		return false
	}
	if s.maxConflict >= 0 && s.conflictsEnd <= s.TotalConflicts {
		s.stopReason = StopConflictBudget
		return true
	}
	if s.timeout >= 0 && s.timeout <= time.Since(s.startTime) {
		s.stopReason = StopTimeBudget
		return true
	}

	return false
}

// LastStopReason returns why the previous solve invocation returned Unknown,
// or StopNone if it did not.
func (s *Solver) LastStopReason() StopReason {
	return s.stopReason
}

func (s *Solver) NumVariables() int {
	return len(s.assigns) / 2
}

func (s *Solver) NumAssigns() int {
	return len(s.trail)
}

func (s *Solver) NumConstraints() int {
	return len(s.constraints)
}

func (s *Solver) NumLearnts() int {
	return len(s.learnts)
}

// VarValue returns the current assignment of variable x. Outside of a solve
// invocation this only reflects root level facts; use Value to inspect the
// last model found.
func (s *Solver) VarValue(x int) LBool {
	return s.assigns[PositiveLiteral(x)]
}

func (s *Solver) LitValue(l Literal) LBool {
	return s.assigns[l]
}

// Value returns the value of variable x in the last model found. It returns
// Unknown if no model has been found yet.
func (s *Solver) Value(x int) LBool {
	if s.lastModel == nil || x >= len(s.lastModel) {
		return Unknown
	}
	return Lift(s.lastModel[x])
}

// Model returns the last model found, or nil if none has been found yet.
func (s *Solver) Model() []bool {
	if s.lastModel == nil {
		return nil
	}
	m := make([]bool, len(s.lastModel))
	copy(m, s.lastModel)
	return m
}

// FailedAssumptions returns the subset of the assumptions of the last
// SolveWithAssumptions call that made the problem unsatisfiable, or nil if
// the problem was not unsatisfiable under its assumptions. Removing any
// literal outside the returned core cannot make the problem satisfiable.
func (s *Solver) FailedAssumptions() []Literal {
	if s.failed == nil {
		return nil
	}
	core := make([]Literal, len(s.failed))
	copy(core, s.failed)
	return core
}

// AddVariable adds a new variable to the solver and returns its ID. Variables
// can only be added in between solve invocations.
func (s *Solver) AddVariable() int {
	index := s.NumVariables()
	s.watchers = append(s.watchers, nil)
	s.watchers = append(s.watchers, nil)
	s.reasons = append(s.reasons, nil)
	s.seenVar.Expand()
	s.seenLevel.Expand()

	// One for each literal.
	s.assigns = append(s.assigns, Unknown)
	s.assigns = append(s.assigns, Unknown)

	s.levels = append(s.levels, -1)
	s.activities = append(s.activities, 0)
	s.phases = append(s.phases, Unknown)
	s.bestPhases = append(s.bestPhases, Unknown)
	s.reward.expand()
	return index
}

// Watch registers clause c to be awaken when Literal watch is assigned to
// true. The guard must be one of c's literals, distinct from the negation of
// watch: if the guard is true the clause is satisfied and does not need to be
// inspected.
func (s *Solver) Watch(c *Clause, watch Literal, guard Literal) {
	s.watchers[watch] = append(s.watchers[watch], watcher{
		clause: c,
		guard:  guard,
	})
}

// Unwatch removes clause c from the list of watchers.
func (s *Solver) Unwatch(c *Clause, watch Literal) {
	j := 0
	for i := 0; i < len(s.watchers[watch]); i++ {
		if s.watchers[watch][i].clause != c {
			s.watchers[watch][j] = s.watchers[watch][i]
			j++
		}
	}
	s.watchers[watch] = s.watchers[watch][:j]
}

// AddClause adds a clause to the solver. The clause is simplified first:
// tautologies are accepted (and dropped), duplicated literals are removed.
// An error is returned if one of the literals refers to a variable that does
// not exist or if the solver is in the middle of a solve invocation.
func (s *Solver) AddClause(clause []Literal) error {
	if s.decisionLevel() != 0 {
		return fmt.Errorf("can only add clauses at the root level")
	}
	for _, l := range clause {
		if v := l.VarID(); l < 0 || v >= s.NumVariables() {
			return fmt.Errorf("literal %s refers to undeclared variable %d", l, v)
		}
	}
	c, ok := NewClause(s, clause, false)
	if c != nil {
		s.constraints = append(s.constraints, c)
	}
	if !ok {
		s.unsat = true
	}

	return nil
}

// Simplify simplifies the clause DB as well as the problem clauses according
// to the root-level assignments. Clauses that are satisfied at the root-level
// are removed.
func (s *Solver) Simplify() bool {
	if l := s.decisionLevel(); l != 0 {
		log.Fatalf("Simplify called on non root-level: %d", l)
	}

	if s.unsat || s.Propagate() != nil {
		s.unsat = true
		return false
	}

	s.simplifyPtr(&s.learnts)
	if !s.incremental {
		s.simplifyPtr(&s.constraints)
	}

	return true
}

// simplifyPtr simplifies the clauses in the given slice and removes clauses
// that are already satisfied.
func (s *Solver) simplifyPtr(clausesPtr *[]*Clause) {
	clauses := *clausesPtr
	j := 0
	for i := 0; i < len(clauses); i++ {
		if clauses[i].isDeleted() {
			continue
		}
		if clauses[i].Simplify(s) {
			clauses[i].Delete(s)
		} else {
			clauses[j] = clauses[i]
			j++
		}
	}
	*clausesPtr = clauses[:j]
}

func (s *Solver) decisionLevel() int {
	return len(s.trailLim)
}

// enqueue records the assignment of l (with the clause that forced it, or
// nil for a decision) and schedules it for propagation. It returns false if
// l is already falsified.
func (s *Solver) enqueue(l Literal, from *Clause) bool {
	switch s.LitValue(l) {
	case False:
		return false // conflicting assignment
	case True:
		return true // already assigned
	default:
		// New fact, store it. Root level facts need no reason: they hold
		// unconditionally and their reason clause could be reclaimed later.
		varID := l.VarID()
		level := s.decisionLevel()
		if level == 0 {
			from = nil
		}
		s.assigns[l] = True
		s.assigns[l.Opposite()] = False
		s.levels[varID] = level
		s.reasons[varID] = from
		s.trail = append(s.trail, l)
		s.reward.onAssign(s, varID)
		return true
	}
}

// assume opens a new decision level and enqueues l as its decision.
func (s *Solver) assume(l Literal) bool {
	s.trailLim = append(s.trailLim, len(s.trail))
	return s.enqueue(l, nil)
}

func (s *Solver) undoOne() {
	l := s.trail[len(s.trail)-1]
	v := l.VarID()

	s.phases[v] = s.LitValue(PositiveLiteral(v))
	s.reward.onUnassign(s, v)
	s.assigns[l] = Unknown
	s.assigns[l.Opposite()] = Unknown
	s.reasons[v] = nil
	s.levels[v] = -1
	s.trail = s.trail[:len(s.trail)-1]

	if s.order != nil {
		s.order.Reinsert(v)
	}
}

func (s *Solver) cancel() {
	c := len(s.trail) - s.trailLim[len(s.trailLim)-1]
	for ; c != 0; c-- {
		s.undoOne()
	}
	s.trailLim = s.trailLim[:len(s.trailLim)-1]
}

// cancelUntil unwinds the trail down to the given decision level.
func (s *Solver) cancelUntil(level int) {
	for s.decisionLevel() > level {
		s.cancel()
	}
	if s.propHead > len(s.trail) {
		s.propHead = len(s.trail)
	}
}

// record creates a learnt clause from the literals produced by conflict
// analysis (asserting literal first) and enqueues the asserting literal.
func (s *Solver) record(clause []Literal) {
	c, _ := NewClause(s, clause, true)
	s.enqueue(clause[0], c)
	if c != nil {
		c.lbd = uint32(s.lastLBD)
		s.learnts = append(s.learnts, c)
		s.BumpClaActivity(c)
		s.TotalLearnts++
	}
}

func (s *Solver) BumpClaActivity(c *Clause) {
	c.activity += s.clauseInc

	if c.activity > 1e30 {
		s.clauseInc *= 1e-30 // important to keep proportions
		for _, l := range s.learnts {
			l.activity *= 1e-30
		}
	}
}

func (s *Solver) DecayClaActivity() {
	s.clauseInc *= 1 / s.clauseDecay
}

func (s *Solver) saveModel() {
	model := make([]bool, s.NumVariables())
	for i := range model {
		lb := s.VarValue(i)
		if lb == Unknown {
			panic("not a model")
		}
		model[i] = lb == True
	}
	s.Models = append(s.Models, model)
	s.lastModel = model
}

// Solve determines the satisfiability of the solver's clauses. It returns
// True if a model was found (see Model and Value), False if the clauses are
// unsatisfiable, and Unknown if a resource budget was exhausted before an
// answer was found (see LastStopReason). After an Unknown verdict, solving
// can be resumed by calling Solve again: learnt clauses and heuristic state
// are retained.
func (s *Solver) Solve() LBool {
	status, _ := s.SolveWithAssumptions(nil)
	return status
}

// SolveWithAssumptions behaves like Solve with the given literals assumed
// true for the duration of this invocation only. If the problem is
// unsatisfiable under the assumptions (but not proven globally
// unsatisfiable), FailedAssumptions returns the subset of assumptions
// responsible. An error is returned only for malformed input, i.e. an
// assumption referring to an undeclared variable.
func (s *Solver) SolveWithAssumptions(assumptions []Literal) (LBool, error) {
	for _, l := range assumptions {
		if v := l.VarID(); l < 0 || v >= s.NumVariables() {
			return Unknown, fmt.Errorf("assumption %s refers to undeclared variable %d", l, v)
		}
	}
	if s.unsat {
		return False, nil
	}

	s.assumptions = assumptions
	s.failed = nil
	s.stopReason = StopNone
	s.interrupted.Store(false)
	s.startTime = time.Now()
	s.conflictsEnd = s.TotalConflicts + s.maxConflict
	s.order = NewVarOrder(s, s.NumVariables())
	s.restart.onSolveStart()
	if s.maxLearnts == 0 {
		s.maxLearnts = max(2000, s.NumConstraints()/3)
	}
	if s.rephasing && s.nextRephase == 0 {
		s.nextRephase = s.TotalConflicts + rephaseInterval
	}

	if s.verbose {
		s.printSeparator()
		s.printSearchHeader()
		s.printSeparator()
	}

	status := s.search()

	if s.verbose {
		s.printSearchStats()
		s.printSeparator()
	}

	s.cancelUntil(0)
	s.assumptions = nil
	return status, nil
}

// search runs the CDCL loop: propagate to fixpoint; on conflict, learn a
// clause and backjump; otherwise reduce or restart if due, and decide. It
// returns True once all variables are assigned, False on an unsatisfiable
// (sub)problem, and Unknown when a stop condition triggers.
func (s *Solver) search() LBool {
	for {
		if s.verbose && s.TotalIterations%10000 == 0 {
			s.printSearchStats()
		}
		s.TotalIterations++

		if conflict := s.Propagate(); conflict != nil {
			s.TotalConflicts++

			if s.decisionLevel() == 0 {
				s.unsat = true
				return False
			}

			learntClause, backtrackLevel := s.analyze(conflict)
			if s.chronoBT && backtrackLevel > 0 && s.decisionLevel()-1 > backtrackLevel {
				// Chronological backtracking: retreat a single level. The
				// learnt clause is still asserting there since all its
				// literals but the first are falsified below that level.
				backtrackLevel = s.decisionLevel() - 1
			}
			s.cancelUntil(backtrackLevel)
			s.record(learntClause)

			s.restart.onConflict(s.lastLBD, s.NumAssigns())
			s.DecayClaActivity()
			s.reward.onConflictDone(s)
			s.maybeRephase()

			continue
		}

		// No conflict.

		if s.NumAssigns() > s.bestTrail {
			s.snapshotBestPhases()
		}

		if s.decisionLevel() == 0 {
			if !s.Simplify() {
				return False
			}
			if s.vivify && s.TotalConflicts >= s.nextVivify {
				s.vivifyLearnts()
				s.nextVivify = s.TotalConflicts + vivifyInterval
				if s.unsat {
					return False
				}
			}
		}

		if len(s.learnts)-s.NumAssigns() >= s.maxLearnts {
			s.ReduceDB()
			s.maxLearnts += s.maxLearnts / 20
		}

		if s.NumAssigns() == s.NumVariables() { // solution found
			s.saveModel()
			s.cancelUntil(0)
			return True
		}

		if s.shouldStop() {
			s.cancelUntil(0)
			return Unknown
		}

		if s.restart.shouldRestart() && s.decisionLevel() > 0 {
			s.TotalRestarts++
			s.restart.onRestart()
			s.cancelUntil(0)
			continue
		}

		if s.decisionLevel() < len(s.assumptions) {
			// Assumptions act as forced decisions for the first levels.
			p := s.assumptions[s.decisionLevel()]
			switch s.LitValue(p) {
			case True:
				// Already satisfied: open a dummy level to keep decision
				// levels aligned with assumption indices.
				s.trailLim = append(s.trailLim, len(s.trail))
			case False:
				s.analyzeFinal(p)
				return False
			default:
				s.assume(p)
			}
		} else {
			l := s.order.Select()
			s.TotalDecisions++
			s.assume(l)
		}
	}
}

func (s *Solver) printSeparator() {
	fmt.Println("c ---------------------------------------------------------------------------")
}

func (s *Solver) printSearchHeader() {
	fmt.Println("c            time      conflicts       restarts        learnts        deleted")
}

func (s *Solver) printSearchStats() {
	fmt.Printf(
		"c %14.3fs %14d %14d %14d %14d\n",
		time.Since(s.startTime).Seconds(),
		s.TotalConflicts,
		s.TotalRestarts,
		len(s.learnts),
		s.TotalDeleted)
}
