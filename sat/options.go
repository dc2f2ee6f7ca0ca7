package sat

import "time"

// RestartPolicy selects how the solver decides to abandon the current search
// branch and start over from the root level.
type RestartPolicy int

const (
	// RestartDynamic triggers restarts when the short-term average LBD of
	// learnt clauses degrades compared to its long-term average, and blocks
	// them when the trail is growing unusually deep (the search is likely
	// close to a model).
	RestartDynamic RestartPolicy = iota

	// RestartLuby follows a fixed schedule: the Luby series multiplied by a
	// constant conflict step.
	RestartLuby
)

// BranchReward selects the reward scheme used to maintain variable
// activities for branching.
type BranchReward int

const (
	// RewardEVSIDS bumps the activity of variables seen during conflict
	// analysis with an exponentially growing increment.
	RewardEVSIDS BranchReward = iota

	// RewardLRB rewards variables proportionally to how often they
	// participated in conflicts while they were assigned (learning-rate
	// branching). Variables on the reason side of the learnt clause receive
	// partial credit.
	RewardLRB
)

// StopReason documents why a solve invocation returned Unknown.
type StopReason int

const (
	StopNone StopReason = iota
	StopConflictBudget
	StopTimeBudget
	StopInterrupted
)

func (r StopReason) String() string {
	switch r {
	case StopNone:
		return "none"
	case StopConflictBudget:
		return "conflict budget exhausted"
	case StopTimeBudget:
		return "time budget exhausted"
	case StopInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// Options configures a Solver. The zero value is not usable; start from
// DefaultOptions instead.
type Options struct {
	// Mutually exclusive strategies, fixed for the lifetime of the solver.
	RestartPolicy   RestartPolicy
	BranchReward    BranchReward
	ChronoBacktrack bool

	// Learnt clause database maintenance.
	Vivification bool
	ClauseDecay  float64

	// Branching.
	VariableDecay float64
	Rephasing     bool

	// Incremental mode keeps the solver reusable across solve calls: the
	// problem clauses are left untouched by root-level simplification so
	// that variables and clauses can still be added between calls.
	Incremental bool

	// Stop conditions. Negative values disable the corresponding budget.
	MaxConflicts int64
	Timeout      time.Duration

	// Print periodic search statistics on stdout using DIMACS c-lines.
	Verbose bool
}

var DefaultOptions = Options{
	RestartPolicy:   RestartDynamic,
	BranchReward:    RewardEVSIDS,
	ChronoBacktrack: false,
	Vivification:    true,
	ClauseDecay:     0.999,
	VariableDecay:   0.95,
	Rephasing:       true,
	Incremental:     false,
	MaxConflicts:    -1,
	Timeout:         -1,
	Verbose:         false,
}
