package sat

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLuby(t *testing.T) {
	want := []uint{1, 1, 2, 1, 1, 2, 4, 1, 1, 2, 1, 1, 2, 4, 8}
	got := make([]uint, len(want))
	for i := range got {
		got[i] = luby(uint(i + 1))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("luby sequence mismatch (-want, +got):\n%s", diff)
	}
}

func TestLubyRestart_schedule(t *testing.T) {
	r := newLubyRestart()
	r.onSolveStart()

	counts := []int{}
	for restarts := 0; restarts < 5; {
		n := 0
		for !r.shouldRestart() {
			r.onConflict(2, 10)
			n++
		}
		r.onRestart()
		counts = append(counts, n)
		restarts++
	}

	// Intervals follow the Luby sequence scaled by the base interval.
	want := []int{100, 100, 200, 100, 100}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Errorf("restart intervals mismatch (-want, +got):\n%s", diff)
	}
}

func TestDynamicRestart_forcesOnBadLBDs(t *testing.T) {
	r := newDynamicRestart()
	r.onSolveStart()

	// A long run of low-LBD conflicts followed by a burst of high-LBD ones
	// drives the fast average well above the slow one.
	for i := 0; i < 1000; i++ {
		r.onConflict(2, 10)
	}
	for i := 0; i < restartMinInterval; i++ {
		r.onConflict(50, 10)
	}
	if !r.shouldRestart() {
		t.Errorf("shouldRestart(): got false, want true after an LBD spike")
	}

	r.onRestart()
	if r.shouldRestart() {
		t.Errorf("shouldRestart(): got true right after a restart")
	}
}

func TestDynamicRestart_minInterval(t *testing.T) {
	r := newDynamicRestart()
	r.onSolveStart()

	for i := 0; i < restartMinInterval-1; i++ {
		r.onConflict(50, 10)
		if r.shouldRestart() {
			t.Fatalf("shouldRestart(): got true after only %d conflicts", i+1)
		}
	}
}

func TestDynamicRestart_blocksOnDeepTrail(t *testing.T) {
	r := newDynamicRestart()
	r.onSolveStart()

	for i := 0; i < 1000; i++ {
		r.onConflict(2, 10)
	}
	// Same LBD spike as above, but the trail is far deeper than its long-run
	// average: the solver looks close to a model so the restart is absorbed.
	for i := 0; i < restartMinInterval; i++ {
		r.onConflict(50, 10_000)
	}
	if r.shouldRestart() {
		t.Errorf("shouldRestart(): got true, want restart blocked on a deep trail")
	}
}
