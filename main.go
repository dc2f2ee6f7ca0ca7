package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/sleet-solver/sleet/parsers"
	"github.com/sleet-solver/sleet/sat"
)

var flagCPUProfile = flag.Bool(
	"cpuprof",
	false,
	"save pprof CPU profile in cpuprof",
)

var flagMemProfile = flag.Bool(
	"memprof",
	false,
	"save pprof memory profile in memprof",
)

var flagMaxConflicts = flag.Int64(
	"max_conflicts",
	-1,
	"maximum number of conflicts allowed to solve the problem (-1 = no maximum)",
)

var flagTimeout = flag.Duration(
	"timeout",
	-1,
	"time budget for the solve (-1 = no budget)",
)

var flagRestart = flag.String(
	"restart",
	"dynamic",
	"restart policy: dynamic or luby",
)

var flagReward = flag.String(
	"reward",
	"evsids",
	"branching reward scheme: evsids or lrb",
)

var flagChrono = flag.Bool(
	"chrono",
	false,
	"use chronological backtracking",
)

var flagNoVivify = flag.Bool(
	"no_vivify",
	false,
	"disable learnt clause vivification",
)

var flagNoRephase = flag.Bool(
	"no_rephase",
	false,
	"disable periodic rephasing",
)

var flagGzip = flag.Bool(
	"gzip",
	false,
	"read the instance as a gzipped DIMACS file",
)

var flagQuiet = flag.Bool(
	"quiet",
	false,
	"do not print progress statistics",
)

type config struct {
	instanceFile string
	gzipped      bool
	memProfile   bool
	cpuProfile   bool
	options      sat.Options
}

func parseConfig() (*config, error) {
	flag.Parse()

	if flag.NArg() == 0 || flag.Arg(0) == "" {
		return nil, fmt.Errorf("missing instance file")
	}

	options := sat.DefaultOptions
	options.MaxConflicts = *flagMaxConflicts
	options.Timeout = *flagTimeout
	options.ChronoBacktrack = *flagChrono
	options.Vivification = !*flagNoVivify
	options.Rephasing = !*flagNoRephase
	options.Verbose = !*flagQuiet

	switch *flagRestart {
	case "dynamic":
		options.RestartPolicy = sat.RestartDynamic
	case "luby":
		options.RestartPolicy = sat.RestartLuby
	default:
		return nil, fmt.Errorf("unknown restart policy %q", *flagRestart)
	}
	switch *flagReward {
	case "evsids":
		options.BranchReward = sat.RewardEVSIDS
	case "lrb":
		options.BranchReward = sat.RewardLRB
	default:
		return nil, fmt.Errorf("unknown reward scheme %q", *flagReward)
	}

	return &config{
		instanceFile: flag.Arg(0),
		gzipped:      *flagGzip,
		memProfile:   *flagMemProfile,
		cpuProfile:   *flagCPUProfile,
		options:      options,
	}, nil
}

func printResult(s *sat.Solver, status sat.LBool) {
	switch status {
	case sat.True:
		fmt.Println("s SATISFIABLE")
		parts := make([]string, 0, s.NumVariables()+2)
		parts = append(parts, "v")
		for i, b := range s.Model() {
			if b {
				parts = append(parts, fmt.Sprintf("%d", i+1))
			} else {
				parts = append(parts, fmt.Sprintf("%d", -i-1))
			}
		}
		parts = append(parts, "0")
		fmt.Println(strings.Join(parts, " "))
	case sat.False:
		fmt.Println("s UNSATISFIABLE")
	default:
		fmt.Println("s UNKNOWN")
		fmt.Printf("c stopped: %s\n", s.LastStopReason())
	}
}

func run(cfg *config) error {
	s := sat.NewSolver(cfg.options)
	if err := parsers.LoadDIMACS(cfg.instanceFile, cfg.gzipped, s); err != nil {
		return fmt.Errorf("could not parse instance: %w", err)
	}

	fmt.Printf("c variables:  %d\n", s.NumVariables())
	fmt.Printf("c clauses:    %d\n", s.NumConstraints())

	t := time.Now()
	status := s.Solve()
	elapsed := time.Since(t)

	fmt.Printf("c time (sec): %f\n", elapsed.Seconds())
	fmt.Printf("c conflicts:  %d (%.2f /sec)\n", s.TotalConflicts, float64(s.TotalConflicts)/elapsed.Seconds())
	printResult(s, status)

	return nil
}

func main() {
	cfg, err := parseConfig()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.cpuProfile {
		f, err := os.Create("cpuprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}

	if cfg.memProfile {
		f, err := os.Create("memprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}
}
