// Command polyenum drives internal/enumerator the way the reference
// C++ drivers (simple_enumeration.cpp, opti_mt_enumeration.cpp) drive
// FigureGenerator: pick (N, A, B), run to completion or step through it
// interactively, and report counts against the OEIS reference table.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/chzyer/readline"
	"github.com/felixge/fgprof"
	pprofprofile "github.com/google/pprof/profile"
	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"

	"github.com/northfold/polyenum/internal/enumerator"
	"github.com/northfold/polyenum/internal/oeis"
	"github.com/northfold/polyenum/internal/progress"
	"github.com/northfold/polyenum/internal/stopwatch"
)

var log = logrus.New()

func usage() {
	fmt.Fprintf(os.Stderr, "usage: polyenum [-n <K>] [flags] <AB-code>\n")
	fmt.Fprintf(os.Stderr, "  AB-code is one of 40 44 48 80 84 88, selecting (A,B)\n")
	flag.PrintDefaults()
}

// abCode maps the reference drivers' two-digit flag (e.g. 84 => A=8,
// B=4) onto the enumerator's Connectivity/WhiteConnectivity pair.
func abCode(code int) (enumerator.Connectivity, enumerator.WhiteConnectivity, error) {
	switch code {
	case 40:
		return enumerator.Four, enumerator.WhiteDisabled, nil
	case 44:
		return enumerator.Four, enumerator.WhiteFour, nil
	case 48:
		return enumerator.Four, enumerator.WhiteEight, nil
	case 80:
		return enumerator.Eight, enumerator.WhiteDisabled, nil
	case 84:
		return enumerator.Eight, enumerator.WhiteFour, nil
	case 88:
		return enumerator.Eight, enumerator.WhiteEight, nil
	default:
		return 0, 0, fmt.Errorf("unsupported AB code %d (want one of 40 44 48 80 84 88)", code)
	}
}

func main() {
	os.Exit(run())
}

func run() int {
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	n := flag.Int("n", 10, "maximum figure size")
	stat := flag.Bool("stat", false, "collect and report nonLeaf/leaf/rejected statistics")
	mt := flag.Bool("mt", false, "split and run across goroutines")
	alt := flag.Bool("alt", false, "use the single-step NextStep loop instead of Generate")
	csv := flag.Bool("csv", false, "emit one CSV line instead of a table")
	step := flag.Bool("step", false, "step through figures interactively")
	splitDepth := flag.Int("splitdepth", 4, "split depth for --mt")
	workers := flag.Int("workers", 0, "goroutine count for --mt (0 = one per split prefix)")
	showProgress := flag.Bool("progress", false, "show a live progress line while --mt runs")
	cpuprofile := flag.Bool("cpuprofile", false, "write a CPU profile for the run")
	memprofile := flag.Bool("memprofile", false, "write a memory profile for the run")
	useFgprof := flag.Bool("fgprof", false, "capture a merged wall-clock profile across --mt workers")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		return 1
	}
	code, err := strconv.Atoi(flag.Arg(0))
	if err != nil {
		log.WithError(err).Error("AB code must be an integer")
		return 1
	}
	a, b, err := abCode(code)
	if err != nil {
		log.WithError(err).Error("invalid AB code")
		return 1
	}

	cfg := enumerator.Config{N: *n, A: a, B: b, Stats: *stat}
	probe, err := enumerator.New(cfg)
	if err != nil {
		log.WithError(err).Error("invalid configuration")
		return 1
	}
	log.WithField("gridSize", probe.GridSize()).Debug("enumerator configured")

	if *cpuprofile || *memprofile {
		var opts []func(*profile.Profile)
		if *cpuprofile {
			opts = append(opts, profile.CPUProfile)
		}
		if *memprofile {
			opts = append(opts, profile.MemProfile)
		}
		opts = append(opts, profile.ProfilePath("."))
		defer profile.Start(opts...).Stop()
	}

	if *step {
		return runInteractive(cfg)
	}

	sw := stopwatch.New()
	sw.Start("total")

	var counts []uint64
	var stats *enumerator.Stats
	if *mt {
		counts, stats = runSplit(cfg, *splitDepth, *workers, *useFgprof, *showProgress)
	} else if *alt {
		counts, stats = runStepLoop(cfg)
	} else {
		counts, stats = runGenerate(cfg)
	}

	sw.Stop("total")
	elapsedMs := sw.Seconds("total") * 1000

	var total uint64
	for _, c := range counts {
		total += c
	}

	if *csv {
		fmt.Printf("a=%d_b=%d_n=%d, %.3f, %d\n", a, b, *n, elapsedMs, total)
		return 0
	}

	report(cfg, counts, stats, elapsedMs)
	return 0
}

func runGenerate(cfg enumerator.Config) ([]uint64, *enumerator.Stats) {
	e, err := enumerator.New(cfg)
	if err != nil {
		log.WithError(err).Fatal("enumerator.New")
	}
	counts := make([]uint64, cfg.N+1)
	e.Generate(func(v enumerator.FigureView) {
		counts[v.Size()]++
	}, cfg.N)
	return counts, e.Stats()
}

// runStepLoop drives the same walk through the single-step NextStep
// interface,.
func runStepLoop(cfg enumerator.Config) ([]uint64, *enumerator.Stats) {
	e, err := enumerator.New(cfg)
	if err != nil {
		log.WithError(err).Fatal("enumerator.New")
	}
	counts := make([]uint64, cfg.N+1)
	for {
		v := e.View()
		counts[v.Size()]++
		if !e.NextStep(cfg.N) {
			break
		}
	}
	return counts, e.Stats()
}

// runSplit reproduces the reference drivers' split-then-thread-pool
// shape: drive single-threaded to splitDepth, then hand each recorded
// prefix to its own goroutine, aggregating per-level counts under a
// mutex exactly as the split contract assigns that responsibility to
// the caller rather than the core.
//
// The single-threaded discovery walk itself reports every figure it
// passes through above splitDepth directly into totalCounts — sizes
// below splitDepth never reach any goroutine, so they must be counted
// here rather than by a worker.
func runSplit(cfg enumerator.Config, splitDepth, workers int, useFgprof, showProgress bool) ([]uint64, *enumerator.Stats) {
	root, err := enumerator.New(cfg)
	if err != nil {
		log.WithError(err).Fatal("enumerator.New")
	}

	totalCounts := make([]uint64, cfg.N+1)
	prefixes := root.Split(splitDepth, func(v enumerator.FigureView) {
		totalCounts[v.Size()]++
	})
	log.WithField("shards", len(prefixes)).Info("split complete")

	// root.Stats() now holds the discovery walk's own total, accumulated
	// once as Split ran; each prefix's stats were reset to zero at the
	// moment it was cloned, so summing them below adds only each shard's
	// own subtree contribution on top of this single discovery total.
	var totalStats enumerator.Stats
	if s := root.Stats(); s != nil {
		totalStats = *s
	}

	if workers <= 0 {
		workers = len(prefixes)
	}

	var progressCh chan progress.Update
	var progressWg sync.WaitGroup
	if showProgress {
		progressCh = make(chan progress.Update)
		progressWg.Add(1)
		go progress.PrintUpdates(progressCh, &progressWg)
	}

	var mu sync.Mutex
	var profileBufs []*bytes.Buffer
	var completed uint64

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for idx, prefix := range prefixes {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, e *enumerator.Enumerator) {
			defer wg.Done()
			defer func() { <-sem }()

			var buf *bytes.Buffer
			var stopFgprof func() error
			if useFgprof {
				buf = &bytes.Buffer{}
				stopFgprof = fgprof.Start(buf, fgprof.FormatPprof)
			}

			local := make([]uint64, cfg.N+1)
			e.ResumeSplit(func(v enumerator.FigureView) {
				local[v.Size()]++
			}, cfg.N)

			if stopFgprof != nil {
				if err := stopFgprof(); err != nil {
					log.WithError(err).Warn("fgprof stop failed")
				}
			}

			var shardTotal uint64
			for _, c := range local {
				shardTotal += c
			}

			mu.Lock()
			for k := range local {
				totalCounts[k] += local[k]
			}
			if s := e.Stats(); s != nil {
				totalStats.NonLeaf += s.NonLeaf
				totalStats.Leaf += s.Leaf
				totalStats.Rejected += s.Rejected
			}
			if buf != nil {
				profileBufs = append(profileBufs, buf)
			}
			completed++
			emitted := completed
			mu.Unlock()

			if progressCh != nil {
				progressCh <- progress.Update{
					Level:   idx,
					MaxSize: len(prefixes),
					Emitted: emitted,
					Action:  "shard complete",
				}
			}

			log.WithFields(logrus.Fields{"worker": idx, "figures": shardTotal}).Debug("shard complete")
		}(idx, prefix)
	}
	wg.Wait()

	if progressCh != nil {
		close(progressCh)
		progressWg.Wait()
	}

	if len(profileBufs) > 0 {
		if path, err := mergeProfiles(profileBufs); err != nil {
			log.WithError(err).Warn("failed to merge per-worker fgprof profiles")
		} else {
			log.WithField("path", path).Info("wrote merged fgprof profile")
		}
	}

	if !cfg.Stats {
		return totalCounts, nil
	}
	return totalCounts, &totalStats
}

// mergeProfiles parses each worker's fgprof capture and folds them into
// a single combined profile with google/pprof/profile's Merge, writing
// the result next to the binary's working directory.
func mergeProfiles(bufs []*bytes.Buffer) (string, error) {
	profiles := make([]*pprofprofile.Profile, 0, len(bufs))
	for _, buf := range bufs {
		p, err := pprofprofile.Parse(buf)
		if err != nil {
			return "", fmt.Errorf("parsing worker profile: %w", err)
		}
		profiles = append(profiles, p)
	}

	merged, err := pprofprofile.Merge(profiles)
	if err != nil {
		return "", fmt.Errorf("merging worker profiles: %w", err)
	}

	const path = "mt-fgprof-merged.pb.gz"
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := merged.Write(f); err != nil {
		return "", err
	}
	return path, nil
}

func report(cfg enumerator.Config, counts []uint64, stats *enumerator.Stats, elapsedMs float64) {
	var expected []uint64
	if cfg.A == enumerator.Four && cfg.B == enumerator.WhiteDisabled {
		expected = oeis.FourConnected
	} else if cfg.A == enumerator.Eight && cfg.B == enumerator.WhiteDisabled {
		expected = oeis.EightConnected
	}

	fmt.Printf("N=%d A=%d B=%d, elapsed %.3fms\n", cfg.N, cfg.A, cfg.B, elapsedMs)
	for k := 1; k <= cfg.N; k++ {
		if expected != nil && k < len(expected) {
			fmt.Printf("%15d, %15d, %15d\n", k, counts[k], expected[k])
		} else {
			fmt.Printf("%15d, %15d\n", k, counts[k])
		}
	}
	if stats != nil {
		fmt.Printf("nonLeaf=%d leaf=%d rejected=%d\n", stats.NonLeaf, stats.Leaf, stats.Rejected)
	}
}

// runInteractive steps through figures one at a time from a readline
// shell: Enter advances, 'q' prints statistics and quits.
func runInteractive(cfg enumerator.Config) int {
	e, err := enumerator.New(cfg)
	if err != nil {
		log.WithError(err).Error("enumerator.New")
		return 1
	}

	rl, err := readline.New("polyenum> ")
	if err != nil {
		log.WithError(err).Error("readline.New")
		return 1
	}
	defer rl.Close()

	printFigure := func() {
		v := e.View()
		fmt.Printf("size=%d level=%d\n%s", v.Size(), v.Level(), v.Picture())
	}
	printFigure()

	for {
		line, err := rl.Readline()
		if err != nil {
			return 0
		}
		switch line {
		case "q", "quit":
			if s := e.Stats(); s != nil {
				fmt.Printf("nonLeaf=%d leaf=%d rejected=%d\n", s.NonLeaf, s.Leaf, s.Rejected)
			}
			return 0
		default:
			if !e.NextStep(cfg.N) {
				fmt.Println("enumeration complete")
				return 0
			}
			printFigure()
		}
	}
}
