package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/obaied/corpusrank/corpus"
	"github.com/obaied/corpusrank/pagerank"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

var appName = "corpusrank"

func main() {
	rootLogger := logrus.New()
	rootLogger.SetOutput(os.Stderr)
	logger := rootLogger.WithField("app", appName).WithField("run_id", uuid.New().String())

	if err := run(logger); err != nil {
		logger.WithField("err", err).Error("corpusrank failed")
		os.Exit(1)
	}
}

// fileConfig mirrors the command-line flags for runs driven by a YAML
// file. Explicitly-set flags take precedence over file values.
type fileConfig struct {
	DampingFactor        float64 `yaml:"dampingFactor"`
	SampleCount          int     `yaml:"sampleCount"`
	ConvergenceThreshold float64 `yaml:"convergenceThreshold"`
	MaxIterations        int     `yaml:"maxIterations"`
	ComputeWorkers       int     `yaml:"computeWorkers"`
	Seed                 int64   `yaml:"seed"`
	LogLevel             string  `yaml:"logLevel"`
}

func run(logger *logrus.Entry) error {
	var (
		configPath = flag.String("config", "", "Path to an optional YAML file with estimator settings")
		damping    = flag.Float64("damping-factor", pagerank.DefaultDampingFactor, "The probability that the random surfer follows a link instead of teleporting")
		samples    = flag.Int("sample-count", pagerank.DefaultSampleCount, "The number of steps in the sampling estimator's random walk")
		threshold  = flag.Float64("convergence-threshold", pagerank.DefaultMinDeltaForConvergence, "The per-page score change below which the iterative estimator stops")
		maxIter    = flag.Int("max-iterations", 0, "Abort the iterative estimator after this many sweeps (0 disables the cap)")
		workers    = flag.Int("compute-workers", runtime.NumCPU(), "The number of workers relaxing page scores (defaults to number of CPUs)")
		seed       = flag.Int64("seed", 0, "Seed for the sampling estimator's random walk (0 seeds from the current time)")
		logLevel   = flag.String("log-level", "info", "Log verbosity (debug, info, warn, error)")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] CORPUS_DIR\n\n", appName)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		return xerrors.New("expected exactly one corpus directory argument")
	}

	if *configPath != "" {
		if err := overlayFileConfig(*configPath, map[string]interface{}{
			"damping-factor":        damping,
			"sample-count":          samples,
			"convergence-threshold": threshold,
			"max-iterations":        maxIter,
			"compute-workers":       workers,
			"seed":                  seed,
			"log-level":             logLevel,
		}); err != nil {
			return err
		}
	}

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		return xerrors.Errorf("parsing log level: %w", err)
	}
	logger.Logger.SetLevel(level)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	start := time.Now()
	cp, err := corpus.FromDir(flag.Arg(0))
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"pages":   len(cp),
		"elapsed": time.Since(start).String(),
	}).Info("corpus loaded")

	cfg := pagerank.Config{
		DampingFactor:          *damping,
		SampleCount:            *samples,
		MinDeltaForConvergence: *threshold,
		MaxIterations:          *maxIter,
		ComputeWorkers:         *workers,
	}
	if *seed != 0 {
		cfg.RandSource = rand.NewSource(*seed)
	}

	sampled, iterated, err := estimate(ctx, logger, cp, cfg)
	if err != nil {
		return err
	}

	printRanks(os.Stdout, fmt.Sprintf("PageRank Results from Sampling (n = %d)", cfg.SampleCount), cp, sampled)
	printRanks(os.Stdout, "PageRank Results from Iteration", cp, iterated)
	return nil
}

// estimate runs the two estimators concurrently; they are independent
// solvers over the same read-only corpus.
func estimate(ctx context.Context, logger *logrus.Entry, cp corpus.Corpus, cfg pagerank.Config) (sampled, iterated pagerank.RankTable, err error) {
	sampler, err := pagerank.NewSampler(cfg)
	if err != nil {
		return nil, nil, err
	}
	calc, err := pagerank.NewCalculator(cfg)
	if err != nil {
		return nil, nil, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := time.Now()
		var err error
		if sampled, err = sampler.Estimate(cp); err != nil {
			return xerrors.Errorf("sampling estimator: %w", err)
		}
		logger.WithFields(logrus.Fields{
			"estimator": "sampling",
			"samples":   cfg.SampleCount,
			"elapsed":   time.Since(start).String(),
		}).Info("estimate complete")
		return nil
	})
	g.Go(func() error {
		start := time.Now()
		var err error
		if iterated, err = calc.Estimate(ctx, cp); err != nil {
			return xerrors.Errorf("iterative estimator: %w", err)
		}
		logger.WithFields(logrus.Fields{
			"estimator": "iteration",
			"elapsed":   time.Since(start).String(),
		}).Info("estimate complete")
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return sampled, iterated, nil
}

// overlayFileConfig loads a YAML settings file and writes its non-zero
// values into the flag targets, except for flags the user set explicitly
// on the command line.
func overlayFileConfig(path string, targets map[string]interface{}) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return xerrors.Errorf("loading config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return xerrors.Errorf("parsing config file %q: %w", path, err)
	}

	setOnCommandLine := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { setOnCommandLine[f.Name] = true })

	apply := func(name string, set func()) {
		if !setOnCommandLine[name] {
			set()
		}
	}
	if fc.DampingFactor != 0 {
		apply("damping-factor", func() { *targets["damping-factor"].(*float64) = fc.DampingFactor })
	}
	if fc.SampleCount != 0 {
		apply("sample-count", func() { *targets["sample-count"].(*int) = fc.SampleCount })
	}
	if fc.ConvergenceThreshold != 0 {
		apply("convergence-threshold", func() { *targets["convergence-threshold"].(*float64) = fc.ConvergenceThreshold })
	}
	if fc.MaxIterations != 0 {
		apply("max-iterations", func() { *targets["max-iterations"].(*int) = fc.MaxIterations })
	}
	if fc.ComputeWorkers != 0 {
		apply("compute-workers", func() { *targets["compute-workers"].(*int) = fc.ComputeWorkers })
	}
	if fc.Seed != 0 {
		apply("seed", func() { *targets["seed"].(*int64) = fc.Seed })
	}
	if fc.LogLevel != "" {
		apply("log-level", func() { *targets["log-level"].(*string) = fc.LogLevel })
	}
	return nil
}

func printRanks(w io.Writer, title string, cp corpus.Corpus, ranks pagerank.RankTable) {
	fmt.Fprintln(w, title)
	for _, page := range cp.Pages() {
		fmt.Fprintf(w, "  %s: %.4f\n", page, ranks[page])
	}
}
