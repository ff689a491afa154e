package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TrellixVulnTeam/Market-Learn-B049/internal/app"
	"github.com/TrellixVulnTeam/Market-Learn-B049/internal/fit"
	"github.com/TrellixVulnTeam/Market-Learn-B049/internal/infra"
	"github.com/TrellixVulnTeam/Market-Learn-B049/internal/infra/plotfeed"
	"github.com/TrellixVulnTeam/Market-Learn-B049/internal/markov"
	"github.com/TrellixVulnTeam/Market-Learn-B049/internal/plot"
	"github.com/TrellixVulnTeam/Market-Learn-B049/internal/sim"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath); err != nil {
		slog.Error("bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := bootstrap.Config

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var feed *plotfeed.Server
	if cfg.Output.StreamAddr != "" {
		feed = plotfeed.NewServer()
		go func() {
			if err := feed.Start(ctx, cfg.Output.StreamAddr); err != nil {
				slog.Error("plot feed failed", slog.Any("error", err))
			}
		}()
	}

	slog.Info("simulator starting",
		slog.String("app", cfg.App.Name),
		slog.Int64("seed", cfg.Simulation.Seed))

	if err := runSFGK(bootstrap, feed); err != nil {
		slog.Error("sfgk simulation failed", slog.Any("error", err))
		os.Exit(1)
	}
	if err := runCST(bootstrap, feed); err != nil {
		slog.Error("cst simulation failed", slog.Any("error", err))
		os.Exit(1)
	}
	if err := runEstimators(bootstrap); err != nil {
		slog.Error("estimators failed", slog.Any("error", err))
		os.Exit(1)
	}

	snap := infra.GlobalMetrics.Snapshot()
	slog.Info("session complete",
		slog.Uint64("events", snap.EventsGenerated),
		slog.Uint64("trials", snap.TrialsRun),
		slog.Uint64("degenerate_skips", snap.DegenerateSkips),
		slog.Duration("avg_run", snap.AvgRunDuration))
}

func runSFGK(b *app.Bootstrap, feed *plotfeed.Server) error {
	cfg := b.Config
	model := sim.SFGK{
		Mu:     cfg.SFGK.Mu,
		Lambda: cfg.SFGK.Lambda,
		Theta:  cfg.SFGK.Theta,
		L:      cfg.SFGK.Window,
	}

	start := time.Now()
	res, err := sim.Ensemble(sim.EnsembleConfig{
		Levels:       cfg.Book.Levels,
		Depth:        cfg.Book.Depth,
		MaxEvents:    cfg.SFGK.MaxEvents,
		Replications: cfg.SFGK.Replications,
		Workers:      cfg.Simulation.Workers,
		Seed:         cfg.Simulation.Seed,
	}, model)
	if err != nil {
		return err
	}
	infra.GlobalMetrics.RecordRun(res.Samples, res.Skipped, time.Since(start))

	slog.Info("sfgk average shape computed",
		slog.Int("band", res.Band),
		slog.Int("samples", res.Samples),
		slog.Int("skipped", res.Skipped))

	if b.Storage != nil {
		if _, err := b.Storage.SaveShapeRun("sfgk", model, res.Samples, res.Skipped, res.Shape); err != nil {
			return err
		}
	}
	if feed != nil {
		feed.Broadcast(plotfeed.MakeSeries("sfgk_shape", -res.Band, res.Shape))
	}
	if cfg.Output.ChartPath != "" {
		if err := plot.RenderShape(cfg.Output.ChartPath, res.Shape); err != nil {
			slog.Warn("chart render failed", slog.Any("error", err))
		}
	}

	// Fit the decay of the symmetrized shape away from the mid.
	sym := res.Symmetrize()
	if len(sym) > 1 {
		law, err := fit.Decay(sym[1:])
		if err != nil {
			slog.Warn("power-law fit failed", slog.Any("error", err))
		} else {
			slog.Info("sfgk shape decay",
				slog.Float64("k", law.K),
				slog.Float64("alpha", law.Alpha))
		}
	}
	return nil
}

func runCST(b *app.Bootstrap, feed *plotfeed.Server) error {
	cfg := b.Config
	model := sim.CST{
		Mu:      cfg.CST.Mu,
		Lambdas: cfg.CST.Lambdas,
		Thetas:  cfg.CST.Thetas,
	}
	if err := model.Validate(); err != nil {
		return err
	}

	start := time.Now()
	res, err := sim.Ensemble(sim.EnsembleConfig{
		Levels:       cfg.Book.Levels,
		Depth:        cfg.Book.Depth,
		MaxEvents:    cfg.CST.MaxEvents,
		Replications: cfg.CST.Replications,
		Workers:      cfg.Simulation.Workers,
		Seed:         cfg.Simulation.Seed + 1,
	}, model)
	if err != nil {
		return err
	}
	infra.GlobalMetrics.RecordRun(res.Samples, res.Skipped, time.Since(start))

	sym := res.Symmetrize()
	slog.Info("cst symmetrized shape computed",
		slog.Int("band", res.Band),
		slog.Int("samples", res.Samples),
		slog.Int("skipped", res.Skipped))

	if b.Storage != nil {
		if _, err := b.Storage.SaveShapeRun("cst", model, res.Samples, res.Skipped, res.Shape); err != nil {
			return err
		}
	}
	if feed != nil {
		feed.Broadcast(plotfeed.MakeSeries("cst_shape_symmetrized", 0, sym))
	}
	return nil
}

func runEstimators(b *app.Bootstrap) error {
	cfg := b.Config
	est := markov.Estimator{
		Rates: markov.Rates{
			Mu:     cfg.Estimators.Mu,
			Lambda: cfg.Estimators.Lambda,
			Theta:  cfg.Estimators.Theta,
		},
		Trials:  cfg.Estimators.Trials,
		Workers: cfg.Simulation.Workers,
		Seed:    cfg.Simulation.Seed,
	}
	q := cfg.Estimators.QueueSize

	pMid, err := est.MidPriceUp(q, q)
	if err != nil {
		return err
	}
	infra.GlobalMetrics.RecordTrials(est.Trials)
	slog.Info("mid price up probability", slog.Float64("p", pMid))

	// With symmetric queues the chain is unbiased; flag drift beyond
	// the configured tolerance.
	tolerance := cfg.ToleranceDecimal()
	drift := decimal.NewFromFloat(pMid).Sub(decimal.NewFromFloat(0.5)).Abs()
	if !tolerance.IsZero() && drift.GreaterThan(tolerance) {
		slog.Warn("mid price estimate drifted from symmetric expectation",
			slog.String("drift", drift.String()),
			slog.String("tolerance", tolerance.String()))
	}

	pExec, err := est.LimitOrderExecution(q, q, q)
	if err != nil {
		return err
	}
	infra.GlobalMetrics.RecordTrials(est.Trials)
	slog.Info("limit order execution probability", slog.Float64("p", pExec))

	pSpread, err := est.MakingSpread(q, q, q, q)
	if err != nil {
		return err
	}
	infra.GlobalMetrics.RecordTrials(est.Trials)
	slog.Info("making the spread probability", slog.Float64("p", pSpread))

	if b.Storage != nil {
		params := map[string]any{
			"mu": est.Rates.Mu, "lambda": est.Rates.Lambda, "theta": est.Rates.Theta,
			"queue_size": q, "seed": est.Seed, "workers": est.Workers,
		}
		for name, p := range map[string]float64{
			"mid_price_up":          pMid,
			"limit_order_execution": pExec,
			"making_spread":         pSpread,
		} {
			if _, err := b.Storage.SaveEstimate(name, params, est.Trials, p); err != nil {
				return err
			}
		}
	}
	return nil
}
