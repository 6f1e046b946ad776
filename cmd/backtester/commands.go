package main

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/thrasher-corp/perpbacktester/common"
	"github.com/thrasher-corp/perpbacktester/common/file"
	"github.com/thrasher-corp/perpbacktester/config"
	"github.com/thrasher-corp/perpbacktester/data/kline"
	"github.com/thrasher-corp/perpbacktester/data/kline/csv"
	"github.com/thrasher-corp/perpbacktester/data/kline/database"
	"github.com/thrasher-corp/perpbacktester/engine"
	"github.com/thrasher-corp/perpbacktester/log"
	"github.com/thrasher-corp/perpbacktester/strategies"
	"github.com/urfave/cli/v2"
)

var configFlag = &cli.StringFlag{
	Name:     "config",
	Aliases:  []string{"c"},
	Usage:    "the run config file to load",
	Required: true,
}

var resampleFlag = &cli.DurationFlag{
	Name:  "resample",
	Usage: "aggregate the loaded candles into this interval eg 15m",
}

var runCommand = &cli.Command{
	Name:  "run",
	Usage: "runs a single backtest from a config file",
	Flags: []cli.Flag{
		configFlag,
		resampleFlag,
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "write the report as JSON to this path",
		},
	},
	Action: runStrategy,
}

var sweepCommand = &cli.Command{
	Name:  "sweep",
	Usage: "runs the config once per leverage in parallel and compares the results",
	Flags: []cli.Flag{
		configFlag,
		resampleFlag,
		&cli.Int64SliceFlag{
			Name:  "leverage",
			Usage: "the leverages to run",
			Value: cli.NewInt64Slice(1, 2, 3, 5, 10),
		},
		&cli.IntFlag{
			Name:  "parallel",
			Usage: "the maximum number of runs in flight",
			Value: runtime.NumCPU(),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "write the run summaries as JSON to this path",
		},
	},
	Action: sweep,
}

var seedCommand = &cli.Command{
	Name:      "seed",
	Usage:     "imports candles from a CSV file into a sqlite database",
	ArgsUsage: "<csv path>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "database",
			Usage:    "the sqlite database path, created if missing",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "symbol",
			Usage:    "the symbol to store the candles under eg BTCUSDT",
			Required: true,
		},
	},
	Action: seed,
}

func runStrategy(c *cli.Context) error {
	printLogo()
	cfg, err := readConfig(c.String("config"))
	if err != nil {
		return err
	}
	cfg.PrintSetting()

	candles, err := loadCandles(c.Context, &cfg.DataSettings, filepath.Dir(c.String("config")), c.Duration("resample"))
	if err != nil {
		return err
	}
	e, err := newEngine(cfg, 0)
	if err != nil {
		return err
	}
	rep, err := e.Run(c.Context, candles)
	if err != nil {
		return err
	}
	rep.PrintResults()

	if out := c.String("output"); out != "" {
		resp, err := rep.Serialise()
		if err != nil {
			return err
		}
		if err := file.Write(out, []byte(resp)); err != nil {
			return err
		}
		log.Infof(log.Report, "Report written to %v", out)
	}
	return nil
}

func sweep(c *cli.Context) error {
	printLogo()
	cfg, err := readConfig(c.String("config"))
	if err != nil {
		return err
	}
	candles, err := loadCandles(c.Context, &cfg.DataSettings, filepath.Dir(c.String("config")), c.Duration("resample"))
	if err != nil {
		return err
	}

	rm := engine.SetupRunManager()
	for _, leverage := range c.Int64Slice("leverage") {
		e, err := newEngine(cfg, leverage)
		if err != nil {
			return err
		}
		if err := rm.AddRun(e); err != nil {
			return err
		}
	}
	runErr := rm.RunAll(c.Context, candles, c.Int("parallel"))

	summaries, err := rm.List()
	if err != nil {
		return err
	}
	log.Info(log.Report, "------------------Sweep Results-------------------------------")
	for i := range summaries {
		rep, err := rm.GetReport(summaries[i].ID)
		if err != nil {
			log.Warnf(log.Report, "Leverage %v: %v %v", summaries[i].Leverage, summaries[i].Status, summaries[i].Error)
			continue
		}
		stats, err := rep.Statistics()
		if err != nil {
			log.Infof(log.Report, "Leverage %v: %v, no trades", summaries[i].Leverage, summaries[i].Status)
			continue
		}
		log.Infof(log.Report, "Leverage %v: return %v%% max drawdown %v%% sharpe %v funding %v",
			summaries[i].Leverage,
			stats.CumulativeReturnPercent.StringFixed(2),
			stats.MaxDrawdownPercent.StringFixed(2),
			stats.SharpeRatio.StringFixed(2),
			stats.TotalFunding.StringFixed(rep.Settings.QuotePrecision))
	}

	if out := c.String("output"); out != "" {
		if err := writeJSON(out, summaries); err != nil {
			return err
		}
	}
	return runErr
}

func seed(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.ShowSubcommandHelp(c)
	}
	candles, err := csv.LoadFromFile(c.Args().First())
	if err != nil {
		return err
	}
	db, err := database.Connect(c.Context, c.String("database"))
	if err != nil {
		return err
	}
	defer db.Close()
	n, err := database.Insert(c.Context, db, c.String("symbol"), candles)
	if err != nil {
		return err
	}
	log.Infof(log.DataLoader, "Stored %v %v candles in %v", n, c.String("symbol"), c.String("database"))
	return nil
}

func printLogo() {
	if !noLogo {
		fmt.Print(common.ASCIILogo)
	}
}

func readConfig(path string) (*config.RunConfig, error) {
	cfg, err := config.ReadConfigFromFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	return cfg, nil
}

// newEngine builds an engine with a fresh strategy from the run config. A
// leverage above zero overrides the configured leverage
func newEngine(cfg *config.RunConfig, leverage int64) (*engine.Engine, error) {
	strat, err := strategies.LoadStrategyByName(cfg.StrategySettings.Name)
	if err != nil {
		return nil, err
	}
	if len(cfg.StrategySettings.CustomSettings) > 0 {
		if err := strat.SetCustomSettings(cfg.StrategySettings.CustomSettings); err != nil {
			return nil, err
		}
	}
	sim, err := cfg.SimulationConfig()
	if err != nil {
		return nil, err
	}
	if leverage > 0 {
		if err := sim.SetLeverage(leverage); err != nil {
			return nil, err
		}
	}
	return engine.New(strat, sim, cfg.InitialFunds)
}

// loadCandles reads the configured data source and warns about missing
// periods. Relative CSV and database paths are resolved against baseDir. A
// resample interval above zero aggregates the candles
func loadCandles(ctx context.Context, d *config.DataSettings, baseDir string, resample time.Duration) ([]kline.Candle, error) {
	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}
	var (
		candles []kline.Candle
		err     error
	)
	switch {
	case d.CSVData != nil:
		candles, err = csv.LoadFromFile(resolve(d.CSVData.FullPath))
	case d.DatabaseData != nil:
		db, dbErr := database.Connect(ctx, resolve(d.DatabaseData.Path))
		if dbErr != nil {
			return nil, dbErr
		}
		defer db.Close()
		candles, err = database.Series(ctx, db, d.DatabaseData.Symbol, d.DatabaseData.StartDate, d.DatabaseData.EndDate)
	default:
		return nil, fmt.Errorf("data settings %w", common.ErrNilArguments)
	}
	if err != nil {
		return nil, err
	}
	log.Infof(log.DataLoader, "Loaded %v candles", len(candles))

	if interval := kline.Interval(candles); interval > 0 {
		gaps, err := kline.MissingRanges(candles, interval)
		if err != nil {
			return nil, err
		}
		for i := range gaps {
			log.Warnf(log.DataLoader, "No candles from %v", gaps[i])
		}
	}
	if resample > 0 {
		if candles, err = kline.Resample(candles, resample); err != nil {
			return nil, err
		}
		log.Infof(log.DataLoader, "Resampled to %v %v candles", len(candles), resample)
	}
	return candles, nil
}

func writeJSON(path string, v any) error {
	resp, err := json.MarshalIndent(v, "", " ")
	if err != nil {
		return err
	}
	return file.Write(path, resp)
}
