package main

import (
	"context"
	"fmt"
	"os"

	"github.com/thrasher-corp/perpbacktester/data/kline/database"
	"github.com/thrasher-corp/perpbacktester/log"
	"github.com/thrasher-corp/perpbacktester/signaler"
	"github.com/urfave/cli/v2"
)

const defaultLogLevel = "INFO|WARN|ERROR"

var (
	verbose bool
	noLogo  bool
)

func main() {
	app := cli.NewApp()
	app.Name = "backtester"
	app.Usage = "replays candles through a strategy trading simulated perpetual swaps"
	app.EnableBashCompletion = true
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:        "verbose",
			Aliases:     []string{"v"},
			Usage:       "log every order, funding payment and skipped candle",
			Destination: &verbose,
		},
		&cli.BoolFlag{
			Name:        "nologo",
			Usage:       "do not print the logo before running",
			Destination: &noLogo,
		},
		&cli.StringFlag{
			Name:        "migrationdir",
			Usage:       "folder of the sqlite candle schema migrations",
			Value:       database.MigrationDir,
			Destination: &database.MigrationDir,
		},
	}
	app.Before = setupLogger
	app.Commands = []*cli.Command{
		runCommand,
		sweepCommand,
		seedCommand,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-signaler.WaitForInterrupt()
		fmt.Println("backtester process interrupted")
		cancel()
	}()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Errorln(log.Global, err)
		os.Exit(1)
	}
}

func setupLogger(*cli.Context) error {
	cfg := log.GenDefaultSettings()
	if verbose {
		cfg.Level = defaultLogLevel + "|DEBUG"
	}
	if err := log.SetGlobalLogConfig(cfg); err != nil {
		return err
	}
	return log.SetupGlobalLogger()
}
