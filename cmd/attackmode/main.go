package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"attackmode/internal/cli"
	"attackmode/internal/config"
	"attackmode/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path"`
	Debug   bool   `help:"Enable debug logging."`

	Serve  cli.ServeCmd  `cmd:"" help:"Run the HTTP server." default:"1"`
	Init   cli.InitCmd   `cmd:"" help:"Initialize the database."`
	Doctor cli.DoctorCmd `cmd:"" help:"Run health diagnostics."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a database snapshot." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available snapshots."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore a snapshot."`
	} `cmd:"" help:"Manage database backups."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("attackmode"),
		kong.Description("Personal productivity tracker: tasks, Power System habits, journal, analytics"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.3.0"},
	)

	configPath := CLI.Config
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(CLI.Debug || cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appCtx := &cli.Context{
		Config: cfg,
		Store:  storage.NewSQLiteStore(cfg.DBPath),
		Log:    logger,
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if debug {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zcfg.Build()
}
