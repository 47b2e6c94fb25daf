package main

import (
	"alcyxob/trainer-planner/internal/catalog"
	"alcyxob/trainer-planner/internal/config"
	"alcyxob/trainer-planner/internal/logger"
	"alcyxob/trainer-planner/internal/repository/backend"
	"alcyxob/trainer-planner/internal/service"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
)

// CLI seeds the global exercise catalog. Re-running it is safe.
type CLI struct {
	ConfigDir string        `help:"Directory holding config.yaml" default:"." type:"path"`
	Catalog   string        `help:"YAML catalog file to seed instead of the embedded one" type:"existingfile"`
	Driver    string        `help:"Override database.driver (mongo, postgres, sqlite)"`
	DSN       string        `help:"Override database.dsn" name:"dsn"`
	DryRun    bool          `help:"Print what would be inserted without writing"`
	Timeout   time.Duration `help:"Overall timeout" default:"2m"`
}

func (c *CLI) Run() error {
	cfg, err := config.LoadConfig(c.ConfigDir)
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	if c.Driver != "" {
		cfg.Database.Driver = c.Driver
	}
	if c.DSN != "" {
		cfg.Database.DSN = c.DSN
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return err
	}
	defer log.Sync()

	entries, err := c.entries()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()
	store, closeStore, err := backend.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer closeStore()

	if c.DryRun {
		existing, err := store.Exercises.ListGlobalNames(ctx)
		if err != nil {
			return err
		}
		rows := service.PlanGlobalSeed(existing, entries)
		for _, r := range rows {
			fmt.Printf("+ %s (%s)\n", r.Name, r.PrimaryMuscle)
		}
		fmt.Printf("%d to create, %d already present or skipped\n", len(rows), len(entries)-len(rows))
		return nil
	}

	result, err := service.SeedGlobalExercises(ctx, store.Exercises, entries, log)
	if err != nil {
		return err
	}
	fmt.Printf("created %d, skipped %d\n", result.Created, result.Skipped)
	return nil
}

func (c *CLI) entries() ([]catalog.Entry, error) {
	if c.Catalog != "" {
		return catalog.LoadFile(c.Catalog)
	}
	return catalog.Global()
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("seed"),
		kong.Description("Seed the global exercise catalog."),
		kong.UsageOnError(),
	)
	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
