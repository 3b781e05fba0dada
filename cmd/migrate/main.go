package main

import (
	"embed"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"

	"github.com/JaimeStill/chorus/internal/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

const envDSN = "CHORUS_DB_DSN"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func newSource() (source.Driver, error) {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}
	return src, nil
}

// resolveDSN prefers the flag, then CHORUS_DB_DSN, then the database
// section of the service config.
func resolveDSN(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv(envDSN); v != "" {
		return v, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("load config: %w", err)
	}
	return cfg.Database.URL(), nil
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(out)

	var (
		dsn     = fs.String("dsn", "", "Database connection string (default from config)")
		up      = fs.Bool("up", false, "Run all up migrations")
		down    = fs.Bool("down", false, "Run all down migrations")
		steps   = fs.Int("steps", 0, "Number of migrations (positive=up, negative=down)")
		version = fs.Bool("version", false, "Print current migration version")
		force   = fs.Int("force", -1, "Force set version (use with caution)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	forceSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "force" {
			forceSet = true
		}
	})

	if !*version && !forceSet && !*up && !*down && *steps == 0 {
		fmt.Fprintln(out, "usage: migrate [-dsn <connection-string>] [-up|-down|-steps N|-version|-force N]")
		fs.PrintDefaults()
		return nil
	}

	url, err := resolveDSN(*dsn)
	if err != nil {
		return err
	}

	src, err := newSource()
	if err != nil {
		return err
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	switch {
	case *version:
		v, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			return fmt.Errorf("get version: %w", err)
		}
		fmt.Fprintf(out, "version: %d, dirty: %v\n", v, dirty)
	case forceSet:
		if err := m.Force(*force); err != nil {
			return fmt.Errorf("force version: %w", err)
		}
		fmt.Fprintf(out, "forced to version %d\n", *force)
	case *up:
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("run up migrations: %w", err)
		}
		fmt.Fprintln(out, "migrations applied successfully")
	case *down:
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("run down migrations: %w", err)
		}
		fmt.Fprintln(out, "migrations reverted successfully")
	case *steps != 0:
		if err := m.Steps(*steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("run migrations: %w", err)
		}
		fmt.Fprintf(out, "applied %d migration steps\n", *steps)
	}

	return nil
}
