package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/riskibarqy/pickup-football/internal/platform/logging"
	"github.com/urfave/cli/v2"
)

const (
	dbURLFlag         = "db-url"
	migrationsDirFlag = "dir"
)

func main() {
	logger := logging.NewConsole(logging.LevelInfo).Named("migration")
	var m *migrate.Migrate

	app := &cli.App{
		Name:  "migration",
		Usage: "Apply or roll back the pickup-football schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     dbURLFlag,
				Usage:    "PostgreSQL connection URL",
				EnvVars:  []string{"DB_URL"},
				Required: true,
			},
			&cli.StringFlag{
				Name:    migrationsDirFlag,
				Usage:   "Directory holding the *.sql migrations",
				EnvVars: []string{"MIGRATIONS_DIR", "MIGRATIONS_PATH"},
			},
		},
		Before: func(cCtx *cli.Context) error {
			migrationsDir, err := resolveMigrationsDir(cCtx.String(migrationsDirFlag))
			if err != nil {
				return err
			}
			sourceURL := "file://" + filepath.ToSlash(migrationsDir)
			m, err = migrate.New(sourceURL, strings.TrimSpace(cCtx.String(dbURLFlag)))
			if err != nil {
				return fmt.Errorf("create migrator: %w", err)
			}
			logger.Debug("migrator ready", "source", sourceURL)
			return nil
		},
		After: func(*cli.Context) error {
			if m == nil {
				return nil
			}
			srcErr, dbErr := m.Close()
			if srcErr != nil {
				logger.Warn("close migration source", "error", srcErr)
			}
			if dbErr != nil {
				logger.Warn("close migration db", "error", dbErr)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply all pending migrations",
				Action: func(*cli.Context) error {
					if err := ignoreNoChange(m.Up(), logger); err != nil {
						return err
					}
					logger.Info("migrations applied")
					return nil
				},
			},
			{
				Name:      "down",
				Usage:     "Roll back migrations",
				ArgsUsage: "[steps]",
				Action: func(cCtx *cli.Context) error {
					steps, err := parseSteps(cCtx.Args().First())
					if err != nil {
						return err
					}
					if err := ignoreNoChange(m.Steps(-steps), logger); err != nil {
						return err
					}
					logger.Info("rolled back migrations", "steps", steps)
					return nil
				},
			},
			{
				Name:  "version",
				Usage: "Print the current schema version",
				Action: func(*cli.Context) error {
					version, dirty, err := m.Version()
					if errors.Is(err, migrate.ErrNilVersion) {
						fmt.Println("version: none")
						fmt.Println("dirty: false")
						return nil
					}
					if err != nil {
						return fmt.Errorf("read version: %w", err)
					}
					fmt.Printf("version: %d\n", version)
					fmt.Printf("dirty: %t\n", dirty)
					return nil
				},
			},
			{
				Name:      "force",
				Usage:     "Set the schema version without running migrations",
				ArgsUsage: "<version>",
				Action: func(cCtx *cli.Context) error {
					version, err := parseVersion(cCtx.Args().First())
					if err != nil {
						return err
					}
					if err := m.Force(version); err != nil {
						return fmt.Errorf("force version %d: %w", version, err)
					}
					logger.Info("forced version", "version", version)
					return nil
				},
			},
			{
				Name:      "goto",
				Aliases:   []string{"migrate"},
				Usage:     "Migrate up or down to a target version",
				ArgsUsage: "<version>",
				Action: func(cCtx *cli.Context) error {
					target, err := parseTarget(cCtx.Args().First())
					if err != nil {
						return err
					}
					if err := ignoreNoChange(m.Migrate(target), logger); err != nil {
						return err
					}
					logger.Info("migrated", "version", target)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func parseSteps(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return 1, nil
	}

	steps, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid down steps %q: %w", raw, err)
	}
	if steps <= 0 {
		return 0, fmt.Errorf("down steps must be > 0")
	}

	return steps, nil
}

func parseVersion(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, fmt.Errorf("force requires a version argument")
	}
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", raw, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("version must be >= 0")
	}
	if value > int64(^uint(0)>>1) {
		return 0, fmt.Errorf("version is too large for this platform")
	}

	return int(value), nil
}

func parseTarget(raw string) (uint, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, fmt.Errorf("goto requires a target version argument")
	}
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid target version %q: %w", raw, err)
	}
	return uint(value), nil
}

func ignoreNoChange(err error, logger *logging.Logger) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return nil
	}
	return err
}

func resolveMigrationsDir(explicit string) (string, error) {
	candidates := []string{
		strings.TrimSpace(explicit),
		"./db/migrations",
		"/app/db/migrations",
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			continue
		}
		return abs, nil
	}

	return "", fmt.Errorf("migration directory not found (checked --dir, ./db/migrations, /app/db/migrations)")
}
