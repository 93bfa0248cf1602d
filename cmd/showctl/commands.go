package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	catalogueapp "github.com/showring/backend/internal/application/catalogue"
	eligibilityapp "github.com/showring/backend/internal/application/eligibility"
	"github.com/showring/backend/internal/infrastructure/auth"
	"github.com/showring/backend/internal/infrastructure/config"
	"github.com/showring/backend/internal/infrastructure/logger"
	"github.com/showring/backend/internal/infrastructure/persistence"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

type configLoader func() (*config.Config, error)

func newApp(out io.Writer, load configLoader) *cli.App {
	return &cli.App{
		Name:   "showctl",
		Usage:  "operator tasks for the show ring backend",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "warn", Usage: "debug, info, warn or error"},
		},
		Commands: []*cli.Command{
			catalogueCommand(load),
			eligibilityCommand(load),
			tokenCommand(load),
		},
	}
}

func catalogueCommand(load configLoader) *cli.Command {
	showFlags := []cli.Flag{
		&cli.StringFlag{Name: "show", Required: true, Usage: "show id"},
		&cli.StringFlag{Name: "org", Required: true, Usage: "organising society id"},
	}
	return &cli.Command{
		Name:  "catalogue",
		Usage: "catalogue numbering",
		Subcommands: []*cli.Command{
			{
				Name:  "assign",
				Usage: "number the confirmed entries of a show",
				Flags: showFlags,
				Action: func(c *cli.Context) error {
					showID, orgID, err := showAndOrg(c)
					if err != nil {
						return err
					}
					return withDatabase(c, load, func(db *persistence.Database, log *zap.Logger) error {
						svc := catalogueService(db, log)
						res, err := svc.Assign(c.Context, orgID, showID)
						if err != nil {
							return err
						}
						fmt.Fprintf(c.App.Writer, "Numbered %d entries\n", res.Count)
						return nil
					})
				},
			},
			{
				Name:  "list",
				Usage: "print the numbered catalogue",
				Flags: showFlags,
				Action: func(c *cli.Context) error {
					showID, orgID, err := showAndOrg(c)
					if err != nil {
						return err
					}
					return withDatabase(c, load, func(db *persistence.Database, log *zap.Logger) error {
						listings, err := catalogueService(db, log).List(c.Context, orgID, showID)
						if err != nil {
							return err
						}
						for _, l := range listings {
							fmt.Fprintf(c.App.Writer, "%5s  %-30s %-25s %s\n", l.Number, l.DogName, l.BreedName, l.Sex)
						}
						return nil
					})
				},
			},
		},
	}
}

func eligibilityCommand(load configLoader) *cli.Command {
	return &cli.Command{
		Name:  "eligibility",
		Usage: "print a dog's class eligibility and title progress as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dog", Required: true, Usage: "dog id"},
			&cli.BoolFlag{Name: "field-trial-evidence", Usage: "count a recorded field trial award"},
		},
		Action: func(c *cli.Context) error {
			dogID, err := uuid.Parse(c.String("dog"))
			if err != nil {
				return fmt.Errorf("invalid --dog: %w", err)
			}
			return withDatabase(c, load, func(db *persistence.Database, log *zap.Logger) error {
				svc := eligibilityapp.NewService(
					persistence.NewGormDogRepository(db.DB),
					persistence.NewGormResultRepository(db.DB),
					persistence.NewGormAchievementRepository(db.DB),
					log,
				)
				report, err := svc.Evaluate(c.Context, eligibilityapp.Requester{IsSecretary: true}, dogID, c.Bool("field-trial-evidence"))
				if err != nil {
					return err
				}
				enc := json.NewEncoder(c.App.Writer)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			})
		},
	}
}

func tokenCommand(load configLoader) *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "issue a bearer token for local testing",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user", Usage: "user id (random when empty)"},
			&cli.StringFlag{Name: "org", Usage: "organisation id, required for secretaries"},
			&cli.StringFlag{Name: "role", Value: string(auth.RoleExhibitor), Usage: "exhibitor or secretary"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.App.Env == "production" {
				return fmt.Errorf("refusing to issue tokens in production")
			}

			id := auth.Identity{Role: auth.Role(c.String("role"))}
			if !id.Role.IsValid() {
				return fmt.Errorf("unknown role %q", c.String("role"))
			}
			id.UserID = uuid.New()
			if raw := c.String("user"); raw != "" {
				if id.UserID, err = uuid.Parse(raw); err != nil {
					return fmt.Errorf("invalid --user: %w", err)
				}
			}
			if raw := c.String("org"); raw != "" {
				if id.OrganisationID, err = uuid.Parse(raw); err != nil {
					return fmt.Errorf("invalid --org: %w", err)
				}
			}
			if id.IsSecretary() && id.OrganisationID == uuid.Nil {
				return fmt.Errorf("--org is required for secretaries")
			}

			token, expires, err := auth.NewJWTService(cfg.JWT).Issue(id)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, token)
			fmt.Fprintf(c.App.ErrWriter, "user %s, expires %s\n", id.UserID, expires.Format(time.RFC3339))
			return nil
		},
	}
}

func showAndOrg(c *cli.Context) (showID, orgID uuid.UUID, err error) {
	if showID, err = uuid.Parse(c.String("show")); err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid --show: %w", err)
	}
	if orgID, err = uuid.Parse(c.String("org")); err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid --org: %w", err)
	}
	return showID, orgID, nil
}

func catalogueService(db *persistence.Database, log *zap.Logger) *catalogueapp.Service {
	return catalogueapp.NewService(catalogueapp.ServiceConfig{
		Shows:      persistence.NewGormShowRepository(db.DB),
		Repository: persistence.NewGormCatalogueRepository(db.DB),
		Scope:      persistence.NewGormTransactionScope(db.DB).CatalogueScope(),
		Logger:     log,
	})
}

// withDatabase opens the configured database for the duration of fn
func withDatabase(c *cli.Context, load configLoader, fn func(db *persistence.Database, log *zap.Logger) error) error {
	cfg, err := load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{
		Level:  c.String("log-level"),
		Format: "console",
		Output: "stderr",
	}, cfg.App.Env)
	defer func() {
		_ = log.Sync()
	}()

	db, err := persistence.NewDatabase(&cfg.Database, persistence.Options{
		Logger:   log,
		LogLevel: logger.GormLevel(c.String("log-level")),
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("Failed to close database", zap.Error(err))
		}
	}()
	return fn(db, log)
}
