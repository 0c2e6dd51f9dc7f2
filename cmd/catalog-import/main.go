// Package main imports a YAML content catalog into the stillpoint database.
// The worker does this on startup; this tool seeds or refreshes a database
// without running the worker.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/stillpoint-app/stillpoint/internal/catalog"
	"github.com/stillpoint-app/stillpoint/internal/config"
	"github.com/stillpoint-app/stillpoint/internal/db/gorm"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	catalogPath := flag.String("catalog", config.GetCatalogPath(), "path to the catalog YAML file")
	dbPath := flag.String("db", config.GetDBPath(), "path to the database file")
	flag.Parse()

	file, err := catalog.Load(*catalogPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *catalogPath).Msg("Failed to load catalog")
	}

	if err := config.EnsureDataDir(); err != nil {
		log.Fatal().Err(err).Msg("Failed to create data directory")
	}
	store, err := gorm.NewStore(gorm.Config{Path: *dbPath})
	if err != nil {
		log.Fatal().Err(err).Str("path", *dbPath).Msg("Failed to open database")
	}
	defer store.Close()

	templates := gorm.NewTemplateStore(store)

	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		for _, tpl := range file.Templates {
			if err := templates.UpsertTemplate(ctx, tpl.ToModel()); err != nil {
				return err
			}
		}
		return nil
	})
	g.Go(func() error {
		existing, err := templates.ListCourses(ctx)
		if err != nil {
			return err
		}
		known := make(map[string]bool, len(existing))
		for _, c := range existing {
			known[c.CourseID] = true
		}
		for _, course := range file.Courses {
			// Known courses keep their progress.
			if known[course.ID] {
				continue
			}
			if err := templates.UpsertCourse(ctx, course.ToModel()); err != nil {
				return err
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("Import failed")
	}

	log.Info().
		Int("templates", len(file.Templates)).
		Int("courses", len(file.Courses)).
		Str("db", *dbPath).
		Msg("Catalog imported")
}
