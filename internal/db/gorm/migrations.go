package gorm

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// runMigrations runs all database migrations using gormigrate.
func runMigrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		// Migration 001: practice history tables.
		{
			ID: "001_practice_tables",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&Session{}); err != nil {
					return err
				}
				return tx.AutoMigrate(&PracticePlan{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("sessions", "practice_plans")
			},
		},

		// Migration 002: content catalog and saves.
		{
			ID: "002_catalog_tables",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&ContentTemplate{}); err != nil {
					return err
				}
				return tx.AutoMigrate(&SavedTemplate{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("content_templates", "saved_templates")
			},
		},

		// Migration 003: singleton affinity profile.
		{
			ID: "003_affinity_profile",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&AffinityProfile{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("affinity_profiles")
			},
		},

		// Migration 004: insights, notifications and course progress.
		{
			ID: "004_reflection_tables",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&Insight{}); err != nil {
					return err
				}
				if err := tx.AutoMigrate(&Notification{}); err != nil {
					return err
				}
				return tx.AutoMigrate(&CourseProgress{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("insights", "notifications", "course_progresses")
			},
		},

		// Migration 005: voice score snapshot.
		{
			ID: "005_voice_snapshot",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&VoiceSnapshot{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("voice_snapshots")
			},
		},
	})

	return m.Migrate()
}
