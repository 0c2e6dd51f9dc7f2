// Package catalog loads the guided-content catalog from a YAML file.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stillpoint-app/stillpoint/pkg/models"
)

// File is the on-disk catalog document.
type File struct {
	Templates []Template `yaml:"templates"`
	Courses   []Course   `yaml:"courses"`
}

// Template is one catalog entry as written in YAML.
type Template struct {
	ID                 string   `yaml:"id"`
	Title              string   `yaml:"title"`
	Discipline         string   `yaml:"discipline"`
	IntentTags         []string `yaml:"intent_tags"`
	BestTime           string   `yaml:"best_time"`
	DurationGuidance   string   `yaml:"duration_guidance"`
	MinExperienceHours float64  `yaml:"min_experience_hours"`
	Karma              int      `yaml:"karma"`
	Saves              int      `yaml:"saves"`
	Completions        int      `yaml:"completions"`
}

// Course is one multi-step course as written in YAML.
type Course struct {
	ID         string `yaml:"id"`
	Title      string `yaml:"title"`
	TotalSteps int    `yaml:"total_steps"`
}

// Load reads and validates a catalog file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	for i, tpl := range file.Templates {
		if tpl.ID == "" {
			return nil, fmt.Errorf("catalog template %d: missing id", i)
		}
		if tpl.Title == "" {
			return nil, fmt.Errorf("catalog template %q: missing title", tpl.ID)
		}
	}
	for i, course := range file.Courses {
		if course.ID == "" {
			return nil, fmt.Errorf("catalog course %d: missing id", i)
		}
	}
	return &file, nil
}

// ToModel converts a YAML template into the domain model.
func (t Template) ToModel() *models.ContentTemplate {
	return &models.ContentTemplate{
		ID:                 t.ID,
		Title:              t.Title,
		Discipline:         t.Discipline,
		IntentTags:         models.JSONStringArray(t.IntentTags),
		BestTime:           t.BestTime,
		DurationGuidance:   t.DurationGuidance,
		MinExperienceHours: t.MinExperienceHours,
		Karma:              t.Karma,
		Saves:              t.Saves,
		Completions:        t.Completions,
	}
}

// ToModel converts a YAML course into a zero-progress domain model.
func (c Course) ToModel() *models.CourseProgress {
	return &models.CourseProgress{
		CourseID:   c.ID,
		Title:      c.Title,
		TotalSteps: c.TotalSteps,
	}
}
