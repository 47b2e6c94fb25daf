// Package catalog holds the built-in global exercise catalog.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed global_exercises.yaml
var globalExercisesYAML []byte

const defaultSkillLevel = "intermediate"

// Entry is one catalog exercise.
type Entry struct {
	Name            string   `yaml:"name"`
	PrimaryMuscle   string   `yaml:"primary_muscle"`
	MovementPattern string   `yaml:"movement_pattern"`
	Equipment       string   `yaml:"equipment"`
	SkillLevel      string   `yaml:"skill_level"`
	Unilateral      bool     `yaml:"unilateral"`
	Notes           string   `yaml:"notes"`
	Tags            []string `yaml:"tags"`
}

type document struct {
	Exercises []Entry `yaml:"exercises"`
}

// Global returns the embedded catalog.
func Global() ([]Entry, error) {
	return Parse(globalExercisesYAML)
}

// LoadFile reads a catalog with the same layout as the embedded one.
func LoadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) ([]Entry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse exercise catalog: %w", err)
	}
	for i := range doc.Exercises {
		e := &doc.Exercises[i]
		e.Name = strings.TrimSpace(e.Name)
		if e.SkillLevel == "" {
			e.SkillLevel = defaultSkillLevel
		}
	}
	return doc.Exercises, nil
}
