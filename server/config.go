package main

import (
	"fmt"
	"os"

	"github.com/aljokwa/brandonJJGame/game"
)

// LoadTuning reads gameplay constants from a YAML file. Keys missing from
// the file keep their defaults. An empty path returns the defaults.
func LoadTuning(path string) (game.Tuning, error) {
	if path == "" {
		return game.DefaultTuning(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return game.DefaultTuning(), fmt.Errorf("config: read %s: %w", path, err)
	}
	t, err := game.ParseTuning(data)
	if err != nil {
		return t, fmt.Errorf("config: %s: %w", path, err)
	}
	return t, nil
}
