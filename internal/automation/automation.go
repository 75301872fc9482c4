// Package automation runs console command scripts without a player.
package automation

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/boxlight/internal/console"
	"github.com/san-kum/boxlight/internal/diag"
)

// Script is a named list of console commands.
type Script struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Commands    []string `yaml:"commands"`
}

// LoadScript loads a script from a YAML file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	return &s, nil
}

// Check parses every command without running any, so a typo on the last
// line does not cost a full render first.
func (s *Script) Check() error {
	for i, line := range s.Commands {
		if _, err := console.Parse(line); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

// Run executes the commands in order against t. It stops after quit and
// returns the number of steps executed.
func Run(ctx context.Context, s *Script, t console.Target, sink diag.Sink) (int, error) {
	sink = diag.Or(sink)
	if err := s.Check(); err != nil {
		return 0, err
	}

	for i, line := range s.Commands {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		cmd, _ := console.Parse(line)
		sink.Printf("Running step %d/%d: %s", i+1, len(s.Commands), cmd)
		if console.Run(ctx, cmd, t, sink) {
			return i + 1, nil
		}
	}
	return len(s.Commands), nil
}
