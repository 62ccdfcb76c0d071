package cmd

import (
	"fmt"
	"os"

	"github.com/skilldock/skilldock/internal/core"
)

// deps holds shared dependencies for CLI commands.
type deps struct {
	settings  *core.SettingsManager
	registry  *core.Registry
	installer *core.Installer
}

// newDeps creates shared dependencies. Called lazily by commands that need them.
func newDeps() (*deps, error) {
	sm, err := core.NewSettingsManager()
	if err != nil {
		return nil, fmt.Errorf("initializing settings: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting current directory: %w", err)
	}

	return &deps{
		settings:  sm,
		registry:  core.NewRegistry(sm, cwd),
		installer: core.NewInstaller(sm, cwd),
	}, nil
}
