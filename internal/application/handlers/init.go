package handlers

import (
	"fmt"
	"os"

	"github.com/ersonp/menagerie/internal/infrastructure/config"
)

// InitHandler handles project initialization.
type InitHandler struct{}

// NewInitHandler creates a new init handler.
func NewInitHandler() *InitHandler {
	return &InitHandler{}
}

// InitResult contains the result of initialization.
type InitResult struct {
	ConfigPath string
	SkinsDir   string
}

// Handle writes the default config and creates the skins folder.
func (h *InitHandler) Handle(basePath string) (*InitResult, error) {
	if config.Exists(basePath) {
		return nil, fmt.Errorf("menagerie already initialized in %s", basePath)
	}

	if err := config.WriteDefault(basePath); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}

	cfg, err := config.Load(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	skinsDir := cfg.SkinsDir(basePath)
	if err := os.MkdirAll(skinsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating skins directory: %w", err)
	}

	return &InitResult{
		ConfigPath: config.ConfigFilePath(basePath),
		SkinsDir:   skinsDir,
	}, nil
}
