package persistence

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"

	"homewizard-client/internal/domain/model"
)

// YAMLConfigRepository loads the HomeWizard settings from a YAML file.
// Load order is defaults, then the file, then HOMEWIZARD_* environment
// variables. A missing file is not an error.
type YAMLConfigRepository struct {
	filepath string
	mu       sync.RWMutex
}

func NewYAMLConfigRepository(filepath string) *YAMLConfigRepository {
	return &YAMLConfigRepository{filepath: filepath}
}

func (r *YAMLConfigRepository) Get(ctx context.Context) (*model.Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg := model.DefaultConfig()

	data, err := os.ReadFile(r.filepath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", r.filepath, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("reading config file %s: %w", r.filepath, err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg back to the file. Environment overrides are not tracked
// separately, so whatever they contributed is persisted too.
func (r *YAMLConfigRepository) Save(ctx context.Context, cfg *model.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(r.filepath, data, 0600)
}

// applyEnvOverrides follows the pattern HOMEWIZARD_KEY.
func applyEnvOverrides(cfg *model.Config) error {
	if v := os.Getenv("HOMEWIZARD_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("HOMEWIZARD_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HOMEWIZARD_PORT: %w", err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("HOMEWIZARD_PASSWORD"); v != "" {
		cfg.Password = v
	}
	if v := os.Getenv("HOMEWIZARD_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	return nil
}
