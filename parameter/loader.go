package parameter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load resolves the kernel configuration.
// Search order: customPath -> ./configs/simplane.yaml -> Default()
func Load(customPath string) (Config, error) {
	cfg := Default()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("invalid config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if data, err := os.ReadFile("configs/simplane.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse configs/simplane.yaml: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("invalid configs/simplane.yaml: %w", err)
		}
	}

	return cfg, nil
}
