package bootstrap

import (
	"fmt"
	"slices"

	"github.com/jimmy-wims/course-log/internal/config"
	"github.com/jimmy-wims/course-log/internal/store"
)

// knownLogReaders are the log readers this service can build.
var knownLogReaders = []string{store.StandardReaderName}

// validateAllConfiguration validates all configuration settings
func validateAllConfiguration(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := validateLogReaders(cfg.LogReaders); err != nil {
		return fmt.Errorf("invalid log reader configuration: %w", err)
	}
	return nil
}

// validateLogReaders rejects unknown and repeated reader names.
func validateLogReaders(names []string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if !slices.Contains(knownLogReaders, name) {
			return fmt.Errorf("unknown log reader %q (must be one of: %v)", name, knownLogReaders)
		}
		if seen[name] {
			return fmt.Errorf("log reader %q is listed twice", name)
		}
		seen[name] = true
	}
	return nil
}
