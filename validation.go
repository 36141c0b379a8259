package loom

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate
var once sync.Once

// validateConfig checks a normalized Config before any sink construction
// runs. Construction-time errors are the caller's to handle; nothing is
// created on failure.
func validateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("validateConfig: %s", errMsgConfigInvalid)
	}

	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	if cfg.Name == emptyString {
		return fmt.Errorf("validateConfig: %s", errMsgEmptyName)
	}
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("validateConfig: %s: %w", errMsgConfigInvalid, err)
	}
	if cfg.MaxFileSizeMB <= 0 || cfg.BackupCount <= 0 {
		return fmt.Errorf("validateConfig: %s", errMsgBadThreshold)
	}
	if _, err := ParseLevel(cfg.Level); err != nil {
		return fmt.Errorf("validateConfig: %w", err)
	}
	return nil
}
