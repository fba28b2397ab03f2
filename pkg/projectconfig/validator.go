package projectconfig

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

var envNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the project file for values the CLI cannot use
func Validate(config *ProjectConfig) error {
	if err := validate.Struct(config); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			if fieldErrs[0].StructField() == "RepoURL" {
				return fmt.Errorf("`deployment.repo_url` must be a URL, got %q", config.Deployment.RepoURL)
			}
		}
		return err
	}

	if config.Deployment.TokenEnv != "" && !envNamePattern.MatchString(config.Deployment.TokenEnv) {
		return fmt.Errorf("`deployment.token_env` is not a valid environment variable name: %q", config.Deployment.TokenEnv)
	}

	if config.Polling.Interval != "" {
		d, err := time.ParseDuration(config.Polling.Interval)
		if err != nil {
			return fmt.Errorf("`polling.interval` is not a duration: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("`polling.interval` must be positive, got %s", config.Polling.Interval)
		}
	}

	return nil
}
