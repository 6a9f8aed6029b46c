package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"commitcraft/cli/internal/erruser"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// bounds maps a Config field to the message shown when its validation tag fails.
var bounds = map[string]func(c Config) string{
	"OllamaURL": func(c Config) string {
		return fmt.Sprintf("%s must be an http(s) URL, got %q", envOllamaURL, c.OllamaURL)
	},
	"Model": func(Config) string {
		return envModel + " must not be empty"
	},
	"Temperature": func(c Config) string {
		return fmt.Sprintf("Temperature must be between 0.0 and 2.0, got %v", c.Temperature)
	},
	"TopP": func(c Config) string {
		return fmt.Sprintf("Top-p must be between 0.0 and 1.0, got %v", c.TopP)
	},
	"MaxTokens": func(c Config) string {
		return fmt.Sprintf("Max tokens must be positive, got %d", c.MaxTokens)
	},
	"MaxSuggestions": func(c Config) string {
		return fmt.Sprintf("Max suggestions must be between 1 and 10, got %d", c.MaxSuggestions)
	},
	"RequestTimeout": func(c Config) string {
		return fmt.Sprintf("Request timeout must be positive, got %s", c.RequestTimeout)
	},
	"ContextLimit": func(c Config) string {
		return fmt.Sprintf("Context limit must not be negative, got %d", c.ContextLimit)
	},
}

// Validate checks every field against its bounds. The first violation is
// returned as a ConfigError naming the field and the offending value.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return configErr("Invalid configuration.", err)
	}
	fe := verrs[0]
	msg := fmt.Sprintf("Invalid configuration: %s.", fe.StructField())
	if f, ok := bounds[fe.StructField()]; ok {
		msg = f(c)
	}
	return erruser.NewKind(erruser.ConfigError, msg, err)
}
