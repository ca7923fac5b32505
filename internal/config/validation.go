package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/reoring/jeomja/internal/logging"
)

// ValidationError is one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors collects every invalid field.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for i := range e {
		msgs = append(msgs, e[i].Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration and returns ValidationErrors.
func (c *Config) Validate() error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.Language != "ko" && c.Language != "en" {
		add("language", "unsupported language %q (want ko or en)", c.Language)
	}
	if c.Server.Addr == "" {
		add("server.addr", "must not be empty")
	}
	if c.Server.ReadTimeout < 0 {
		add("server.read_timeout", "must not be negative")
	}
	if c.Server.WriteTimeout < 0 {
		add("server.write_timeout", "must not be negative")
	}
	if c.Server.MaxBodyBytes <= 0 {
		add("server.max_body_bytes", "must be positive")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		add("log.level", "%v", err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		add("log.format", "%v", err)
	}
	if c.Tables.Path != "" {
		if _, err := os.Stat(c.Tables.Path); err != nil {
			add("tables.path", "%v", err)
		}
	} else if c.Tables.Watch {
		add("tables.watch", "requires tables.path")
	}
	if err := c.Render.Geometry().Validate(); err != nil {
		add("render", "%v", err)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
