package debugger

import (
	"github.com/rs/zerolog"

	"github.com/risor-io/risordbg/pretty"
)

// DefaultPrompt is shown when the debugger waits for a command.
const DefaultPrompt = "risordbg> "

// Config holds settings for a debugging session.
type Config struct {
	// Prompt is passed to the read function for every command.
	Prompt string

	// MaxDepth and MaxItems limit how much of a value is printed.
	MaxDepth int
	MaxItems int

	// MaxStringLen truncates long strings when printing. A negative value
	// means no limit.
	MaxStringLen int

	// Color enables colored output.
	Color bool

	// BreakOnEvalError pauses again, in a nested session, when code entered
	// at the prompt raises an error.
	BreakOnEvalError bool

	// ListContext is the number of lines shown around the current line by
	// the list command.
	ListContext int
}

// DefaultConfig returns the settings used when none are given.
func DefaultConfig() Config {
	return Config{
		Prompt:       DefaultPrompt,
		MaxDepth:     pretty.DefaultMaxDepth,
		MaxItems:     pretty.DefaultMaxItems,
		MaxStringLen: pretty.DefaultMaxStringLen,
		ListContext:  3,
	}
}

func (c Config) formatOptions() pretty.Options {
	return pretty.Options{
		MaxDepth:     c.MaxDepth,
		MaxItems:     c.MaxItems,
		MaxStringLen: c.MaxStringLen,
	}
}

// Option configures a Session.
type Option func(*Session)

// WithConfig replaces the session settings.
func WithConfig(cfg Config) Option {
	return func(s *Session) {
		if cfg.Prompt == "" {
			cfg.Prompt = DefaultPrompt
		}
		s.cfg = cfg
	}
}

// WithLogger sets the logger for session events. Sessions log nothing by
// default.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.log = logger.With().Str("component", "debugger").Logger()
	}
}

// WithRead sets the function used to read commands.
func WithRead(read ReadFunc) Option {
	return func(s *Session) {
		if read != nil {
			s.read = read
		}
	}
}

// WithWrite sets the function used to write output.
func WithWrite(write WriteFunc) Option {
	return func(s *Session) {
		if write != nil {
			s.write = write
		}
	}
}

// WithMetrics records session activity in m.
func WithMetrics(m *Metrics) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

// WithColor enables or disables colored output.
func WithColor(enabled bool) Option {
	return func(s *Session) {
		s.cfg.Color = enabled
	}
}

// WithBreakOnEvalError pauses in a nested session when evaluated code
// raises an error.
func WithBreakOnEvalError(enabled bool) Option {
	return func(s *Session) {
		s.cfg.BreakOnEvalError = enabled
	}
}
