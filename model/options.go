package model

import "github.com/shrek82/tablemap/logger"

type settings struct {
	conv  Conventions
	log   logger.Logger
	enum  Enumerator
	flags CreateFlags
}

// Option configures NewTable and NewRegistry.
type Option func(*settings)

// WithConventions replaces the naming conventions. Empty fields keep their defaults.
func WithConventions(c Conventions) Option {
	return func(s *settings) { s.conv = c.withDefaults() }
}

// WithLogger sets the logger used to report mapping decisions.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) { s.log = l }
}

// WithEnumerator replaces the TagEnumerator used by a Registry.
func WithEnumerator(e Enumerator) Option {
	return func(s *settings) { s.enum = e }
}

// WithDefaultFlags sets the flags used by Registry.Get.
func WithDefaultFlags(f CreateFlags) Option {
	return func(s *settings) { s.flags = f }
}

func newSettings(opts []Option) settings {
	s := settings{
		conv: DefaultConventions(),
		log:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.enum == nil {
		s.enum = TagEnumerator{Key: s.conv.TagKey}
	}
	return s
}
