package certstore

import "log/slog"

// Option configures a Storage during initialization.
type Option func(*Storage)

// WithLogger sets the logger used for partial-success scan reporting.
// Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(s *Storage) {
		if log != nil {
			s.log = log
		}
	}
}
