package autossl

import "log/slog"

// Option configures a Manager during initialization.
type Option func(*Manager)

// WithLogger sets the logger used for issuance and sweep reporting.
// Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}
