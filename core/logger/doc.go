// Package logger provides log/slog attribute helpers shared across the
// module. Helpers return an empty Attr for nil or missing values, following
// the principle of making zero values useful:
//
//	log.Warn("skipping malformed record", logger.Key(key), logger.Error(err))
package logger
