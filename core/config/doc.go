// Package config provides type-safe environment variable loading with
// per-type caching using Go generics.
//
// The package loads a .env file on first use and parses environment variables
// into struct fields via caarlos0/env tags:
//
//	type RedisConfig struct {
//		ConnectionURL string `env:"REDIS_URL,required"`
//		ScanBatchSize int64  `env:"REDIS_SCAN_BATCH_SIZE" envDefault:"1000"`
//	}
//
//	var cfg RedisConfig
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// Each configuration type is loaded only once per process; later calls for
// the same type return the cached value. Different types cache independently.
package config
