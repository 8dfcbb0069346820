package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var defaultEnvLoaded sync.Once

// Load populates the provided configuration struct from environment
// variables based on `env` field tags.
//
// On the first call it also attempts to load a .env file from the working
// directory; a missing file is not an error so the same binary works in
// development and in containerized deployments.
//
// Example:
//
//	type QueueConfig struct {
//		Name          string `env:"QUEUE_NAME" envDefault:"relay:tasks"`
//		MaxConcurrent int    `env:"QUEUE_MAX_CONCURRENT" envDefault:"10"`
//	}
//
//	var cfg QueueConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
func Load[T any](v *T) error {
	defaultEnvLoaded.Do(func() {
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
// Intended for configuration required for the process to start at all.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
