// Package config loads typed configuration structs from environment
// variables, with optional .env file support for local development.
//
// Each package that needs configuration declares its own Config struct with
// `env` tags and default values; the binary loads them at startup:
//
//	var redisCfg redis.Config
//	config.MustLoad(&redisCfg)
//
// Struct tags follow the github.com/caarlos0/env conventions: `env:"NAME"`,
// `envDefault:"value"`, and the `,required` option for values that have no
// sensible default.
package config
