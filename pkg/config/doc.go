// Package config handles configuration management for dirlink.
//
// Configuration is layered with koanf: embedded defaults, then an optional
// TOML or YAML file, then DIRLINK_ environment variables, then explicit
// overrides (command-line flags). Later layers win.
package config
