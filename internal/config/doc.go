// Package config provides configuration structures and utilities for passprivacy.
// It defines the analysis parameters, report and history settings, and the
// optional YAML configuration file that supplies defaults for them.
//
// Values are resolved in three layers: built-in defaults from NewConfig,
// then the configuration file, then command-line flags.
package config
