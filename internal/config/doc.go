// Package config provides configuration structures and utilities for
// reporttable. It defines the render options taken from CLI flags and the
// optional YAML configuration file with per-source overrides.
package config
