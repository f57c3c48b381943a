// Package config provides configuration structures and utilities for wayfind.
// It defines the main configuration options for navigation runs,
// driver behavior, and report generation preferences.
package config
