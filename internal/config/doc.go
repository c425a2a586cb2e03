// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for tgl.
//
// Supports both TOML and JSON configuration formats, with defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - PacingConfig: Typing interval, speed multiplier and instant mode
//   - GameConfig: Action budget range and the session storage key
//   - StorageConfig: Session store backend and location
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (TGL_*)
//   - ~/.tgl/config.toml
//   - ~/.tgl/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Dot notation reads and writes single values:
//
//	cfg.Set("pacing.speed", "2")
//	speed, _ := cfg.Get("pacing.speed")
package config
