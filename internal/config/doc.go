// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config holds the settings of a batch run and loads them from files.
//
// Settings are resolved from lowest to highest precedence: built-in defaults, an
// optional configuration file, and finally command line flags. Files may be YAML,
// TOML or HCL (chosen by extension) and may be fetched from any go-getter source.
// Every validation problem is reported at once in a single *Error.
package config
