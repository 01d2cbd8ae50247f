// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color decides whether console output is colored and applies the colors.
// NO_COLOR disables color, FORCE_COLOR enables it, and otherwise color follows
// whether stdout is a terminal. Escape codes are produced by github.com/fatih/color.
package color
