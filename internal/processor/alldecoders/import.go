// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package alldecoders imports all decoder packages to ensure their registration.
package alldecoders

import (
	// Import all decoder packages to trigger their init() functions.
	_ "github.com/matt-FFFFFF/ncmbatch/internal/processor/copydecoder"
	_ "github.com/matt-FFFFFF/ncmbatch/internal/processor/execdecoder"
)
