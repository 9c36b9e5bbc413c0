// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package aggregate computes poll results from vote events: option counts,
// Borda scores and matrix cell rollups. It is pure and keeps no state.
package aggregate
