// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package summarize asks an external text-generation service to describe a
// closed poll's results.
package summarize
