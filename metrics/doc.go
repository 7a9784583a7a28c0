// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics defines the Prometheus collectors exported on /metrics:
// remote and fallback write outcomes, score entry outcomes and the number
// of connected live viewers.
package metrics
