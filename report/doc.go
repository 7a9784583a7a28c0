// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package report renders a bale for use outside the app: an XLSX workbook
// of the scorecard (WriteScorecard) and a PNG chart of one archer's running
// total (RunningTotalChart).
package report
