// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package lookup provides a grow-only memoization cache for values derived
// from string keys. Reads never lock: the whole mapping is an immutable
// snapshot behind an atomic pointer, and writers publish a new snapshot with
// compare-and-swap.
package lookup
