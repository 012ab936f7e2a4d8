// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package gravatar builds avatar URLs from email addresses and memoizes them
// for the life of the process.
package gravatar
