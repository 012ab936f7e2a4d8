// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package command defines the rgit-filters CLI. It wires flags, validators
// and actions for the render and serve preview commands and shell
// completion.
package command
