// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// rgit-filters previews the template filters of the rgit code browser. It
// wires the CLI, delegates to internal packages, and serves as the entry
// point.
package main
