// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package filters provides the template filters used to render commit
// timestamps, file modes, object ids and avatar links. Every filter is a pure
// function of its input except Gravatar, which memoizes through the avatar
// lookup cache.
package filters
