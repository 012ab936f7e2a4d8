// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"html/template"
	"time"

	"github.com/master-hax/rgit/internal/gravatar"
	"github.com/master-hax/rgit/internal/metrics"
)

// Set bundles the filters with the state a renderer shares between them: the
// avatar resolver, the clock used by timeago and optional metrics.
type Set struct {
	Avatars *gravatar.Resolver
	Now     func() time.Time
	Metrics *metrics.Metrics
}

// SetOption configures a Set.
type SetOption func(*Set)

// WithAvatars uses r instead of the shared resolver.
func WithAvatars(r *gravatar.Resolver) SetOption {
	return func(s *Set) { s.Avatars = r }
}

// WithClock replaces time.Now for timeago.
func WithClock(now func() time.Time) SetOption {
	return func(s *Set) { s.Now = now }
}

// WithMetrics counts filter calls and failures in m.
func WithMetrics(m *metrics.Metrics) SetOption {
	return func(s *Set) { s.Metrics = m }
}

// NewSet returns a Set using the shared avatar resolver and the wall clock
// unless overridden.
func NewSet(opts ...SetOption) *Set {
	s := &Set{Now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.Avatars == nil {
		s.Avatars = gravatar.Shared()
	}
	return s
}

func (s *Set) observe(filter string, err error) {
	if s.Metrics != nil {
		s.Metrics.Observe(filter, err)
	}
}

// FormatTime is FormatTime for any value ToTimestamp accepts.
func (s *Set) FormatTime(v any) (string, error) {
	ts, err := ToTimestamp(v)
	if err != nil {
		err = wrap("format_time", err)
		s.observe("format_time", err)
		return "", err
	}
	out, err := FormatTime(ts)
	s.observe("format_time", err)
	return out, err
}

// TimeAgo is TimeAgo against the Set's clock.
func (s *Set) TimeAgo(v any) (string, error) {
	ts, err := ToTimestamp(v)
	if err != nil {
		err = wrap("timeago", err)
		s.observe("timeago", err)
		return "", err
	}
	out, err := timeAgo(ts, s.Now())
	s.observe("timeago", err)
	return out, err
}

// BranchQuery accepts nil, a *string or a string; an empty string means no
// branch.
func (s *Set) BranchQuery(v any) (string, error) {
	var out string
	var err error

	switch b := v.(type) {
	case nil:
	case *string:
		out = BranchQuery(b)
	case string:
		if b != "" {
			out = BranchQuery(&b)
		}
	default:
		err = wrap("branch_query", fmt.Errorf("%w: %T", ErrUnsupported, v))
	}

	s.observe("branch_query", err)
	return out, err
}

// FilePerms accepts any integer holding a 16-bit mode.
func (s *Set) FilePerms(v any) (string, error) {
	mode, err := toMode(v)
	if err != nil {
		err = wrap("file_perms", err)
		s.observe("file_perms", err)
		return "", err
	}
	s.observe("file_perms", nil)
	return FilePerms(mode), nil
}

// Hex accepts a [20]byte, a pointer to one or a 20 byte slice.
func (s *Set) Hex(v any) (HexID, error) {
	var id [20]byte

	switch b := v.(type) {
	case [20]byte:
		id = b
	case *[20]byte:
		if b == nil {
			err := wrap("hex", fmt.Errorf("%w: nil id", ErrUnsupported))
			s.observe("hex", err)
			return HexID{}, err
		}
		id = *b
	case []byte:
		if len(b) != len(id) {
			err := wrap("hex", fmt.Errorf("%w: %d byte id", ErrUnsupported, len(b)))
			s.observe("hex", err)
			return HexID{}, err
		}
		copy(id[:], b)
	default:
		err := wrap("hex", fmt.Errorf("%w: %T", ErrUnsupported, v))
		s.observe("hex", err)
		return HexID{}, err
	}

	s.observe("hex", nil)
	return Hex(id), nil
}

// Gravatar returns the avatar URL for email from the Set's resolver.
func (s *Set) Gravatar(email string) (string, error) {
	url, err := s.Avatars.URL(email)
	err = wrap("gravatar", err)
	s.observe("gravatar", err)
	return url, err
}

// FuncMap returns the filters under the names templates use.
func (s *Set) FuncMap() template.FuncMap {
	return template.FuncMap{
		"format_time":  s.FormatTime,
		"timeago":      s.TimeAgo,
		"branch_query": s.BranchQuery,
		"file_perms":   s.FilePerms,
		"hex":          s.Hex,
		"gravatar":     s.Gravatar,
	}
}

// Apply runs the named filter on v. It lets callers outside a template pick
// filters by name.
func (s *Set) Apply(name string, v any) (string, error) {
	switch name {
	case "format_time":
		return s.FormatTime(v)
	case "timeago":
		return s.TimeAgo(v)
	case "branch_query":
		return s.BranchQuery(v)
	case "file_perms":
		return s.FilePerms(v)
	case "hex":
		h, err := s.Hex(v)
		if err != nil {
			return "", err
		}
		return h.String(), nil
	case "gravatar":
		email, ok := v.(string)
		if !ok {
			err := wrap("gravatar", fmt.Errorf("%w: %T", ErrUnsupported, v))
			s.observe("gravatar", err)
			return "", err
		}
		return s.Gravatar(email)
	default:
		return "", fmt.Errorf("unknown filter: %s", name)
	}
}

// Names lists the filters Apply and FuncMap know.
func Names() []string {
	return []string{"branch_query", "file_perms", "format_time", "gravatar", "hex", "timeago"}
}

func toMode(v any) (uint16, error) {
	var n int64

	switch m := v.(type) {
	case uint16:
		return m, nil
	case int:
		n = int64(m)
	case int32:
		n = int64(m)
	case int64:
		n = m
	case uint32:
		n = int64(m)
	case float64:
		// JSON numbers.
		if m != float64(int64(m)) {
			return 0, fmt.Errorf("%w: mode %v", ErrUnsupported, m)
		}
		n = int64(m)
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnsupported, v)
	}

	if n < 0 || n > 0xffff {
		return 0, fmt.Errorf("%w: mode %d", ErrOutOfRange, n)
	}
	return uint16(n), nil
}
