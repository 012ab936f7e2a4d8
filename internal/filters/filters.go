// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/master-hax/rgit/internal/gravatar"
)

// FormatTime renders ts as RFC 3339. Instants the encoder cannot express
// (years outside 0-9999, offsets of a day or more or with a seconds part)
// fail.
func FormatTime(ts Timestamp) (string, error) {
	t, err := ts.Time()
	if err != nil {
		return "", wrap("format_time", err)
	}

	// RFC 3339 offsets have no seconds field.
	if _, offset := t.Zone(); offset%60 != 0 {
		return "", wrap("format_time", fmt.Errorf("%w: utc offset %d has a seconds part", ErrOutOfRange, offset))
	}

	b, err := t.MarshalText()
	if err != nil {
		return "", wrap("format_time", err)
	}
	return string(b), nil
}

// TimeAgo renders the time elapsed since ts, e.g. "3 hours ago".
func TimeAgo(ts Timestamp) (string, error) {
	return timeAgo(ts, time.Now())
}

func timeAgo(ts Timestamp, now time.Time) (string, error) {
	t, err := ts.Time()
	if err != nil {
		return "", wrap("timeago", err)
	}

	now = now.UTC()

	// Sub saturates instead of overflowing.
	if d := now.Sub(t); !t.Add(d).Equal(now) {
		return "", wrap("timeago", fmt.Errorf("%w: %s is too far from now", ErrOutOfRange, t.Format(time.RFC3339)))
	}

	return humanize.RelTime(t, now, "ago", "from now"), nil
}

// BranchQuery returns the query string selecting branch, or "" for none.
func BranchQuery(branch *string) string {
	if branch == nil {
		return ""
	}
	return "?h=" + *branch
}

// File type bits of a Unix mode.
const (
	modeTypeMask = 0o170000
	modeSocket   = 0o140000
	modeSymlink  = 0o120000
	modeBlock    = 0o060000
	modeDir      = 0o040000
	modeChar     = 0o020000
	modeFifo     = 0o010000

	modeSetuid = 0o4000
	modeSetgid = 0o2000
	modeSticky = 0o1000
)

// FilePerms renders a Unix mode the way ls -l does, e.g. "-rwxr-xr-x".
// Unknown file types, including git submodules, render as '-'.
func FilePerms(mode uint16) string {
	var b [10]byte

	switch mode & modeTypeMask {
	case modeDir:
		b[0] = 'd'
	case modeChar:
		b[0] = 'c'
	case modeBlock:
		b[0] = 'b'
	case modeFifo:
		b[0] = 'p'
	case modeSymlink:
		b[0] = 'l'
	case modeSocket:
		b[0] = 's'
	default:
		b[0] = '-'
	}

	perm := func(bit uint16, c byte) byte {
		if mode&bit != 0 {
			return c
		}
		return '-'
	}
	// exec renders the x slot, which also carries setuid/setgid/sticky.
	exec := func(xbit, special uint16, set, unset byte) byte {
		x := mode&xbit != 0
		switch {
		case mode&special != 0 && x:
			return set
		case mode&special != 0:
			return unset
		case x:
			return 'x'
		default:
			return '-'
		}
	}

	b[1] = perm(0o400, 'r')
	b[2] = perm(0o200, 'w')
	b[3] = exec(0o100, modeSetuid, 's', 'S')
	b[4] = perm(0o040, 'r')
	b[5] = perm(0o020, 'w')
	b[6] = exec(0o010, modeSetgid, 's', 'S')
	b[7] = perm(0o004, 'r')
	b[8] = perm(0o002, 'w')
	b[9] = exec(0o001, modeSticky, 't', 'T')

	return string(b[:])
}

// HexID is the 40 character lowercase hex form of an object id.
type HexID [40]byte

func (h HexID) String() string {
	return string(h[:])
}

// Hex encodes an object id into a fixed-size buffer.
func Hex(id [20]byte) HexID {
	var h HexID
	hex.Encode(h[:], id[:])
	return h
}

// Gravatar returns the avatar URL for email from the shared resolver.
func Gravatar(email string) (string, error) {
	url, err := gravatar.Shared().URL(email)
	return url, wrap("gravatar", err)
}
