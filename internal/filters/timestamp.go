// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Accepted ranges, -9999-01-01T00:00:00Z through 9999-12-31T23:59:59Z and
// offsets up to 25:59:59.
const (
	minUnixSeconds = -377705116800
	maxUnixSeconds = 253402300799
	maxOffset      = 25*3600 + 59*60 + 59
)

// ArchivedSize is the size of one archived (seconds, offset) record: an
// int64 and an int32, little-endian, padded to 8-byte alignment.
const ArchivedSize = 16

const archivedMinSize = 12

// ArchivedTimestamp is a view over an archived (seconds, offset) record. It
// reads the fields in place without decoding the surrounding buffer.
type ArchivedTimestamp []byte

// Seconds returns the archived Unix seconds. The caller must have checked
// the length.
func (a ArchivedTimestamp) Seconds() int64 {
	return int64(binary.LittleEndian.Uint64(a[0:8]))
}

// Offset returns the archived UTC offset in seconds.
func (a ArchivedTimestamp) Offset() int32 {
	return int32(binary.LittleEndian.Uint32(a[8:12]))
}

// AppendArchived appends the archived form of p to dst.
func AppendArchived(dst []byte, p Pair) []byte {
	dst = binary.LittleEndian.AppendUint64(dst, uint64(p.Seconds))
	dst = binary.LittleEndian.AppendUint32(dst, uint32(p.Offset))
	return append(dst, 0, 0, 0, 0)
}

// Pair is a Unix time in seconds with its UTC offset in seconds, the way
// commit times are stored.
type Pair struct {
	Seconds int64
	Offset  int32
}

// Timestamp returns p as a Timestamp.
func (p Pair) Timestamp() Timestamp {
	return FromPair(p.Seconds, p.Offset)
}

// Timestamp is a point in time together with the UTC offset it was recorded
// in. Values that are out of range are carried to the filter, which reports
// them.
type Timestamp struct {
	t   time.Time
	err error
}

// FromPair builds a Timestamp from Unix seconds and an offset in seconds.
func FromPair(seconds int64, offset int32) Timestamp {
	if seconds < minUnixSeconds || seconds > maxUnixSeconds {
		return Timestamp{err: fmt.Errorf("%w: unix seconds %d", ErrOutOfRange, seconds)}
	}
	if offset < -maxOffset || offset > maxOffset {
		return Timestamp{err: fmt.Errorf("%w: utc offset %d", ErrOutOfRange, offset)}
	}
	return Timestamp{t: time.Unix(seconds, 0).In(time.FixedZone("", int(offset)))}
}

// FromPairRef is FromPair for a stored pair. A nil pair is the Unix epoch.
func FromPairRef(p *Pair) Timestamp {
	if p == nil {
		return FromPair(0, 0)
	}
	return FromPair(p.Seconds, p.Offset)
}

// FromArchived builds a Timestamp from an archived record. Only the first
// 12 bytes are read; the trailing padding is optional.
func FromArchived(a ArchivedTimestamp) (Timestamp, error) {
	if len(a) < archivedMinSize {
		return Timestamp{}, fmt.Errorf("%w: %d bytes", ErrShortBuffer, len(a))
	}
	return FromPair(a.Seconds(), a.Offset()), nil
}

// FromTime wraps t as is, keeping its location.
func FromTime(t time.Time) Timestamp {
	return Timestamp{t: t}
}

// Time returns the wrapped time and any range error found while building it.
func (ts Timestamp) Time() (time.Time, error) {
	return ts.t, ts.err
}

// ToTimestamp converts the representations templates hand to the time
// filters.
func ToTimestamp(v any) (Timestamp, error) {
	switch v := v.(type) {
	case Timestamp:
		return v, nil
	case *Timestamp:
		if v == nil {
			return Timestamp{}, fmt.Errorf("%w: nil timestamp", ErrUnsupported)
		}
		return *v, nil
	case time.Time:
		return FromTime(v), nil
	case *time.Time:
		if v == nil {
			return Timestamp{}, fmt.Errorf("%w: nil time", ErrUnsupported)
		}
		return FromTime(*v), nil
	case Pair:
		return v.Timestamp(), nil
	case *Pair:
		return FromPairRef(v), nil
	case ArchivedTimestamp:
		return FromArchived(v)
	case []byte:
		return FromArchived(v)
	default:
		return Timestamp{}, fmt.Errorf("%w: %T", ErrUnsupported, v)
	}
}
