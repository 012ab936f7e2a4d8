// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendArchived_Layout(t *testing.T) {
	got := AppendArchived(nil, Pair{Seconds: 1700000000, Offset: -18000})

	want := []byte{
		0x00, 0xf1, 0x53, 0x65, 0x00, 0x00, 0x00, 0x00, // seconds, little-endian
		0xb0, 0xb9, 0xff, 0xff, // offset, little-endian
		0x00, 0x00, 0x00, 0x00, // padding
	}
	assert.Equal(t, want, got)
	assert.Len(t, got, ArchivedSize)

	a := ArchivedTimestamp(got)
	assert.Equal(t, int64(1700000000), a.Seconds())
	assert.Equal(t, int32(-18000), a.Offset())
}

func TestFromArchived(t *testing.T) {
	tests := []struct {
		name    string
		buf     []byte
		want    string
		wantErr error
	}{
		{
			name: "padded record",
			buf:  AppendArchived(nil, Pair{Seconds: 1700000000, Offset: -18000}),
			want: "2023-11-14T17:13:20-05:00",
		},
		{
			name: "unpadded record",
			buf:  AppendArchived(nil, Pair{Seconds: 1700000000, Offset: 0})[:12],
			want: "2023-11-14T22:13:20Z",
		},
		{
			name:    "truncated",
			buf:     AppendArchived(nil, Pair{Seconds: 1700000000})[:11],
			wantErr: ErrShortBuffer,
		},
		{
			name:    "empty",
			buf:     nil,
			wantErr: ErrShortBuffer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := FromArchived(tt.buf)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			got, err := FormatTime(ts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromArchived_ReadsInPlace(t *testing.T) {
	// Two records back to back in one buffer, read without copying.
	buf := AppendArchived(nil, Pair{Seconds: 0, Offset: 0})
	buf = AppendArchived(buf, Pair{Seconds: 1700000000, Offset: 19800})

	ts, err := FromArchived(buf[ArchivedSize:])
	require.NoError(t, err)
	got, err := FormatTime(ts)
	require.NoError(t, err)
	assert.Equal(t, "2023-11-15T03:43:20+05:30", got)
}

func TestConstructorsAgree(t *testing.T) {
	pairs := []Pair{
		{Seconds: 0, Offset: 0},
		{Seconds: 1700000000, Offset: 0},
		{Seconds: 1700000000, Offset: -18000},
		{Seconds: 1700000000, Offset: 19800},
		{Seconds: -30610224000, Offset: 3600},
	}

	for _, p := range pairs {
		byValue, err := FormatTime(FromPair(p.Seconds, p.Offset))
		require.NoError(t, err)

		byRef, err := FormatTime(FromPairRef(&p))
		require.NoError(t, err)

		archived, err := FromArchived(AppendArchived(nil, p))
		require.NoError(t, err)
		byArchive, err := FormatTime(archived)
		require.NoError(t, err)

		native := time.Unix(p.Seconds, 0).In(time.FixedZone("LOCAL", int(p.Offset)))
		byTime, err := FormatTime(FromTime(native))
		require.NoError(t, err)

		assert.Equal(t, byValue, byRef, "%+v", p)
		assert.Equal(t, byValue, byArchive, "%+v", p)
		assert.Equal(t, byValue, byTime, "%+v", p)
		assert.Equal(t, byValue, mustFormat(t, p.Timestamp()))
	}
}

func TestFromPairRef_Nil(t *testing.T) {
	assert.Equal(t, "1970-01-01T00:00:00Z", mustFormat(t, FromPairRef(nil)))
}

func TestFromPair_OutOfRange(t *testing.T) {
	tests := []struct {
		name    string
		seconds int64
		offset  int32
	}{
		{name: "seconds too large", seconds: 253402300800},
		{name: "seconds too small", seconds: -377705116801},
		{name: "offset too large", seconds: 0, offset: 26 * 3600},
		{name: "offset too small", seconds: 0, offset: -26 * 3600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := FromPair(tt.seconds, tt.offset)
			_, err := ts.Time()
			assert.ErrorIs(t, err, ErrOutOfRange)

			_, err = FormatTime(ts)
			assert.ErrorIs(t, err, ErrOutOfRange)
			_, err = TimeAgo(ts)
			assert.ErrorIs(t, err, ErrOutOfRange)
		})
	}
}

func TestToTimestamp(t *testing.T) {
	p := Pair{Seconds: 1700000000}
	native := time.Unix(1700000000, 0).UTC()
	ts := FromTime(native)

	inputs := []any{
		ts,
		&ts,
		native,
		&native,
		p,
		&p,
		ArchivedTimestamp(AppendArchived(nil, p)),
		AppendArchived(nil, p),
	}

	for _, in := range inputs {
		got, err := ToTimestamp(in)
		require.NoError(t, err, "%T", in)
		assert.Equal(t, "2023-11-14T22:13:20Z", mustFormat(t, got), "%T", in)
	}

	for _, in := range []any{"2023-11-14", 1700000000, true, (*time.Time)(nil), (*Timestamp)(nil)} {
		_, err := ToTimestamp(in)
		assert.ErrorIs(t, err, ErrUnsupported, "%T", in)
	}

	_, err := ToTimestamp([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrShortBuffer)
}

func mustFormat(t *testing.T, ts Timestamp) string {
	t.Helper()
	s, err := FormatTime(ts)
	require.NoError(t, err)
	return s
}
