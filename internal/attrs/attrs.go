// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package attrs

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/master-hax/rgit/internal/filters"
)

// Attr represents each of the columns to be included in the output. These
// are identified by the JSON path of the value in each commit object.
type Attr struct {
	// The gjson path to extract from each commit object.
	Key string `yaml:"key"`
	// Should this Attr be included in output or is it just
	// intended for lookups?
	Include bool `yaml:"include"`
	// The key to use in the output. This is also the column title when
	// output=text.
	OutputKey string `yaml:"outputKey"`
	// Name of the filter applied to the value. Empty means the raw value.
	Filter string `yaml:"filter"`
}

// Render extracts the Attr's value from a commit object and runs its filter.
// Missing values render as nil so the table can show a placeholder.
func (a *Attr) Render(commit gjson.Result, set *filters.Set) (interface{}, error) {
	value := commit.Get(a.Key)
	if !value.Exists() {
		return nil, nil
	}

	if a.Filter == "" {
		return value.Value(), nil
	}

	in, err := FilterInput(a.Filter, value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.Key, err)
	}

	out, err := set.Apply(a.Filter, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.Key, err)
	}
	return out, nil
}

// FilterInput converts a JSON value into the type the filter expects.
func FilterInput(filter string, value gjson.Result) (any, error) {
	switch filter {
	case "format_time", "timeago":
		// {"seconds": n, "offset": n}, a bare number of seconds or an RFC
		// 3339 string.
		if value.IsObject() {
			offset := value.Get("offset").Int()
			if offset < math.MinInt32 || offset > math.MaxInt32 {
				return nil, fmt.Errorf("%w: utc offset %d", filters.ErrOutOfRange, offset)
			}
			return filters.Pair{
				Seconds: value.Get("seconds").Int(),
				Offset:  int32(offset),
			}, nil
		}
		if value.Type == gjson.Number {
			return filters.Pair{Seconds: value.Int()}, nil
		}
		t, err := time.Parse(time.RFC3339, value.String())
		if err != nil {
			return nil, fmt.Errorf("failed to parse time: %w", err)
		}
		return t, nil
	case "hex":
		b, err := hex.DecodeString(value.String())
		if err != nil {
			return nil, fmt.Errorf("failed to decode object id: %w", err)
		}
		return b, nil
	case "file_perms":
		// Git writes modes as octal strings ("100644").
		if value.Type == gjson.String {
			n, err := strconv.ParseUint(value.String(), 8, 16)
			if err != nil {
				return nil, fmt.Errorf("failed to parse mode: %w", err)
			}
			return uint16(n), nil
		}
		return value.Value(), nil
	case "branch_query", "gravatar":
		return value.String(), nil
	default:
		return value.Value(), nil
	}
}

type AttrList []Attr

// Return a string representation of the AttrList. This should match the
// format of the --columns flag.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		result = append(result, fmt.Sprintf("%s:%s:%s", attr.Key, attr.OutputKey, attr.Filter))
	}
	return strings.Join(result, ",")
}

// Parse each spec from the --columns flag and add it to the AttrList.
func (a *AttrList) Set(value string) error {
	if value == "" {
		return nil
	}

	const (
		jsonIdx = iota
		outputIdx
		filterIdx
	)

	known := make(map[string]bool)
	for _, n := range filters.Names() {
		known[n] = true
	}

	// There are three : delimited fields in each spec. The first is the path
	// to extract from the JSON object. The second is the column title. The
	// third is the filter to apply. The latter two are optional. The title
	// defaults to the last segment of the path.
	specs := strings.Split(value, ",")
specloop:
	for _, spec := range specs {
		attr := Attr{
			Include: true,
		}

		fields := strings.Split(spec, ":")
		if len(fields) > filterIdx+1 {
			return fmt.Errorf("too many fields in column spec: %s", spec)
		}

		// A leading ! keeps the column out of the output.
		attr.Key = strings.TrimSpace(fields[jsonIdx])
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = attr.Key[1:]
		}
		if attr.Key == "" {
			return fmt.Errorf("empty path in column spec: %s", spec)
		}

		segments := strings.Split(attr.Key, ".")
		attr.OutputKey = segments[len(segments)-1]
		if len(fields) > outputIdx && strings.TrimSpace(fields[outputIdx]) != "" {
			attr.OutputKey = strings.TrimSpace(fields[outputIdx])
		}

		if len(fields) > filterIdx {
			attr.Filter = strings.TrimSpace(fields[filterIdx])
			if attr.Filter != "" && !known[attr.Filter] {
				return fmt.Errorf("unknown filter %q in column spec: %s", attr.Filter, spec)
			}
		}

		// If the column already exists in the list (because it's one of the
		// defaults or the user double-entered it) just update it.
		for i := range *a {
			if (*a)[i].OutputKey == attr.OutputKey {
				(*a)[i] = attr
				continue specloop
			}
		}

		*a = append(*a, attr)
	}

	return nil
}

func (a *AttrList) Type() string {
	return "list"
}
