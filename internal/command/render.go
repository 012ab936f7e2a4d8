// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/master-hax/rgit/internal/attrs"
	"github.com/master-hax/rgit/internal/filters"
	"github.com/master-hax/rgit/internal/meta"
	"github.com/master-hax/rgit/internal/output"
)

var errNotArray = errors.New("input is not a JSON array")

// ReadCommits reads a JSON array of commit objects from path, or from stdin
// when path is "-" or empty.
func ReadCommits(path string, stdin io.Reader) ([]gjson.Result, error) {
	var (
		data []byte
		err  error
	)

	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	if !gjson.ValidBytes(data) {
		return nil, errors.New("input is not valid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, errNotArray
	}
	return doc.Array(), nil
}

// BuildRows renders every column of every commit. The first filter failure
// aborts the whole set, the same way a template stops on a failing filter.
func BuildRows(commits []gjson.Result, al attrs.AttrList, set *filters.Set) ([]map[string]interface{}, error) {
	rows := make([]map[string]interface{}, 0, len(commits))
	for i, commit := range commits {
		row := make(map[string]interface{}, len(al))
		for _, attr := range al {
			v, err := attr.Render(commit, set)
			if err != nil {
				log.WithError(err).WithField("commit", i).Debug("column failed")
				return nil, fmt.Errorf("commit %d: %w", i, err)
			}
			row[attr.OutputKey] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// useColor reports whether colored text output is wanted and possible.
func useColor(requested bool) bool {
	if !requested {
		return false
	}
	if _, ok := os.LookupEnv("RGIT_NO_COLOR"); ok {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// RenderCommandAction is the action handler for the "render" subcommand. It
// reads commits, applies the column filters and emits the rows.
func RenderCommandAction(ctx context.Context, cmd *cli.Command) error {
	meta := GetMeta(cmd)

	var al attrs.AttrList
	if err := al.Set(cmd.String("columns")); err != nil {
		return err
	}

	root := cmd.Root()
	commits, err := ReadCommits(cmd.String("input"), root.Reader)
	if err != nil {
		return err
	}
	log.Debugf("render: %d commits, %d columns", len(commits), len(al))

	set := meta.Filters
	if set == nil {
		set = filters.NewSet()
	}

	rows, err := BuildRows(commits, al, set)
	if err != nil {
		return err
	}

	opts := output.Options{
		Format: cmd.String("output"),
		Sort:   cmd.String("sort"),
		Titles: cmd.Bool("titles"),
		Color:  useColor(cmd.Bool("color")),
	}
	return output.Spit(rows, al, opts, root.Writer)
}

// RenderCommandBuilder constructs the cli.Command definition for the "render"
// command.
func RenderCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "apply the filters to a JSON list of commits",
		UsageText: AppName + " render [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			NewInputFlag(meta, "render"),
			NewColumnsFlag(meta, "render"),
		}, NewOutputFlags(meta, "render")...),
		Action: RenderCommandAction,
	}
}
