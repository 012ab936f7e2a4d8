// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT
package command

import (
	"context"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/master-hax/rgit/internal/config"
	"github.com/master-hax/rgit/internal/filters"
	"github.com/master-hax/rgit/internal/gravatar"
	"github.com/master-hax/rgit/internal/meta"
	"github.com/master-hax/rgit/internal/metrics"
)

// AppName is the binary name used in usage text.
const AppName = "rgit-filters"

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {

	// The arg[1] immediately following the binary (arg[0]) is the subcommand
	// and also represents the namespace key to be used when retrieving config
	// values. arg[1] could be -h/--help, so ignore it if it appears to be a
	// flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Debug("running without config file")
	}
	cfg.Namespace = ns
	config.Config.Namespace = ns

	m := metrics.New("rgit")

	opts := gravatar.OptionsFromConfig()
	opts.Observer = m
	gravatar.Init(opts)

	meta := meta.Meta{
		Args:    args,
		Config:  cfg,
		Context: ctx,
		Filters: filters.NewSet(filters.WithAvatars(gravatar.Shared()), filters.WithMetrics(m)),
		Metrics: m,
	}

	app := &cli.Command{
		Name:  AppName,
		Usage: "preview the rgit template filters",
	}

	app.Commands = append(app.Commands,
		RenderCommandBuilder(app, meta),
		ServeCommandBuilder(app, meta),
		CompletionCommandBuilder(app, meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}
