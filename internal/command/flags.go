// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/master-hax/rgit/internal/meta"
)

// DefaultColumns is the --columns value used when none is given.
const DefaultColumns = "id::hex,author.email:avatar:gravatar," +
	"committed:when:format_time,committed:age:timeago,mode:perms:file_perms"

// NewInputFlag returns the --input flag. "-" or an empty value reads stdin.
func NewInputFlag(meta meta.Meta, ns string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "input",
		Aliases: []string{"i"},
		Usage:   "JSON file holding an array of commits, - for stdin",
		Sources: cli.NewValueSourceChain(
			yaml.YAML(ns+".input", altsrc.StringSourcer(meta.Config.Source)),
		),
		Value: "-",
		Validator: func(value string) error {
			return FlagValidators(value, JammedFlagValidator)
		},
	}
}

// NewColumnsFlag returns the --columns flag, seeded from the config file.
func NewColumnsFlag(meta meta.Meta, ns string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "columns",
		Aliases: []string{"a"},
		Usage:   "comma-separated path:title:filter column specs",
		Sources: cli.NewValueSourceChain(
			yaml.YAML(ns+".columns", altsrc.StringSourcer(meta.Config.Source)),
			yaml.YAML("columns", altsrc.StringSourcer(meta.Config.Source)),
		),
		Value: DefaultColumns,
		Validator: func(value string) error {
			return FlagValidators(value, JammedFlagValidator, ColumnsValidator)
		},
	}
}

// NewOutputFlags returns the presentation flags shared by commands that emit
// rows.
func NewOutputFlags(meta meta.Meta, ns string) (flags []cli.Flag) {
	src := meta.Config.Source

	flags = []cli.Flag{
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+".color", altsrc.StringSourcer(src)),
				yaml.YAML("color", altsrc.StringSourcer(src)),
			),
			Value: false,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+".output", altsrc.StringSourcer(src)),
				yaml.YAML("output", altsrc.StringSourcer(src)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of columns to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+".sort", altsrc.StringSourcer(src)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+".titles", altsrc.StringSourcer(src)),
				yaml.YAML("titles", altsrc.StringSourcer(src)),
			),
			Value: false,
		},
	}

	return
}
