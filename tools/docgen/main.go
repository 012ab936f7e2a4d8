// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
	"github.com/urfave/cli/v3"

	"github.com/master-hax/rgit/internal/command"
)

// Generates docs/man/share/man1/rgit-filters-<cmd>.1 for every subcommand
// from the command definitions themselves.

func main() {
	var (
		repoRoot           string
		writeOnlyIfChanged bool
	)

	flag.StringVar(&repoRoot, "root", ".", "repo root (default current dir)")
	flag.BoolVar(&writeOnlyIfChanged, "only-if-changed", true, "only write files if content changed")
	flag.Parse()

	manOutDir := filepath.Join(repoRoot, "docs", "man", "share", "man1")
	if err := os.MkdirAll(manOutDir, 0o755); err != nil {
		fatalf("creating man output dir: %v", err)
	}

	app, err := command.InitApp(context.Background(), []string{command.AppName})
	if err != nil {
		fatalf("building command tree: %v", err)
	}

	var processed int
	for _, cmd := range app.Commands {
		md := commandMarkdown(cmd)
		manPath := filepath.Join(manOutDir, fmt.Sprintf("%s-%s.1", command.AppName, cmd.Name))
		if err := writeFileIfChanged(manPath, md2man.Render([]byte(md)), writeOnlyIfChanged); err != nil {
			fatalf("writing man page for %s: %v", cmd.Name, err)
		}
		processed++
	}

	if processed == 0 {
		fatalf("no subcommands found")
	}
}

func fatalf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}

func writeFileIfChanged(path string, new []byte, onlyIfChanged bool) error {
	if !onlyIfChanged {
		return os.WriteFile(path, new, 0o644)
	}
	old, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return os.WriteFile(path, new, 0o644)
		}
		return err
	}
	if bytes.Equal(bytes.TrimSpace(old), bytes.TrimSpace(new)) {
		return nil
	}
	return os.WriteFile(path, new, 0o644)
}

// commandMarkdown renders cmd as a pandoc style man page that md2man
// understands.
func commandMarkdown(cmd *cli.Command) string {
	page := command.AppName + "-" + cmd.Name

	var b strings.Builder
	fmt.Fprintf(&b, "%% %s(1)\n\n", strings.ToUpper(page))
	b.WriteString("# NAME\n\n")
	fmt.Fprintf(&b, "%s - %s\n\n", page, cmd.Usage)

	b.WriteString("# SYNOPSIS\n\n")
	usage := cmd.UsageText
	if usage == "" {
		usage = command.AppName + " " + cmd.Name
	}
	fmt.Fprintf(&b, "**%s**\n\n", usage)

	if len(cmd.Flags) == 0 {
		return b.String()
	}

	b.WriteString("# OPTIONS\n\n")
	for _, f := range cmd.Flags {
		b.WriteString(flagTerm(f.Names()))
		b.WriteString("\n")

		desc := ""
		if d, ok := f.(cli.DocGenerationFlag); ok {
			desc = d.GetUsage()
			if v := d.GetValue(); d.TakesValue() && v != "" {
				desc += fmt.Sprintf(" (default: %s)", v)
			}
		}
		fmt.Fprintf(&b, ": %s\n\n", desc)
	}

	return b.String()
}

func flagTerm(names []string) string {
	parts := make([]string, 0, len(names))
	for _, n := range names {
		prefix := "--"
		if len(n) == 1 {
			prefix = "-"
		}
		parts = append(parts, "**"+prefix+n+"**")
	}
	return strings.Join(parts, ", ")
}
