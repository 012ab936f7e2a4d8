// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tidwall/gjson"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/master-hax/rgit/internal/attrs"
	"github.com/master-hax/rgit/internal/filters"
	"github.com/master-hax/rgit/internal/meta"
	"github.com/master-hax/rgit/internal/metrics"
)

const indexTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>rgit</title></head>
<body>
<table>
<thead><tr><th></th><th>commit</th><th>mode</th><th>committed</th><th>age</th><th>summary</th></tr></thead>
<tbody>
{{- range .Commits}}
<tr>
<td><img src="{{gravatar .Email}}" alt="{{.Email}}" width="20" height="20"></td>
<td><a href="/commit/{{hex .ID}}{{branch_query $.Branch}}">{{hex .ID}}</a></td>
<td><code>{{file_perms .Mode}}</code></td>
<td><time datetime="{{format_time .Committed}}">{{format_time .Committed}}</time></td>
<td>{{timeago .Committed}}</td>
<td>{{.Summary}}</td>
</tr>
{{- end}}
</tbody>
</table>
</body>
</html>
`

// commitView is one row of the index page.
type commitView struct {
	ID        any
	Email     string
	Committed any
	Mode      any
	Summary   string
}

type indexPage struct {
	Branch  *string
	Commits []commitView
}

func newCommitView(c gjson.Result) (commitView, error) {
	v := commitView{
		Email:   c.Get("author.email").String(),
		Summary: c.Get("summary").String(),
	}

	var err error
	if v.ID, err = attrs.FilterInput("hex", c.Get("id")); err != nil {
		return v, err
	}
	if v.Committed, err = attrs.FilterInput("format_time", c.Get("committed")); err != nil {
		return v, err
	}
	if v.Mode, err = attrs.FilterInput("file_perms", c.Get("mode")); err != nil {
		return v, err
	}
	return v, nil
}

// NewRouter returns the preview server's routes: the commit table at / and
// the prometheus registry at /metrics.
func NewRouter(commits []gjson.Result, set *filters.Set, m *metrics.Metrics) (http.Handler, error) {
	tmpl, err := template.New("index").Funcs(set.FuncMap()).Parse(indexTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger, middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/", handleIndex(tmpl, commits))
	if m != nil {
		r.Handle("/metrics", m.Handler())
	}

	return r, nil
}

func handleIndex(tmpl *template.Template, commits []gjson.Result) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := indexPage{Commits: make([]commitView, 0, len(commits))}
		if r.URL.Query().Has("h") {
			branch := r.URL.Query().Get("h")
			page.Branch = &branch
		}

		for i, c := range commits {
			v, err := newCommitView(c)
			if err != nil {
				log.WithError(err).WithField("commit", i).Error("bad commit")
				http.Error(w, fmt.Sprintf("commit %d: %v", i, err), http.StatusInternalServerError)
				return
			}
			page.Commits = append(page.Commits, v)
		}

		// Render into a buffer so a failing filter yields a clean 500.
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, page); err != nil {
			log.WithError(err).Error("render failed")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.WithFields(log.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": middleware.GetReqID(r.Context()),
			"status":     ww.Status(),
			"took":       time.Since(start),
		}).Info("request")
	})
}

// ServeCommandAction is the action handler for the "serve" subcommand. It
// runs until ctx is cancelled.
func ServeCommandAction(ctx context.Context, cmd *cli.Command) error {
	meta := GetMeta(cmd)

	commits, err := ReadCommits(cmd.String("input"), cmd.Root().Reader)
	if err != nil {
		return err
	}

	set := meta.Filters
	if set == nil {
		set = filters.NewSet(filters.WithMetrics(meta.Metrics))
	}

	handler, err := NewRouter(commits, set, meta.Metrics)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cmd.String("addr"),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("shutdown failed")
		}
	}()

	log.Infof("serving %d commits on %s", len(commits), srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

// ServeCommandBuilder constructs the cli.Command definition for the "serve"
// command.
func ServeCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "serve",
		Usage:     "serve an HTML commit table rendered with the filters",
		UsageText: AppName + " serve [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "address to listen on",
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("RGIT_ADDR"),
					yaml.YAML("serve.addr", altsrc.StringSourcer(meta.Config.Source)),
				),
				Value: ":8080",
			},
			NewInputFlag(meta, "serve"),
		},
		Action: ServeCommandAction,
	}
}
