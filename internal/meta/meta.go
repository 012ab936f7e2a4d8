// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package meta

import (
	"context"

	"github.com/master-hax/rgit/internal/config"
	"github.com/master-hax/rgit/internal/filters"
	"github.com/master-hax/rgit/internal/metrics"
)

// Meta are the meta-options that are available on all or most commands.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
	Filters *filters.Set
	Metrics *metrics.Metrics
}
