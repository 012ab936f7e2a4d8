// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package gravatar

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"net/url"
	"strconv"
	"sync"

	"github.com/apex/log"

	"github.com/master-hax/rgit/internal/config"
	"github.com/master-hax/rgit/internal/lookup"
)

// DefaultBaseURL is the avatar endpoint used when none is configured.
const DefaultBaseURL = "https://www.gravatar.com/avatar/"

// ErrEmptyEmail is returned when asked for the avatar of an empty address.
var ErrEmptyEmail = errors.New("empty email address")

// Options controls how avatar URLs are built.
type Options struct {
	// BaseURL is prefixed to the hex digest. Defaults to DefaultBaseURL.
	BaseURL string
	// Size, when > 0, is sent as the s= query parameter.
	Size int
	// Default, when set, is sent as the d= query parameter (e.g. "identicon").
	Default string
	// Observer, when set, receives the cache's hit/miss outcomes.
	Observer lookup.Observer
}

// OptionsFromConfig reads the gravatar.* keys from the config file, falling
// back to the defaults for anything missing.
func OptionsFromConfig() Options {
	base, _ := config.GetString("gravatar.base_url", DefaultBaseURL)
	size, _ := config.GetInt("gravatar.size", 0)
	def, _ := config.GetString("gravatar.default", "")
	return Options{BaseURL: base, Size: size, Default: def}
}

func (o Options) params() url.Values {
	v := url.Values{}
	if o.Default != "" {
		v.Set("d", o.Default)
	}
	if o.Size > 0 {
		v.Set("s", strconv.Itoa(o.Size))
	}
	return v
}

// Hash returns the lowercase hex MD5 digest of email. The address is hashed
// exactly as given.
func Hash(email string) string {
	sum := md5.Sum([]byte(email))
	return hex.EncodeToString(sum[:])
}

// Derive returns a lookup.DeriveFunc building base + Hash(email), with params
// appended as a query string when non-empty.
func Derive(base string, params url.Values) lookup.DeriveFunc {
	if base == "" {
		base = DefaultBaseURL
	}
	query := ""
	if len(params) > 0 {
		query = "?" + params.Encode()
	}

	return func(email string) (string, error) {
		if email == "" {
			return "", ErrEmptyEmail
		}
		return base + Hash(email) + query, nil
	}
}

// Resolver memoizes avatar URLs per email address.
type Resolver struct {
	cache *lookup.Cache
}

// NewResolver returns a Resolver with its own empty cache.
func NewResolver(o Options) *Resolver {
	var opts []lookup.Option
	if o.Observer != nil {
		opts = append(opts, lookup.WithObserver(o.Observer))
	}
	return &Resolver{cache: lookup.New(Derive(o.BaseURL, o.params()), opts...)}
}

// URL returns the avatar URL for email.
func (r *Resolver) URL(email string) (string, error) {
	return r.cache.Resolve(email)
}

// Len returns how many addresses have been resolved.
func (r *Resolver) Len() int {
	return r.cache.Len()
}

var (
	sharedOnce sync.Once
	shared     *Resolver
)

// Init installs the process-wide Resolver. Only the first call to Init or
// Shared initialises it; Init reports whether this call did.
func Init(o Options) bool {
	installed := false
	sharedOnce.Do(func() {
		shared = NewResolver(o)
		installed = true
	})
	if !installed {
		log.Debug("gravatar: shared resolver already initialised")
	}
	return installed
}

// Shared returns the process-wide Resolver, initialising it from the config
// file if Init was never called. It lives until the process exits.
func Shared() *Resolver {
	sharedOnce.Do(func() {
		shared = NewResolver(OptionsFromConfig())
	})
	return shared
}
