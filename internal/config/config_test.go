// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestConfig sets RGIT_CFG to point to a test config file.
// Returns cleanup function that should be deferred.
func setupTestConfig(t *testing.T, testdataFile string) (cleanup func()) {
	t.Helper()

	configPath := filepath.Join("testdata", testdataFile)
	absPath, err := filepath.Abs(configPath)
	require.NoError(t, err, "failed to get absolute path for test config")

	t.Setenv("RGIT_CFG", absPath)

	// Reset the global Config to force reload
	Config = Type{}

	return func() {
		Config = Type{}
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		testFile  string
		checkFunc func(*testing.T, Type)
	}{
		{
			name:     "simple values",
			testFile: "simple.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source)
				assert.Equal(t, "json", cfg.Data["output"])
				assert.Equal(t, 2, cfg.Data["padding"])
			},
		},
		{
			name:     "nested gravatar section",
			testFile: "gravatar.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				g, ok := cfg.Data["gravatar"].(map[string]interface{})
				require.True(t, ok, "gravatar should be a map")
				assert.Equal(t, "identicon", g["default"])
				assert.Equal(t, 40, g["size"])
			},
		},
		{
			name:     "mixed types",
			testFile: "mixed-types.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.Equal(t, "rgit", cfg.Data["name"])
				assert.Equal(t, true, cfg.Data["enabled"])
				assert.Equal(t, 30.5, cfg.Data["timeout"])
				tags, ok := cfg.Data["tags"].([]interface{})
				assert.True(t, ok)
				assert.Len(t, tags, 2)
			},
		},
		{
			name:     "empty file",
			testFile: "empty.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				// Empty YAML unmarshals to nil map, which is acceptable
				assert.NotEmpty(t, cfg.Source, "should have a source path")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setupTestConfig(t, tt.testFile)
			defer cleanup()

			cfg, err := Load()
			require.NoError(t, err)
			tt.checkFunc(t, cfg)
		})
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Setenv("RGIT_CFG", "/nonexistent/path/rgit.yaml")
	Config = Type{}

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_RGIT_CFG_IsDirectory(t *testing.T) {
	t.Setenv("RGIT_CFG", "testdata")
	Config = Type{}

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "points to a directory")
}

func TestGetString(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		key          string
		defaultValue []string
		want         string
		wantErr      bool
	}{
		{
			name:     "simple string value",
			testFile: "simple.yaml",
			key:      "output",
			want:     "json",
		},
		{
			name:     "nested string value",
			testFile: "gravatar.yaml",
			key:      "gravatar.base_url",
			want:     "https://seccdn.libravatar.org/avatar/",
		},
		{
			name:         "missing key with default",
			testFile:     "simple.yaml",
			key:          "gravatar.base_url",
			defaultValue: []string{"https://www.gravatar.com/avatar/"},
			want:         "https://www.gravatar.com/avatar/",
		},
		{
			name:     "missing key without default",
			testFile: "simple.yaml",
			key:      "missing",
			wantErr:  true,
		},
		{
			name:     "non-string value",
			testFile: "mixed-types.yaml",
			key:      "version",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setupTestConfig(t, tt.testFile)
			defer cleanup()

			got, err := GetString(tt.key, tt.defaultValue...)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetInt(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		key          string
		defaultValue []int
		want         int
		wantErr      bool
	}{
		{
			name:     "int value",
			testFile: "mixed-types.yaml",
			key:      "version",
			want:     1,
		},
		{
			name:     "float value converted to int",
			testFile: "mixed-types.yaml",
			key:      "timeout",
			want:     30,
		},
		{
			name:     "nested int value",
			testFile: "gravatar.yaml",
			key:      "gravatar.size",
			want:     40,
		},
		{
			name:         "missing key with default",
			testFile:     "simple.yaml",
			key:          "gravatar.size",
			defaultValue: []int{80},
			want:         80,
		},
		{
			name:     "missing key without default",
			testFile: "simple.yaml",
			key:      "missing",
			wantErr:  true,
		},
		{
			name:     "non-int value",
			testFile: "simple.yaml",
			key:      "output",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setupTestConfig(t, tt.testFile)
			defer cleanup()

			got, err := GetInt(tt.key, tt.defaultValue...)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetStringMap(t *testing.T) {
	cleanup := setupTestConfig(t, "gravatar.yaml")
	defer cleanup()

	colors, err := GetStringMap("colors")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"title": "#f6be00",
		"even":  "#ffffff",
		"odd":   "#00c8f0",
	}, colors, "non-string children are skipped")

	_, err = GetStringMap("gravatar.size")
	assert.Error(t, err)

	_, err = GetStringMap("missing")
	assert.Error(t, err)
}

func TestConfig_GetWithNamespace(t *testing.T) {
	cleanup := setupTestConfig(t, "namespace.yaml")
	defer cleanup()

	_, err := Load()
	require.NoError(t, err)

	// Namespaced value wins over the global one.
	Config.Namespace = "render"
	val, err := Config.get("output")
	assert.NoError(t, err)
	assert.Equal(t, "yaml", val)

	// Falls back to the global key.
	Config.Namespace = "serve"
	val, err = Config.get("output")
	assert.NoError(t, err)
	assert.Equal(t, "text", val)

	val, err = GetString("addr")
	assert.NoError(t, err)
	assert.Equal(t, ":9090", val)
}

func TestConfig_LazyLoad(t *testing.T) {
	cleanup := setupTestConfig(t, "simple.yaml")
	defer cleanup()

	// Don't explicitly call Load(), just use GetString
	val, err := GetString("output")
	assert.NoError(t, err)
	assert.Equal(t, "json", val)
	assert.NotEmpty(t, Config.Source, "Config should be loaded")
}

func TestGetStringSlice(t *testing.T) {
	cleanup := setupTestConfig(t, "namespace.yaml")
	defer cleanup()

	tests := []struct {
		name    string
		key     string
		want    []string
		wantErr bool
	}{
		{name: "list", key: "render.wide", want: []string{"--columns id::hex,author.email:avatar:gravatar,summary", "-o text"}},
		{name: "single item list", key: "render.defaults", want: []string{"--titles"}},
		{name: "scalar string", key: "output", want: []string{"text"}},
		{name: "map", key: "serve", wantErr: true},
		{name: "missing", key: "render.nope", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetStringSlice(tt.key)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_MissingFileProbedOnce(t *testing.T) {
	t.Setenv("RGIT_CFG", "/nonexistent/path/rgit.yaml")
	Config = Type{}
	t.Cleanup(func() { Config = Type{} })

	val, err := GetString("output", "text")
	require.NoError(t, err)
	assert.Equal(t, "text", val)
	assert.True(t, Config.attempted)

	// The failed lookup is remembered, so a file appearing later is not
	// picked up by the getters.
	path, err := filepath.Abs(filepath.Join("testdata", "simple.yaml"))
	require.NoError(t, err)
	t.Setenv("RGIT_CFG", path)

	val, err = GetString("output", "text")
	require.NoError(t, err)
	assert.Equal(t, "text", val)
	assert.Empty(t, Config.Source)

	// Resetting Config forgets the attempt.
	Config = Type{}
	val, err = GetString("output", "text")
	require.NoError(t, err)
	assert.Equal(t, "json", val)
}

func TestConfig_EmptyFileLoadedOnce(t *testing.T) {
	cleanup := setupTestConfig(t, "empty.yaml")
	defer cleanup()

	_, err := GetInt("padding", 1)
	require.NoError(t, err)
	require.True(t, Config.attempted)
	src := Config.Source
	assert.NotEmpty(t, src)

	t.Setenv("RGIT_CFG", "/nonexistent/path/rgit.yaml")
	got, err := GetInt("padding", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
	assert.Equal(t, src, Config.Source)
}
