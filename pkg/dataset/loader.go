// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gssr-go/gssr/pkg/defaults"
	gsserrors "github.com/gssr-go/gssr/pkg/errors"
	"github.com/gssr-go/gssr/pkg/stata"
	"github.com/gssr-go/gssr/pkg/table"
)

// EnvDataDir names the environment variable holding the data directory.
const EnvDataDir = "GSSR_DATA_DIR"

// Extensions lists the supported file extensions in lookup order.
var Extensions = []string{".dta", ".csv"}

// SubColumns are the cumulative-file columns kept in gss_sub when it is
// derived rather than read from its own file.
var SubColumns = []string{
	"year", "id", "age", "sex", "race", "region", "degree", "polviews", "fefam",
	"sample", "vpsu", "vstrat", "oversamp", "formwt", "wtssall",
}

// DefaultDir returns GSSR_DATA_DIR, or a gssr directory under the user cache
// directory when it is unset.
func DefaultDir() string {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir
	}
	if cache, err := os.UserCacheDir(); err == nil {
		return filepath.Join(cache, "gssr")
	}
	return "."
}

// Option configures a Loader.
type Option func(*Loader)

// WithTimeout bounds each dataset read.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		l.timeout = d
	}
}

// WithSubColumns replaces the columns kept in a derived gss_sub.
func WithSubColumns(cols ...string) Option {
	return func(l *Loader) {
		l.subColumns = slices.Clone(cols)
	}
}

type entry struct {
	mu     sync.Mutex
	loaded bool
	t      table.Table
}

// Loader reads named datasets from a data directory. Nothing is read until
// Load is called; each dataset is read at most once and then served from
// memory. A Loader is safe for concurrent use.
type Loader struct {
	dir        string
	timeout    time.Duration
	subColumns []string

	mu      sync.Mutex
	entries map[string]*entry
}

// NewLoader returns a Loader over dir. An empty dir means DefaultDir.
func NewLoader(dir string, opts ...Option) *Loader {
	if dir == "" {
		dir = DefaultDir()
	}
	l := &Loader{
		dir:        dir,
		timeout:    defaults.DatasetLoadTimeout,
		subColumns: SubColumns,
		entries:    make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Dir returns the data directory.
func (l *Loader) Dir() string { return l.dir }

func (l *Loader) slot(name string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[name]
	if !ok {
		e = &entry{}
		l.entries[name] = e
	}
	return e
}

// Load returns the named dataset, reading it on first use. Codebook names
// are rejected; use package codebook for those.
func (l *Loader) Load(ctx context.Context, name string) (table.Table, error) {
	info, err := Lookup(name)
	if err != nil {
		return table.Table{}, err
	}
	if info.Kind == KindCodebook {
		return table.Table{}, gsserrors.NewWithContext(gsserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("%s is a codebook, not a data table", name),
			map[string]any{"dataset": name, "codebook": info.Codebook})
	}

	e := l.slot(name)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loaded {
		datasetCacheHits.WithLabelValues(name).Inc()
		return e.t, nil
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	start := time.Now()
	t, err := l.read(ctx, info)
	datasetLoadDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		datasetLoads.WithLabelValues(name, string(gsserrors.CodeOf(err))).Inc()
		return table.Table{}, err
	}
	datasetLoads.WithLabelValues(name, "ok").Inc()

	e.t, e.loaded = t, true
	slog.Info("dataset loaded",
		"dataset", name,
		"rows", t.NRow(),
		"columns", t.NCol(),
		"duration", time.Since(start),
	)
	return t, nil
}

// LoadMany loads several datasets concurrently. The first failure cancels
// the remaining loads.
func (l *Loader) LoadMany(ctx context.Context, names ...string) (map[string]table.Table, error) {
	var mu sync.Mutex
	out := make(map[string]table.Table, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range names {
		g.Go(func() error {
			t, err := l.Load(gctx, name)
			if err != nil {
				return err
			}
			mu.Lock()
			out[name] = t
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Loaded returns the names of datasets held in memory.
func (l *Loader) Loaded() []string {
	l.mu.Lock()
	entries := make(map[string]*entry, len(l.entries))
	for k, v := range l.entries {
		entries[k] = v
	}
	l.mu.Unlock()

	var out []string
	for name, e := range entries {
		e.mu.Lock()
		if e.loaded {
			out = append(out, name)
		}
		e.mu.Unlock()
	}
	slices.Sort(out)
	return out
}

// Find returns the file backing a dataset, trying each of Extensions.
func (l *Loader) Find(name string) (string, bool) {
	for _, ext := range Extensions {
		path := filepath.Join(l.dir, name+ext)
		if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
			return path, true
		}
	}
	return "", false
}

func (l *Loader) read(ctx context.Context, info Info) (table.Table, error) {
	if err := ctx.Err(); err != nil {
		return table.Table{}, gsserrors.Wrap(gsserrors.ErrCodeTimeout, "dataset load canceled", err)
	}

	path, ok := l.Find(info.Name)
	if !ok {
		if info.DerivedFrom != "" {
			return l.derive(ctx, info)
		}
		return table.Table{}, gsserrors.NewWithContext(gsserrors.ErrCodeNotFound,
			fmt.Sprintf("no file for dataset %s", info.Name),
			map[string]any{"dataset": info.Name, "dir": l.dir, "extensions": Extensions})
	}

	slog.Debug("reading dataset", "dataset", info.Name, "path", path)
	t, err := readFile(ctx, path)
	if err != nil {
		return table.Table{}, err
	}
	if err := ctx.Err(); err != nil {
		return table.Table{}, gsserrors.Wrap(gsserrors.ErrCodeTimeout, "dataset load timed out", err)
	}
	if info.Kind == KindPanel {
		if err := ValidatePanel(t); err != nil {
			return table.Table{}, err
		}
	}
	return t, nil
}

func readFile(ctx context.Context, path string) (table.Table, error) {
	switch filepath.Ext(path) {
	case ".dta":
		f, err := stata.ReadFile(ctx, path)
		if err != nil {
			return table.Table{}, err
		}
		return f.Table, nil
	case ".csv":
		fh, err := os.Open(path)
		if err != nil {
			return table.Table{}, gsserrors.Wrap(gsserrors.ErrCodeNotFound, "failed to open csv file", err)
		}
		defer fh.Close()
		return ReadCSV(ctx, fh)
	default:
		return table.Table{}, gsserrors.NewWithContext(gsserrors.ErrCodeInvalidRequest,
			"unsupported dataset file", map[string]any{"path": path})
	}
}

// derive builds a column subset of the parent dataset. Columns missing
// from the parent are skipped.
func (l *Loader) derive(ctx context.Context, info Info) (table.Table, error) {
	parent, err := l.Load(ctx, info.DerivedFrom)
	if err != nil {
		if gsserrors.CodeOf(err) == gsserrors.ErrCodeNotFound {
			return table.Table{}, gsserrors.WrapWithContext(gsserrors.ErrCodeNotFound,
				fmt.Sprintf("no file for dataset %s or %s", info.Name, info.DerivedFrom), err,
				map[string]any{"dataset": info.Name, "dir": l.dir})
		}
		return table.Table{}, err
	}
	keep := make([]string, 0, len(l.subColumns))
	for _, c := range l.subColumns {
		if parent.Has(c) {
			keep = append(keep, c)
		}
	}
	slog.Debug("deriving dataset", "dataset", info.Name, "from", info.DerivedFrom, "columns", len(keep))
	return parent.Select(keep...)
}

// Status reports where a dataset would be read from and whether it is
// already in memory.
type Status struct {
	Info   `yaml:",inline"`
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
	Loaded bool   `json:"loaded" yaml:"loaded"`
}

// StatusList is a list of dataset statuses.
type StatusList []Status

func (l StatusList) Header() []string {
	return []string{"NAME", "KIND", "FILE", "LOADED", "DESCRIPTION"}
}

func (l StatusList) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, s := range l {
		file := s.File
		if file == "" && s.DerivedFrom != "" {
			file = "(from " + s.DerivedFrom + ")"
		}
		rows = append(rows, []string{s.Name, string(s.Kind), file, fmt.Sprintf("%t", s.Loaded), s.Description})
	}
	return rows
}

// Status lists every data table in the registry. Codebooks are left out.
func (l *Loader) Status() StatusList {
	loaded := make(map[string]bool)
	for _, name := range l.Loaded() {
		loaded[name] = true
	}
	var out StatusList
	for _, info := range registry {
		if info.Kind == KindCodebook {
			continue
		}
		path, _ := l.Find(info.Name)
		out = append(out, Status{Info: info, File: path, Loaded: loaded[info.Name]})
	}
	return out
}
