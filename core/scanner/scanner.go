// Package scanner drives the linter over files on disk.
package scanner

import (
	"context"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/rafabd1/LintHound/core/lint"
	"github.com/rafabd1/LintHound/core/parser"
	"github.com/rafabd1/LintHound/output"
	"github.com/rafabd1/LintHound/utils"
	"golang.org/x/sync/errgroup"
)

// Config holds the configuration for the scanner
type Config struct {
	// Number of files linted at once
	Concurrency int

	// Files larger than this are skipped; 0 disables the limit
	MaxFileSize int64

	// Extensions kept when walking directories
	Extensions []string
}

// Stats holds statistics for one Scan
type Stats struct {
	TotalFiles     int
	ProcessedFiles int
	SkippedFiles   int
	FailedFiles    int
	// ParseErrors counts files with syntax errors, linted or not.
	ParseErrors    int
	CacheHits      int
	Diagnostics    int
	TotalBytes     int64
	StartTime      time.Time
	EndTime        time.Time
}

// Result holds every linted file sorted by path.
type Result struct {
	Files []lint.FileDiagnostics
	Stats Stats
}

// Scanner lints files concurrently with a shared Linter.
type Scanner struct {
	linter *lint.Linter
	logger *output.Logger
	config Config
	cache  *resultCache

	mu    sync.Mutex
	stats Stats
}

func New(linter *lint.Linter, config Config, logger *output.Logger) *Scanner {
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	return &Scanner{linter: linter, logger: logger, config: config, cache: newResultCache()}
}

// Scan expands paths and lints every file found. A file that cannot be read
// or parsed is logged and counted without stopping the others. Cancelling
// ctx stops scheduling new files and returns what was finished with the
// context error.
func (s *Scanner) Scan(ctx context.Context, paths []string) (Result, error) {
	files, err := utils.CollectFiles(paths, s.config.Extensions)
	if err != nil {
		return Result{}, err
	}

	s.mu.Lock()
	s.stats = Stats{TotalFiles: len(files), StartTime: time.Now()}
	s.mu.Unlock()

	s.logger.Info("Found %d files to lint", len(files))

	progress := s.logger.NewProgressBar(len(files))
	collector := &lint.Collector{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(s.config.Concurrency, len(files))))
	for _, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			defer progress.Increment()
			fd, ok := s.processFile(path)
			if ok {
				collector.Add(fd)
			}
			return nil
		})
	}
	waitErr := g.Wait()
	progress.Finish()

	out := collector.Files()
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })

	s.mu.Lock()
	s.stats.EndTime = time.Now()
	stats := s.stats
	s.mu.Unlock()

	s.logFinalStats(stats)

	if waitErr == nil {
		waitErr = ctx.Err()
	}
	return Result{Files: out, Stats: stats}, waitErr
}

func (s *Scanner) processFile(path string) (lint.FileDiagnostics, bool) {
	fi, err := os.Stat(path)
	if err != nil {
		s.fail(path, err)
		return lint.FileDiagnostics{}, false
	}

	if s.config.MaxFileSize > 0 && fi.Size() > s.config.MaxFileSize {
		s.skip()
		s.logger.Debug("Skipping large file: %s (%s)", path, utils.FormatByteSize(fi.Size()))
		return lint.FileDiagnostics{}, false
	}

	content, err := os.ReadFile(path)
	if err != nil {
		s.fail(path, err)
		return lint.FileDiagnostics{}, false
	}

	if utils.IsBinaryContent(content) {
		s.skip()
		s.logger.Debug("Skipping binary content in file: %s", path)
		return lint.FileDiagnostics{}, false
	}

	src := string(content)
	key := cacheKey(content)
	if diags, ok := s.cache.get(key); ok {
		s.mu.Lock()
		s.stats.CacheHits++
		s.mu.Unlock()
		s.logger.Debug("%s: reusing results of identical content", path)
		s.record(fi.Size(), len(diags))
		return lint.FileDiagnostics{Path: path, Source: src, Diagnostics: diags}, true
	}

	tree, err := parser.Parse(src)
	if err != nil {
		s.mu.Lock()
		s.stats.ParseErrors++
		s.mu.Unlock()
		if tree == nil {
			s.logger.Warning("Skipping %s: %v", path, utils.NewError(utils.ParseError, "cannot parse", err))
			return lint.FileDiagnostics{}, false
		}
		s.logger.Warning("%s: %v", path, utils.NewError(utils.ParseError, "recovered from syntax errors", err))
	}
	if n := tree.Dropped(); n > 0 {
		s.logger.Debug("%s: dropped %d malformed nodes", path, n)
	}

	diags := s.linter.Lint(path, tree)
	s.cache.store(key, diags)
	s.record(fi.Size(), len(diags))

	if len(diags) > 0 {
		s.logger.Debug("%d diagnostics in %s", len(diags), path)
	}
	return lint.FileDiagnostics{Path: path, Source: src, Diagnostics: diags}, true
}

func (s *Scanner) record(size int64, diags int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.ProcessedFiles++
	s.stats.Diagnostics += diags
	s.stats.TotalBytes += size
}

func (s *Scanner) skip() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.SkippedFiles++
}

func (s *Scanner) fail(path string, err error) {
	s.mu.Lock()
	s.stats.FailedFiles++
	s.mu.Unlock()
	s.logger.Error("%v", utils.NewError(utils.IOError, "cannot read "+path, err))
}

func (s *Scanner) logFinalStats(st Stats) {
	duration := st.EndTime.Sub(st.StartTime)
	s.logger.Info("Linted %d files (%s) in %s", st.ProcessedFiles, utils.FormatByteSize(st.TotalBytes), utils.FormatDuration(duration))
	if st.SkippedFiles > 0 || st.FailedFiles > 0 || st.ParseErrors > 0 {
		s.logger.Info("Skipped %d, failed %d, with syntax errors %d", st.SkippedFiles, st.FailedFiles, st.ParseErrors)
	}
	if st.CacheHits > 0 {
		s.logger.Debug("%d files reused cached results", st.CacheHits)
	}
	if st.Diagnostics > 0 {
		s.logger.Warning("Found %d problems", st.Diagnostics)
	} else {
		s.logger.Success("No problems found")
	}
}
