// Package pipeline runs one input line through the box search.
//
// This package implements the text → words → search → rank pipeline shared
// by the CLI, the interactive loop and the HTTP API. Centralizing it keeps
// validation, defaults and caching identical across entry points.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Width: 18, MaxLines: 8, Best: true}
//	result, err := runner.Execute(ctx, "happy birthday to you", opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, b := range result.Boxes {
//	    fmt.Print(b)
//	}
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/centerbox/pkg/box"
	"github.com/matzehuels/centerbox/pkg/cache"
	"github.com/matzehuels/centerbox/pkg/errors"
	pkgio "github.com/matzehuels/centerbox/pkg/io"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the width of the default preset.
	DefaultWidth = 18

	// DefaultMaxLines is the height of the default preset.
	DefaultMaxLines = 8

	// ExtendedWidth is the width of the extended preset.
	ExtendedWidth = 26

	// ExtendedMaxLines is the height of the extended preset.
	ExtendedMaxLines = 10

	// DefaultMetric ranks boxes when Best is set and no metric is given.
	DefaultMetric = box.MetricDispersion
)

// Preset names.
const (
	PresetDefault  = "default"
	PresetExtended = "extended"
)

// Format constants for output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText: true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Width          int    `json:"width,omitempty"`
	MaxLines       int    `json:"max_lines,omitempty"`
	Best           bool   `json:"best,omitempty"`
	Metric         string `json:"metric,omitempty"`
	SkipBlankLines bool   `json:"skip_blank_lines,omitempty"`
	Refresh        bool   `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID identifies the run.
	ID string

	// Text is the raw input line.
	Text string

	// Words are the words the text split into.
	Words []string

	// Boxes are the valid boxes, ranked when Options.Best was set.
	Boxes []box.Box

	// Found is the number of valid boxes before ranking.
	Found int

	// Metric is the ranking metric, empty when unranked.
	Metric string

	// Width and MaxLines are the box size searched.
	Width    int
	MaxLines int

	// Stats contains timing information.
	Stats Stats

	// CacheHit reports whether the search results came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SearchTime time.Duration
	RankTime   time.Duration
}

// Document converts the result to its JSON export form.
func (r *Result) Document() pkgio.Document {
	doc := pkgio.NewDocument(r.Text, r.Width, r.MaxLines, r.Boxes)
	doc.ID = r.ID
	doc.Metric = r.Metric
	doc.Cached = r.CacheHit
	return doc
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: text, json)", format)
	}
	return nil
}

// ValidateMetric checks that a metric name is registered.
func ValidateMetric(name string) error {
	if _, err := box.MetricByName(name); err != nil {
		return errors.New(errors.ErrCodeInvalidMetric, "%s", err)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset fields with the default preset and metric.
func (o *Options) SetDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.MaxLines == 0 {
		o.MaxLines = DefaultMaxLines
	}
	if o.Best && o.Metric == "" {
		o.Metric = DefaultMetric
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults and checks the result.
// Calling it more than once has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	if err := errors.ValidateDimensions(o.Width, o.MaxLines); err != nil {
		return err
	}
	if o.Best {
		return ValidateMetric(o.Metric)
	}
	return nil
}

// BoxKeyOpts returns cache key options for the search.
func (o *Options) BoxKeyOpts() cache.BoxKeyOpts {
	return cache.BoxKeyOpts{
		Width:          o.Width,
		MaxLines:       o.MaxLines,
		SkipBlankLines: o.SkipBlankLines,
	}
}

// Searcher returns the box searcher for these options.
func (o *Options) Searcher() box.Searcher {
	return box.Searcher{
		Width:          o.Width,
		MaxLines:       o.MaxLines,
		SkipBlankLines: o.SkipBlankLines,
	}
}
