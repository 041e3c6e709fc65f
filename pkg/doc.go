// Package pkg provides the core libraries for centerbox.
//
// # Overview
//
// Centerbox lays a sequence of words out as a box: a fixed number of columns
// and at most a fixed number of lines, every line centered with the same
// amount of padding on both sides. The pkg directory is organized into:
//
//  1. [box] - Domain logic (lines, boxes, the search and ranking)
//  2. [pipeline] - Orchestration (text → words → search → rank)
//  3. [io] - Text and JSON output, and the cache codec
//  4. [cache] - Result caching (file, Redis, none)
//  5. [errors], [observability], [buildinfo] - Shared infrastructure
//
// # Architecture
//
// The typical data flow through centerbox:
//
//	Input line
//	     ↓
//	[box.SplitWords] (NFC, split on single spaces)
//	     ↓
//	[box.Searcher] (breadth-first, one closed line per level)
//	     ↓
//	[box.Rank] (optional: dispersion or space count)
//	     ↓
//	[io.WriteText] / [io.WriteJSON]
//
// # Quick Start
//
// Find and print every box for a text:
//
//	import (
//	    "os"
//	    "github.com/matzehuels/centerbox/pkg/box"
//	    "github.com/matzehuels/centerbox/pkg/io"
//	)
//
//	boxes, _ := box.FindValidBoxes(18, 8, box.SplitWords("happy birthday to you"))
//	best := box.Rank(boxes, box.Dispersion)
//	io.WriteTexts(os.Stdout, best)
//
// With caching and validation, as the CLI and HTTP API do:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, _ := runner.Execute(ctx, "happy birthday to you", pipeline.Options{Best: true})
//
// # Main Packages
//
// [box] - Immutable [box.Line] and [box.Box] values, the [box.Searcher] that
// enumerates every distinct complete box, and the ranking metrics.
//
// [pipeline] - Options, defaults and a caching [pipeline.Runner] used by the
// CLI and the HTTP API. Ensures consistent behavior across entry points.
//
// [io] - The quoted text format appended to output files, the JSON document
// served by the API, and the compact encoding stored in the cache.
//
// [cache] - Byte-oriented caches keyed by a hash of the words and search
// options. Cached boxes are revalidated when decoded.
//
// [errors] - Structured error codes shared by the CLI and the HTTP API.
//
// [observability] - Hooks for search, cache and HTTP events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/box/...      # Specific package
//	go test -run Example ./... # Examples only
//
// Redis tests run when CENTERBOX_TEST_REDIS_URL is set.
//
// [box]: https://pkg.go.dev/github.com/matzehuels/centerbox/pkg/box
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/centerbox/pkg/pipeline
// [io]: https://pkg.go.dev/github.com/matzehuels/centerbox/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/centerbox/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/centerbox/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/centerbox/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/centerbox/pkg/buildinfo
package pkg
