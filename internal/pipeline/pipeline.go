// Package pipeline is the concurrent driver tying the extractors and
// collectors together: it walks a built site, fans document processing out
// across a worker pool, and folds each worker's partial collectors into one
// result. The worker-pool shape is grounded on
// eoinhurrell-mdnotes/internal/workerpool and .../processor/parallel.go's
// hand-rolled jobs-channel-plus-WaitGroup pattern; golang.org/x/sync/errgroup
// is used here as the idiomatic replacement for that pattern's channel and
// error-plumbing boilerplate.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hreflint/hreflint/internal/collector"
	"github.com/hreflint/hreflint/internal/fingerprint"
	"github.com/hreflint/hreflint/internal/htmlextract"
	"github.com/hreflint/hreflint/internal/linkmodel"
)

// Options configures one validation run.
type Options struct {
	// SiteRoot is the built-site directory to scan for HTML documents.
	SiteRoot string
	// SourcesRoot, if non-empty, enables Markdown source attribution: a
	// document's broken-link reports point at the Markdown paragraph that
	// produced the offending link instead of just the rendered HTML file.
	SourcesRoot string
	// CheckAnchors enables id=/name= Defines and anchor-aware matching.
	CheckAnchors bool
	// Exclude is a set of glob patterns (matched against each document's
	// site-relative path) to skip entirely.
	Exclude []string
	// Jobs caps worker concurrency. Zero means 4*runtime.NumCPU(), a
	// CPU-relative default since this pipeline is parsing-bound, not
	// network-bound.
	Jobs int
}

// Result is everything one pipeline run produced.
type Result struct {
	Used   *collector.Used
	Broken *collector.Broken
	// External holds every href classified external during extraction.
	External *collector.Used
	// CorrelatedBroken is Broken.BrokenLinks(Options.CheckAnchors), with every
	// fingerprint-matched usage re-attributed to its Markdown source location
	// when Options.SourcesRoot is set. Callers that want source attribution
	// should read this instead of calling Broken.BrokenLinks directly.
	CorrelatedBroken []collector.BrokenLink
	// FileCount is every regular file discovered under SiteRoot — the
	// self-definition universe.
	FileCount int
	// DocumentCount is the subset of FileCount with an .html/.htm extension —
	// the documents actually tokenized for links and paragraphs.
	DocumentCount int
	ExcludedCount int
}

const defaultJobMultiplier = 4

// Run scans opts.SiteRoot, extracts and collects every document concurrently,
// and returns the merged result. It returns an error only for scan-level
// failures (bad exclude pattern, unreadable root); a single unreadable
// document aborts the whole run via errgroup's first-error propagation.
func Run(ctx context.Context, opts Options) (Result, error) {
	excludes, err := compileExcludes(opts.Exclude)
	if err != nil {
		return Result{}, fmt.Errorf("compile exclude patterns: %w", err)
	}

	docs, excludedCount, err := walkFiles(opts.SiteRoot, excludes)
	if err != nil {
		return Result{}, fmt.Errorf("scan site root: %w", err)
	}
	documentCount := 0
	for _, d := range docs {
		if d.isHTML {
			documentCount++
		}
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = defaultJobMultiplier * runtime.NumCPU()
	}
	if jobs > len(docs) {
		jobs = len(docs)
	}
	if jobs < 1 {
		jobs = 1
	}

	shards := shardDocuments(docs, jobs)
	shardResults := make([]shardOutput, len(shards))

	g, gctx := errgroup.WithContext(ctx)
	for i, shard := range shards {
		i, shard := i, shard
		g.Go(func() error {
			out, err := processShard(gctx, shard, opts)
			if err != nil {
				return err
			}
			shardResults[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	used := collector.NewUsed()
	broken := collector.NewBroken()
	external := collector.NewUsed()
	for _, out := range shardResults {
		if out.used == nil {
			continue // shard had zero documents
		}
		used.Merge(out.used)
		broken.Merge(out.broken)
		external.Merge(out.external)
	}

	correlated := broken.BrokenLinks(opts.CheckAnchors)
	if opts.SourcesRoot != "" && len(correlated) > 0 {
		index, err := BuildSourceIndex(opts.SourcesRoot)
		if err != nil {
			return Result{}, fmt.Errorf("scan sources root: %w", err)
		}
		correlated = correlateBrokenLinks(correlated, index)
	}

	return Result{
		Used:             used,
		Broken:           broken,
		External:         external,
		CorrelatedBroken: correlated,
		FileCount:        len(docs),
		DocumentCount:    documentCount,
		ExcludedCount:    excludedCount,
	}, nil
}

type shardOutput struct {
	used     *collector.Used
	broken   *collector.Broken
	external *collector.Used
}

// shardDocuments deals documents round-robin across shards so that a
// directory of many small files and a directory of few large ones both
// spread evenly, instead of chunking by contiguous range.
func shardDocuments(docs []document, shards int) [][]document {
	out := make([][]document, shards)
	for i, d := range docs {
		out[i%shards] = append(out[i%shards], d)
	}
	return out
}

// processShard extracts and ingests every document in one shard into a
// collector pair private to this goroutine; Run merges all shards' pairs
// together once every shard has finished.
func processShard(ctx context.Context, docs []document, opts Options) (shardOutput, error) {
	used := collector.NewUsed()
	broken := collector.NewBroken()
	external := collector.NewUsed()
	interner := linkmodel.NewInterner()

	// trackParagraphs is a run-wide decision, not a per-document one: a
	// paragraph's fingerprint is matched against the whole sources tree by
	// content after the run, not against one document's same-named file, so
	// every document must record fingerprints whenever a sources tree was
	// configured at all.
	trackParagraphs := opts.SourcesRoot != ""

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return shardOutput{}, err
		}

		// Every regular file self-defines its canonical href unconditionally,
		// whether or not it is HTML: a referenced CSS/JS/image asset that
		// exists must not be reported broken just because it is never parsed.
		used.Ingest(linkmodel.Defines(doc.canonicalHref))
		broken.Ingest(linkmodel.Defines(doc.canonicalHref))

		if !doc.isHTML {
			continue
		}

		data, err := os.ReadFile(doc.absPath)
		if err != nil {
			return shardOutput{}, fmt.Errorf("read %s: %w", doc.relPath, err)
		}

		var fp fingerprint.Fingerprinter = fingerprint.Noop{}
		if trackParagraphs {
			fp = fingerprint.NewHasher()
		}

		htmlOpts := htmlextract.Options{CheckAnchors: opts.CheckAnchors, TrackParagraphs: trackParagraphs}
		res := htmlextract.Extract(data, doc.canonicalHref, doc.relativeBase, htmlOpts, fp)

		if res.Charset != "" && !strings.EqualFold(res.Charset, "utf-8") {
			fmt.Fprintf(os.Stderr, "%s: detected charset %s, relaxing percent-decode validity check\n", doc.relPath, res.Charset)
		}

		htmlSource := interner.Intern(doc.absPath)

		for _, l := range res.Links {
			if l.Kind == linkmodel.KindUses {
				l.Used.Source = htmlSource
			}
			used.Ingest(l)
			broken.Ingest(l)
		}

		for _, u := range res.External {
			u.Source = htmlSource
			external.Ingest(linkmodel.Uses(u))
		}
	}

	return shardOutput{used: used, broken: broken, external: external}, nil
}
