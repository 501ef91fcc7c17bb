// Package engine runs the resolution pipeline: it walks the input in batches,
// queries the SPARQL endpoint once per batch, joins the answers back onto the
// batch and hands the rows to the output sinks.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rshade/wdresolve/internal/engine/batch"
	"github.com/rshade/wdresolve/internal/logging"
	"github.com/rshade/wdresolve/internal/output"
	"github.com/rshade/wdresolve/internal/records"
	"github.com/rshade/wdresolve/internal/sparql"
)

// Defaults for resolver options.
const (
	DefaultProperty     = "P650" // RKD artists
	DefaultPause        = 500 * time.Millisecond
	DefaultEntityBase   = "http://www.wikidata.org/entity/"
	DefaultOnBatchError = PolicyBlank
)

// Lookup resolves one query to a map of canonical token to Q-code.
// *sparql.Client implements it.
type Lookup interface {
	Resolve(ctx context.Context, query string) (sparql.ResolutionMap, error)
}

// RowSink receives the rows of one batch, in input order.
type RowSink interface {
	WriteRows(rows []output.Row) error
}

// Echoer prints one line per row.
type Echoer interface {
	Echo(row output.Row) error
}

// Options configures a Resolver.
type Options struct {
	Property     string
	BatchSize    int
	Pause        time.Duration
	EntityBase   string
	OnBatchError Policy
}

func (o *Options) defaults() {
	if o.Property == "" {
		o.Property = DefaultProperty
	}
	if o.BatchSize == 0 {
		o.BatchSize = batch.DefaultBatchSize
	}
	if o.EntityBase == "" {
		o.EntityBase = DefaultEntityBase
	}
	if o.OnBatchError == "" {
		o.OnBatchError = DefaultOnBatchError
	}
}

// Resolver resolves records to Q-codes batch by batch.
type Resolver struct {
	lookup    Lookup
	opts      Options
	pacer     *Pacer
	processor *batch.Processor[records.Record]
}

// NewResolver validates opts and returns a resolver using lookup.
func NewResolver(lookup Lookup, opts Options) (*Resolver, error) {
	if lookup == nil {
		return nil, errors.New("resolver requires a lookup")
	}
	opts.defaults()

	if err := sparql.ValidateProperty(opts.Property); err != nil {
		return nil, err
	}
	policy, err := ParsePolicy(string(opts.OnBatchError))
	if err != nil {
		return nil, err
	}
	opts.OnBatchError = policy
	if opts.Pause < 0 {
		return nil, fmt.Errorf("pause must be >= 0, got %s", opts.Pause)
	}
	processor, err := batch.NewProcessor[records.Record](opts.BatchSize)
	if err != nil {
		return nil, err
	}

	return &Resolver{
		lookup:    lookup,
		opts:      opts,
		pacer:     NewPacer(opts.Pause),
		processor: processor,
	}, nil
}

// Run resolves recs in order and streams the rows to sink and echo. A failed
// lookup is handled by the batch error policy and does not stop the run; sink
// and echo errors, invalid input and cancellation do. The returned Summary
// covers everything processed before Run returned.
func (r *Resolver) Run(ctx context.Context, recs []records.Record, sink RowSink, echo Echoer) (Summary, error) {
	log := logging.FromContext(ctx)
	start := time.Now()
	summary := Summary{Records: len(recs)}

	processor := r.processor.WithProgressCallback(func(p *batch.Progress) {
		snap := p.Snapshot()
		log.Debug().Ctx(ctx).
			Str("component", "engine").
			Int("batches_done", snap.ProcessedBatches).
			Int("batches_total", snap.TotalBatches).
			Float64("percent", snap.PercentComplete).
			Dur("eta", snap.Remaining).
			Msg("batch progress")
	})

	log.Info().Ctx(ctx).
		Str("component", "engine").
		Str("property", r.opts.Property).
		Int("records", len(recs)).
		Int("batch_size", r.processor.GetBatchSize()).
		Dur("pause", r.pacer.Interval()).
		Str("on_batch_error", string(r.opts.OnBatchError)).
		Msg("resolution started")

	err := processor.Process(ctx, recs, func(ctx context.Context, items []records.Record, rng batch.Range) error {
		rows, batchErr := r.resolveBatch(ctx, items, rng, &summary)
		if batchErr != nil {
			return batchErr
		}

		if len(rows) > 0 {
			if writeErr := sink.WriteRows(rows); writeErr != nil {
				return writeErr
			}
		}
		for _, row := range rows {
			if echoErr := echo.Echo(row); echoErr != nil {
				return fmt.Errorf("writing console output: %w", echoErr)
			}
		}
		summary.Batches++

		if rng.End < len(recs) {
			return r.pacer.Wait(ctx)
		}
		return nil
	})
	summary.Elapsed = time.Since(start)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return summary, err
	}

	log.Info().Ctx(ctx).
		Str("component", "engine").
		Int("matched", summary.Matched).
		Int("unmatched", summary.Unmatched).
		Int("failed_batches", summary.FailedBatches).
		Int("rows", summary.Written(r.opts.OnBatchError)).
		Dur("elapsed", summary.Elapsed).
		Msg("resolution finished")

	return summary, nil
}

// resolveBatch queries one batch and joins the result. A lookup failure is
// logged and converted into rows (or none) according to the policy.
func (r *Resolver) resolveBatch(
	ctx context.Context,
	items []records.Record,
	rng batch.Range,
	summary *Summary,
) ([]output.Row, error) {
	query, err := sparql.BuildQuery(r.opts.Property, queryTokens(items))
	if err != nil {
		return nil, err
	}

	resolved, err := r.lookup.Resolve(ctx, query)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		summary.FailedBatches++
		summary.FailedRecords += len(items)

		log := logging.FromContext(ctx)
		log.Error().Ctx(ctx).
			Str("component", "engine").
			Err(err).
			Int("batch", rng.Index).
			Str("range", rng.String()).
			Str("policy", string(r.opts.OnBatchError)).
			Msg("batch lookup failed")

		if r.opts.OnBatchError == PolicySkip {
			return nil, nil
		}
		return failedRows(items), nil
	}

	rows := r.join(items, resolved)
	for _, row := range rows {
		if row.Status == output.StatusFound {
			summary.Matched++
		} else {
			summary.Unmatched++
		}
	}
	return rows, nil
}

// join produces one row per record in batch order.
func (r *Resolver) join(items []records.Record, resolved sparql.ResolutionMap) []output.Row {
	rows := make([]output.Row, len(items))
	for i, rec := range items {
		row := output.Row{RecordID: rec.RecordID, ExternalURI: rec.ExternalURI, Status: output.StatusNotFound}
		if code, ok := resolved[records.CanonicalToken(rec.ExternalURI)]; ok {
			row.QCode = code
			row.Link = EntityLink(r.opts.EntityBase, code)
			row.Status = output.StatusFound
		}
		rows[i] = row
	}
	return rows
}

func failedRows(items []records.Record) []output.Row {
	rows := make([]output.Row, len(items))
	for i, rec := range items {
		rows[i] = output.Row{RecordID: rec.RecordID, ExternalURI: rec.ExternalURI, Status: output.StatusFailed}
	}
	return rows
}

// queryTokens returns the distinct canonical tokens of items in first-seen order.
func queryTokens(items []records.Record) []string {
	seen := make(map[string]struct{}, len(items))
	tokens := make([]string, 0, len(items))
	for _, rec := range items {
		tok := records.CanonicalToken(rec.ExternalURI)
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}

// EntityLink returns the canonical entity URI for code under base.
func EntityLink(base, code string) string {
	if base == "" {
		base = DefaultEntityBase
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + code
}
