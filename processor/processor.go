// Package processor wires the stages together: structural validation, then
// document building, then the domain constraint checks.
//
// A Processor is immutable after New and safe for concurrent use.
package processor

import (
	"context"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	bcoskema "github.com/biocompute-objects/bcoskema"
	"github.com/biocompute-objects/bcoskema/builder"
	"github.com/biocompute-objects/bcoskema/log"
	"github.com/biocompute-objects/bcoskema/model"
	"github.com/biocompute-objects/bcoskema/rules"
	"github.com/biocompute-objects/bcoskema/schema"
	"github.com/biocompute-objects/bcoskema/semantic"
)

// Processor validates, builds and checks BioCompute Objects.
type Processor struct {
	model    *rules.Model
	warnings []string
	logger   *zap.Logger
	policy   semantic.Policy
	formats  bcoskema.FormatChecker
	failFast bool
	decode   bcoskema.DecodeOpt
	workers  int
}

// Option configures a Processor.
type Option func(*Processor)

// WithModel replaces the embedded contract.
func WithModel(m *rules.Model) Option { return func(p *Processor) { p.model = m } }

// WithLogger sets the logger; stages log at debug level.
func WithLogger(l *zap.Logger) Option { return func(p *Processor) { p.logger = l } }

// WithPolicy selects the domain constraint checks.
func WithPolicy(pol semantic.Policy) Option { return func(p *Processor) { p.policy = pol } }

// WithFormatChecker makes format annotations binding.
func WithFormatChecker(fc bcoskema.FormatChecker) Option {
	return func(p *Processor) { p.formats = fc }
}

// WithFailFast stops structural validation at the first issue.
func WithFailFast(on bool) Option { return func(p *Processor) { p.failFast = on } }

// WithDecodeOptions sets the raw JSON decoding limits used by ProcessJSON.
func WithDecodeOptions(o bcoskema.DecodeOpt) Option { return func(p *Processor) { p.decode = o } }

// WithWorkers bounds the parallelism of ValidateAll. Zero or less means
// GOMAXPROCS.
func WithWorkers(n int) Option { return func(p *Processor) { p.workers = n } }

// New creates a Processor. Without WithModel the embedded contract is used.
func New(opts ...Option) *Processor {
	p := &Processor{policy: semantic.DefaultPolicy()}
	for _, o := range opts {
		o(p)
	}
	p.logger = log.OrNop(p.logger)
	if p.model == nil {
		c := schema.DefaultCompiled()
		p.model, p.warnings = c.Model, c.Warnings
		p.logger.Debug("contract compiled",
			zap.String("id", c.Model.ID()),
			zap.String("version", c.Model.Version()),
			zap.Int("nodes", c.Model.Len()),
			zap.Int("reused", c.Reused))
		for _, w := range c.Warnings {
			p.logger.Debug("contract warning", zap.String("warning", w))
		}
	}
	if p.workers <= 0 {
		p.workers = runtime.GOMAXPROCS(0)
	}
	return p
}

// Model returns the contract in use.
func (p *Processor) Model() *rules.Model { return p.model }

// Process runs the three stages on a generic tree. The domain checks only run
// on a document that validated and built. When only they fail, the built
// document is returned together with the issues.
func (p *Processor) Process(ctx context.Context, doc any) (*model.Document, error) {
	start := time.Now()
	err := bcoskema.Validate(ctx, doc, p.model, bcoskema.ValidateOpt{FailFast: p.failFast, Formats: p.formats})
	p.stage("validate", start, err)
	if err != nil {
		return nil, err
	}

	start = time.Now()
	out, err := builder.Build(ctx, doc)
	p.stage("build", start, err)
	if err != nil {
		return nil, err
	}

	start = time.Now()
	iss := semantic.Check(ctx, out, p.policy)
	p.stage("check", start, iss.ToError())
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(iss) > 0 {
		return out, iss
	}
	return out, nil
}

// ProcessJSON decodes raw JSON with the configured limits and processes it.
func (p *Processor) ProcessJSON(ctx context.Context, data []byte) (*model.Document, error) {
	start := time.Now()
	v, err := bcoskema.DecodeJSON(data, p.decode)
	p.stage("decode", start, err)
	if err != nil {
		return nil, err
	}
	return p.Process(ctx, v)
}

func (p *Processor) stage(name string, start time.Time, err error) {
	if ce := p.logger.Check(zap.DebugLevel, "stage"); ce != nil {
		iss, _ := bcoskema.AsIssues(err)
		fields := []zap.Field{
			zap.String("stage", name),
			zap.Int("issues", len(iss)),
			zap.Duration("duration", time.Since(start)),
		}
		if err != nil && iss == nil {
			fields = append(fields, zap.Error(err))
		}
		ce.Write(fields...)
	}
}

// Result is the outcome for one document of a batch.
type Result struct {
	Document *model.Document
	Issues   bcoskema.Issues
}

// Valid reports whether the document passed every stage.
func (r Result) Valid() bool { return len(r.Issues) == 0 && r.Document != nil }

// ValidateAll processes docs in parallel with at most the configured number
// of workers. Results keep input order. The returned error is non-nil only
// when processing was abandoned, for example by a cancelled context.
func (p *Processor) ValidateAll(ctx context.Context, docs []any) ([]Result, error) {
	results := make([]Result, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, d := range docs {
		i, d := i, d
		g.Go(func() error {
			doc, err := p.Process(gctx, d)
			if err == nil {
				results[i] = Result{Document: doc}
				return nil
			}
			iss, ok := bcoskema.AsIssues(err)
			if !ok {
				return err
			}
			results[i] = Result{Document: doc, Issues: iss}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	p.logger.Debug("batch processed", zap.Int("documents", len(docs)), zap.Int("workers", p.workers))
	return results, nil
}
