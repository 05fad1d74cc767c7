package compare

import (
	"context"
	"errors"
	"fmt"
	"time"

	"procdiff/core/reconcile"
	"procdiff/core/report"
	"procdiff/core/scrub"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidRequest indicates a request without both snapshot locations.
var ErrInvalidRequest = errors.New("invalid compare request")

// Opener reads snapshot and rule sources. *source.Opener satisfies it.
type Opener interface {
	scrub.Source
}

// Publisher stores an encoded report. *report.Publisher satisfies it.
type Publisher interface {
	Publish(ctx context.Context, dest, name string, format report.Format, data []byte) (string, error)
}

// Request names the sources of one comparison.
type Request struct {
	// Previous is the earlier snapshot location.
	Previous string `json:"previous"`
	// Current is the later snapshot location.
	Current string `json:"current"`
	// Rules is the scrub rules location; empty uses the service default.
	Rules string `json:"rules,omitempty"`
}

// Options configures a Service.
type Options struct {
	Schema reconcile.Schema
	Layout scrub.Layout
	// Rules is the default rules location used when a request names none.
	Rules string
	// Output is the default report destination: a directory or s3://bucket/prefix.
	Output string
	Format report.Format
	Prefix string
}

// Result is a published report.
type Result struct {
	RunID    string          `json:"run_id"`
	Name     string          `json:"name"`
	Location string          `json:"location"`
	Format   report.Format   `json:"format"`
	Plan     *reconcile.Plan `json:"plan"`
}

// Service runs comparisons.
type Service struct {
	opener    Opener
	publisher Publisher
	opts      Options
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a new compare service.
func NewService(opener Opener, publisher Publisher, opts Options, logger *zap.Logger) *Service {
	if opts.Format == "" {
		opts.Format = report.FormatXLSX
	}
	if opts.Prefix == "" {
		opts.Prefix = report.DefaultPrefix
	}
	if opts.Layout == (scrub.Layout{}) {
		opts.Layout = scrub.DefaultLayout()
	}
	return &Service{
		opener:    opener,
		publisher: publisher,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// Schema returns the column layout comparisons run with.
func (s *Service) Schema() reconcile.Schema {
	return s.opts.Schema
}

// Compare loads both snapshots and the rules concurrently, reconciles them and
// annotates every classified record with its first matching scrub rule.
func (s *Service) Compare(ctx context.Context, req Request) (*reconcile.Plan, error) {
	if req.Previous == "" || req.Current == "" {
		return nil, fmt.Errorf("%w: previous and current are required", ErrInvalidRequest)
	}
	rulesURI := req.Rules
	if rulesURI == "" {
		rulesURI = s.opts.Rules
	}

	var (
		previous *reconcile.Snapshot
		current  *reconcile.Snapshot
		rules    *scrub.RuleSet
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap, err := s.loadSnapshot(gctx, "previous", req.Previous)
		previous = snap
		return err
	})
	g.Go(func() error {
		snap, err := s.loadSnapshot(gctx, "current", req.Current)
		current = snap
		return err
	})
	if rulesURI != "" {
		g.Go(func() error {
			rs, err := scrub.Load(gctx, s.opener, rulesURI, s.opts.Layout)
			rules = rs
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if rules.Dropped() > 0 {
		s.logger.Debug("Dropped scrub rules without conditions", zap.Int("dropped", rules.Dropped()))
	}

	plan, err := reconcile.Reconcile(s.opts.Schema, previous, current)
	if err != nil {
		return nil, err
	}
	reconcile.Annotate(plan, rules)

	s.logger.Info("Comparison finished",
		zap.Int("previous", plan.Summary.Previous),
		zap.Int("current", plan.Summary.Current),
		zap.Int("new", plan.Summary.New),
		zap.Int("modified", plan.Summary.Modified),
		zap.Int("termed", plan.Summary.Termed),
		zap.Int("unchanged", plan.Summary.Unchanged),
		zap.Int("scrubbed", plan.Summary.Scrubbed),
		zap.Int("rules", rules.Len()),
	)
	return plan, nil
}

func (s *Service) loadSnapshot(ctx context.Context, name, uri string) (*reconcile.Snapshot, error) {
	table, err := s.opener.Open(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s snapshot: %w", name, err)
	}
	return reconcile.NewSnapshot(name, s.opts.Schema, table.Header, table.Rows)
}

// Render assembles the plan and encodes it.
func (s *Service) Render(plan *reconcile.Plan, format report.Format) ([]byte, error) {
	return report.Encode(format, report.Assemble(plan, s.opts.Schema))
}

// FileName returns the report file name for the current time.
func (s *Service) FileName(format report.Format) string {
	return report.FileName(s.opts.Prefix, s.now(), format)
}

// Report runs a comparison and publishes its report. Empty dest and format use the
// service defaults. Nothing is published if any step fails.
func (s *Service) Report(ctx context.Context, req Request, dest string, format report.Format) (*Result, error) {
	if dest == "" {
		dest = s.opts.Output
	}
	if format == "" {
		format = s.opts.Format
	}

	plan, err := s.Compare(ctx, req)
	if err != nil {
		return nil, err
	}

	data, err := s.Render(plan, format)
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	name := s.FileName(format)
	location, err := s.publisher.Publish(ctx, dest, name, format, data)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:    uuid.NewString(),
		Name:     name,
		Location: location,
		Format:   format,
		Plan:     plan,
	}
	s.logger.Info("Report published", zap.String("run_id", result.RunID), zap.String("location", location))
	return result, nil
}
