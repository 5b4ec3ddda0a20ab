// Package pipeline runs the full tracking pass: reconcile the catalog, probe
// for new logos, notify, and publish the report artifacts.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/evelogos/alliancelogos/internal/config"
	"github.com/evelogos/alliancelogos/internal/database"
	"github.com/evelogos/alliancelogos/internal/esi"
	"github.com/evelogos/alliancelogos/internal/notify"
	"github.com/evelogos/alliancelogos/internal/probe"
	"github.com/evelogos/alliancelogos/internal/reconcile"
	"github.com/evelogos/alliancelogos/internal/report"
)

// StepResult holds the result of a single pipeline step.
type StepResult struct {
	Name    string
	Summary string
	Err     error
}

// Result holds the results of a full pipeline run.
type Result struct {
	Steps []StepResult
}

// Pipeline orchestrates the 4-step tracking pipeline.
type Pipeline struct {
	cfg     *config.Config
	db      *database.DB
	catalog reconcile.Catalog
	images  probe.Sizer
}

// New creates a pipeline with real ESI clients built from config.
func New(cfg *config.Config, db *database.DB) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		db:      db,
		catalog: esi.NewClient(cfg.ESI.BaseURL, cfg.ESI.Datasource, 30*time.Second),
		images:  esi.NewImages(cfg.ESI.ImageBaseURL, 15*time.Second),
	}
}

// NewWithClients creates a pipeline with injected collaborators, for tests.
func NewWithClients(cfg *config.Config, db *database.DB, catalog reconcile.Catalog, images probe.Sizer) *Pipeline {
	return &Pipeline{cfg: cfg, db: db, catalog: catalog, images: images}
}

// Run executes the full pipeline. A reconcile failure (the catalog list is
// unreachable) skips probing and notification, but the report still rebuilds
// from whatever the store holds. Per-alliance failures inside the steps never
// surface here.
func (p *Pipeline) Run(ctx context.Context) *Result {
	r := &Result{}

	// Step 1: Reconcile
	step, ok := p.runReconcile(ctx)
	r.Steps = append(r.Steps, step)

	if ok {
		// Step 2: Probe
		step, detected := p.runProbe(ctx)
		r.Steps = append(r.Steps, step)

		// Step 3: Notify
		r.Steps = append(r.Steps, p.runNotify(detected))
	}

	// Step 4: Report
	r.Steps = append(r.Steps, p.runReport())

	return r
}

func (p *Pipeline) runReconcile(ctx context.Context) (StepResult, bool) {
	log.Println("Step 1/4: Reconciling alliance catalog...")
	result, err := reconcile.New(p.db, p.catalog).Reconcile(ctx)
	if err != nil {
		return StepResult{Name: "Reconcile", Err: err}, false
	}
	return StepResult{
		Name: "Reconcile",
		Summary: fmt.Sprintf("%d remote alliances, %d known, %d inserted, %d failed",
			result.Remote, result.Known, result.Inserted, result.Failed),
	}, true
}

func (p *Pipeline) runProbe(ctx context.Context) (StepResult, int) {
	log.Println("Step 2/4: Probing for custom logos...")
	prober := probe.New(p.db, p.images, p.cfg.Probe.PlaceholderSize,
		p.cfg.Probe.Concurrency, p.cfg.Pacing())
	result, err := prober.Probe(ctx)
	if err != nil {
		return StepResult{Name: "Probe", Err: err}, 0
	}
	return StepResult{
		Name: "Probe",
		Summary: fmt.Sprintf("%d checked, %d new logos, %d failed",
			result.Checked, result.Detected, result.Failed),
	}, result.Detected
}

func (p *Pipeline) runNotify(detected int) StepResult {
	log.Println("Step 3/4: Notifying...")
	notifier := notify.New(p.cfg.Notify.WebhookURL, 0)
	if err := notifier.Notify(detected, time.Now()); err != nil {
		// Delivery failures never block report generation.
		log.Printf("notification error: %v", err)
		return StepResult{Name: "Notify", Summary: fmt.Sprintf("delivery failed: %v", err)}
	}
	return StepResult{
		Name:    "Notify",
		Summary: fmt.Sprintf("%d new logos to announce", detected),
	}
}

func (p *Pipeline) runReport() StepResult {
	log.Println("Step 4/4: Building report...")
	eligible, err := p.db.EligibleAlliances()
	if err != nil {
		return StepResult{Name: "Report", Err: err}
	}

	model := report.Build(eligible)
	if err := report.WriteSite(p.cfg.Output.SiteDir, model, p.cfg.Output.FooterMarkdown); err != nil {
		return StepResult{Name: "Report", Err: err}
	}
	return StepResult{
		Name: "Report",
		Summary: fmt.Sprintf("%d eligible alliances, %d in newest, %d month groups",
			len(eligible), len(model.Newest), len(model.Months)),
	}
}
