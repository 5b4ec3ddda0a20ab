// Package probe classifies alliance logos by probing the image server in
// paced, fixed-width batches and records first-seen logo transitions.
package probe

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/evelogos/alliancelogos/internal/database"
)

// Sizer reports the byte size of an alliance's served logo.
type Sizer interface {
	LogoSize(ctx context.Context, id int64) (int64, error)
	LogoURL(id int64) string
}

// Detected identifies an alliance whose logo was first seen this run.
type Detected struct {
	ID     int64
	Ticker string
}

// Result holds the results of a probe run.
type Result struct {
	Checked  int
	Detected int
	Failed   int
	New      []Detected
}

// Prober probes unclassified alliances for custom logos.
type Prober struct {
	db              *database.DB
	images          Sizer
	placeholderSize int64
	width           int
	pacing          time.Duration
}

// New creates a new prober. placeholderSize is the byte size of the default
// logo; any other size means a custom logo has been uploaded.
func New(db *database.DB, images Sizer, placeholderSize int64, width int, pacing time.Duration) *Prober {
	return &Prober{
		db:              db,
		images:          images,
		placeholderSize: placeholderSize,
		width:           width,
		pacing:          pacing,
	}
}

// Probe checks every not-yet-flagged alliance for a custom logo. Detections
// are persisted with today's UTC date as the first-seen transition; a probe
// that sees the placeholder writes nothing, so the alliance is re-checked on
// every run until it gets a logo. Per-alliance failures are logged and leave
// the record untouched.
func (p *Prober) Probe(ctx context.Context) (*Result, error) {
	pending, err := p.db.UnflaggedAlliances()
	if err != nil {
		return nil, err
	}

	log.Printf("checking %d alliances for custom logos...", len(pending))

	today := database.Today()
	result := &Result{Checked: len(pending)}
	var mu sync.Mutex

	RunBatches(ctx, pending, p.width, p.pacing, func(ctx context.Context, a database.Alliance) {
		size, err := p.images.LogoSize(ctx, a.ID)
		if err != nil {
			log.Printf("logo check error for %d: %v", a.ID, err)
			mu.Lock()
			result.Failed++
			mu.Unlock()
			return
		}

		if size == p.placeholderSize {
			// Placeholder logo: deliberately not persisted, see package doc.
			return
		}

		if err := p.db.MarkLogoDetected(a.ID, size, today); err != nil {
			log.Printf("logo update error for %d: %v", a.ID, err)
			mu.Lock()
			result.Failed++
			mu.Unlock()
			return
		}

		log.Printf("new logo %s", p.images.LogoURL(a.ID))

		var ticker string
		if a.Ticker != nil {
			ticker = *a.Ticker
		}
		mu.Lock()
		result.Detected++
		result.New = append(result.New, Detected{ID: a.ID, Ticker: ticker})
		mu.Unlock()
	})

	return result, nil
}
