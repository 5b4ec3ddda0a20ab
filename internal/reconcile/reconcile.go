// Package reconcile diffs the remote alliance catalog against the local
// store and inserts records for alliances we have not seen before.
package reconcile

import (
	"context"
	"log"

	"github.com/evelogos/alliancelogos/internal/database"
	"github.com/evelogos/alliancelogos/internal/esi"
)

// Catalog is the remote alliance catalog consumed by the reconciler.
type Catalog interface {
	AllianceIDs(ctx context.Context) ([]int64, error)
	Alliance(ctx context.Context, id int64) (*esi.AllianceDetail, error)
}

// Result holds the results of a reconciliation run.
type Result struct {
	Remote   int     // ids reported by the catalog
	Known    int     // ids already persisted
	Inserted int     // new records created this run
	Failed   int     // ids skipped due to fetch failures
	IDs      []int64 // the full remote id set, for downstream stages
}

// Reconciler inserts records for remote alliances missing from the store.
type Reconciler struct {
	db      *database.DB
	catalog Catalog
}

// New creates a new reconciler.
func New(db *database.DB, catalog Catalog) *Reconciler {
	return &Reconciler{db: db, catalog: catalog}
}

// Reconcile fetches the remote id set, inserts records for unknown ids, and
// returns the working set for the prober. Metadata is fetched only for ids we
// have never stored: a second run against an unchanged catalog inserts nothing.
// Per-id fetch failures are logged and skipped; the id stays missing and is
// retried on the next run with no partial record left behind.
func (r *Reconciler) Reconcile(ctx context.Context) (*Result, error) {
	ids, err := r.catalog.AllianceIDs(ctx)
	if err != nil {
		return nil, err
	}

	known, err := r.db.KnownIDs()
	if err != nil {
		return nil, err
	}

	result := &Result{Remote: len(ids), Known: len(known), IDs: ids}

	for _, id := range ids {
		if _, ok := known[id]; ok {
			continue
		}

		detail, err := r.catalog.Alliance(ctx, id)
		if err != nil {
			log.Printf("metadata error for %d: %v", id, err)
			result.Failed++
			continue
		}

		var ticker, startDate *string
		if detail.Ticker != "" {
			ticker = &detail.Ticker
		}
		if detail.DateFounded != "" {
			startDate = &detail.DateFounded
		}

		inserted, err := r.db.InsertAlliance(id, ticker, startDate)
		if err != nil {
			log.Printf("insert error for %d: %v", id, err)
			result.Failed++
			continue
		}
		if inserted {
			result.Inserted++
			log.Printf("fetched data for %s", detail.Name)
		}
	}

	return result, nil
}
