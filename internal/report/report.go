// Package report turns eligible alliance records into the two published
// artifacts: a JSON summary and a static HTML gallery.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/evelogos/alliancelogos/internal/database"
)

// Entry is one alliance in the report output.
type Entry struct {
	ID        int64  `json:"id"`
	Ticker    string `json:"ticker"`
	LogoSince string `json:"logoSince"`
	StartDate string `json:"startDate"`
}

// MonthGroup is the set of alliances founded in one calendar month.
type MonthGroup struct {
	Key     string // zero-padded YYYY-MM
	Entries []Entry
}

// Model is the assembled report, derived from the store on every run and
// never persisted.
type Model struct {
	MaxLogoSince string       // page subtitle; empty when no eligible records
	Newest       []Entry      // max logo_since cohort, oldest alliance first
	Months       []MonthGroup // groups in descending calendar order
}

// Build assembles the report model from eligible records. The empty input
// yields an empty model, not an error. Ordering is fully deterministic:
// the newest cohort ascends by founding date (stable on input order), month
// groups descend by calendar month, and entries within a group order by
// logo_since descending, founding date ascending, ticker ascending.
func Build(records []database.Alliance) *Model {
	m := &Model{Newest: []Entry{}, Months: []MonthGroup{}}
	if len(records) == 0 {
		return m
	}

	entries := make([]Entry, 0, len(records))
	for _, r := range records {
		e := Entry{ID: r.ID, LogoSince: *r.LogoSince, StartDate: *r.StartDate}
		if r.Ticker != nil {
			e.Ticker = *r.Ticker
		}
		entries = append(entries, e)
		// ISO dates compare lexicographically in chronological order.
		if e.LogoSince > m.MaxLogoSince {
			m.MaxLogoSince = e.LogoSince
		}
	}

	for _, e := range entries {
		if e.LogoSince == m.MaxLogoSince {
			m.Newest = append(m.Newest, e)
		}
	}
	sort.SliceStable(m.Newest, func(i, j int) bool {
		return m.Newest[i].StartDate < m.Newest[j].StartDate
	})

	// The newest cohort stays in its month group as well.
	byMonth := make(map[string][]Entry)
	for _, e := range entries {
		key := database.MonthKey(e.StartDate)
		byMonth[key] = append(byMonth[key], e)
	}

	for key, group := range byMonth {
		sort.SliceStable(group, func(i, j int) bool {
			a, b := group[i], group[j]
			if a.LogoSince != b.LogoSince {
				return a.LogoSince > b.LogoSince
			}
			if a.StartDate != b.StartDate {
				return a.StartDate < b.StartDate
			}
			return a.Ticker < b.Ticker
		})
		m.Months = append(m.Months, MonthGroup{Key: key, Entries: group})
	}
	sort.Slice(m.Months, func(i, j int) bool {
		return m.Months[i].Key > m.Months[j].Key
	})

	return m
}

// orderedGroups marshals month groups as a JSON object whose keys appear in
// slice order. encoding/json would sort map keys ascending; the published
// document lists the most recent month first.
type orderedGroups []MonthGroup

func (g orderedGroups) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, grp := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(grp.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		entries, err := json.Marshal(grp.Entries)
		if err != nil {
			return nil, err
		}
		buf.Write(entries)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type jsonDocument struct {
	Newest   []Entry       `json:"newest"`
	HasLogos orderedGroups `json:"hasLogos"`
}

// MarshalJSON renders the published summary document.
func (m *Model) MarshalJSON() ([]byte, error) {
	doc := jsonDocument{Newest: m.Newest, HasLogos: orderedGroups(m.Months)}
	if doc.Newest == nil {
		doc.Newest = []Entry{}
	}
	return json.Marshal(doc)
}

// WriteJSON writes the summary document to path.
func WriteJSON(path string, m *Model) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteSite writes both artifacts into dir, creating it if needed.
func WriteSite(dir string, m *Model, footerMarkdown string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating site directory: %w", err)
	}

	if err := WriteJSON(filepath.Join(dir, "alliances_with_logos.json"), m); err != nil {
		return err
	}

	page, err := Render(m, footerMarkdown)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "index.html"), page, 0o644); err != nil {
		return fmt.Errorf("writing page: %w", err)
	}
	return nil
}
