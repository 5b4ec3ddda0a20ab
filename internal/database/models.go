package database

// Alliance represents one tracked alliance.
//
// HasCustomLogo is deliberately tri-state: nil means "never classified", true
// means a custom logo was confirmed. False is never persisted, so an alliance
// without a logo stays eligible for probing on every run until it gets one.
type Alliance struct {
	ID            int64
	Ticker        *string
	StartDate     *string // ISO date the alliance was founded
	Size          *int64  // last observed logo byte size
	HasCustomLogo *bool
	LogoSince     *string // ISO date the logo was first seen; set exactly once
	LastChecked   *string // reserved, not populated by current logic
}

// HasLogo reports whether the alliance has been confirmed to have a custom logo.
func (a *Alliance) HasLogo() bool {
	return a.HasCustomLogo != nil && *a.HasCustomLogo
}

// Eligible reports whether the alliance qualifies for report inclusion.
func (a *Alliance) Eligible() bool {
	return a.HasLogo() && a.LogoSince != nil && a.StartDate != nil
}

// Stats contains aggregate database statistics.
type Stats struct {
	TotalAlliances int
	WithLogo       int
	Unclassified   int
	NewestLogo     *string
}
