package ui

import "iat/internal/domain"

// Viewer displays run results in an interactive TUI
type Viewer interface {
	View(results *domain.ResultsOutput) error
}
