// SPDX-License-Identifier: Apache-2.0

package pgdelta

import "github.com/pterm/pterm"

// Progress reports a spinner around a diff-planning run, the same
// pterm.DefaultSpinner pattern cmd/start.go and cmd/baseline.go use
// around long-running migration steps.
type Progress struct {
	spinner *pterm.SpinnerPrinter
}

// StartProgress starts a spinner with the given initial text. Callers on
// a non-interactive terminal (CI, piped output) get pterm's automatic
// fallback to plain log lines.
func StartProgress(text string) *Progress {
	sp, _ := pterm.DefaultSpinner.WithText(text).Start()
	return &Progress{spinner: sp}
}

// Update changes the spinner's text in place.
func (p *Progress) Update(text string) {
	if p.spinner != nil {
		p.spinner.UpdateText(text)
	}
}

// Success stops the spinner and marks it as succeeded.
func (p *Progress) Success(text string) {
	if p.spinner != nil {
		p.spinner.Success(text)
	}
}

// Fail stops the spinner and marks it as failed.
func (p *Progress) Fail(text string) {
	if p.spinner != nil {
		p.spinner.Fail(text)
	}
}
