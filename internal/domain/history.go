package domain

import "time"

// RunEntry is one recorded validation run.
type RunEntry struct {
	Timestamp    string `json:"timestamp"`
	Commit       string `json:"commit,omitempty"`
	TotalFiles   int    `json:"total_files"`
	InvalidFiles int    `json:"invalid_files"`
	Errors       int    `json:"errors"`
	Warnings     int    `json:"warnings"`
	Passed       bool   `json:"passed"`
}

// EntryFor summarizes a finalized report for the run history.
func EntryFor(r *Report, at time.Time) RunEntry {
	return RunEntry{
		Timestamp:    at.UTC().Format(time.RFC3339),
		Commit:       r.Commit,
		TotalFiles:   r.TotalFiles,
		InvalidFiles: r.InvalidFiles,
		Errors:       r.ErrorCount,
		Warnings:     r.WarningCount,
		Passed:       r.Passed(),
	}
}
