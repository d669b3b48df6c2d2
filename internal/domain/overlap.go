package domain

import "time"

// RiskLevel classifies the conflict risk of a file overlap.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ChangeKind tags a changed line range.
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeRemoved  ChangeKind = "removed"
	ChangeModified ChangeKind = "modified"
)

// ChangeRegion is a contiguous range of changed lines.
type ChangeRegion struct {
	Kind      ChangeKind `json:"kind"`
	StartLine int        `json:"startLine"`
	EndLine   int        `json:"endLine"`
}

// LineChangeSummary summarizes line-level changes of a file in one worktree.
type LineChangeSummary struct {
	Regions       []ChangeRegion `json:"regions"`
	LinesAdded    int            `json:"linesAdded"`
	LinesRemoved  int            `json:"linesRemoved"`
	LinesModified int            `json:"linesModified"`
}

// Total returns the total number of changed lines.
func (s LineChangeSummary) Total() int {
	return s.LinesAdded + s.LinesRemoved + s.LinesModified
}

// FileOverlap describes a file modified by two or more worktrees.
// Computed fresh per analysis; never persisted.
type FileOverlap struct {
	LastModified map[string]time.Time         `json:"lastModified"` // worktree name → on-disk mtime
	LineChanges  map[string]LineChangeSummary `json:"lineChanges"`  // worktree name → change summary
	Path         string                       `json:"path"`         // relative to repository root
	Worktrees    []string                     `json:"worktrees"`    // names of worktrees touching the file
	Risk         RiskLevel                    `json:"risk"`
}

// RiskAssessment counts overlaps per risk tier.
type RiskAssessment struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// OverlapReport is the aggregate result of a cross-worktree analysis.
type OverlapReport struct {
	Overlaps        []FileOverlap  `json:"overlaps"`
	Recommendations []string       `json:"recommendations"`
	Risk            RiskAssessment `json:"risk"`
	TotalOverlaps   int            `json:"totalOverlaps"`
}
