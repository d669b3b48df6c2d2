package usecase

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/flotilla-dev/flotilla/internal/domain"
	"github.com/flotilla-dev/flotilla/internal/usecase/shared"
)

// AnalyzeDependenciesInput contains the parameters for the dependency probe.
type AnalyzeDependenciesInput struct {
	Paths []string // File paths relative to the repository root
}

// AnalyzeDependenciesOutput contains one record per readable input file.
type AnalyzeDependenciesOutput struct {
	Records []domain.DependencyRecord
}

// AnalyzeDependencies is the use case for extracting declared imports
// from files and scoring their change impact.
type AnalyzeDependencies struct {
	repoRoot string
}

// NewAnalyzeDependencies creates a new AnalyzeDependencies use case.
func NewAnalyzeDependencies(repoRoot string) *AnalyzeDependencies {
	return &AnalyzeDependencies{repoRoot: repoRoot}
}

// Execute probes each input path. Paths that do not exist or cannot be
// read are skipped; input order is preserved for the rest.
func (uc *AnalyzeDependencies) Execute(_ context.Context, in AnalyzeDependenciesInput) (*AnalyzeDependenciesOutput, error) {
	records := make([]domain.DependencyRecord, 0, len(in.Paths))
	for _, path := range in.Paths {
		full := filepath.Join(uc.repoRoot, path)

		data, err := os.ReadFile(full) //nolint:gosec // Caller-supplied repo-relative paths
		if err != nil {
			continue
		}
		content := string(data)

		deps := shared.ExtractDependencies(content)
		lines := len(strings.Split(content, "\n"))
		if strings.HasSuffix(content, "\n") || content == "" {
			lines--
		}

		records = append(records, domain.DependencyRecord{
			Path:         path,
			Dependencies: deps,
			Dependents:   []string{},
			ImpactScore:  shared.ImpactScore(len(deps), lines),
		})
	}
	return &AnalyzeDependenciesOutput{Records: records}, nil
}
