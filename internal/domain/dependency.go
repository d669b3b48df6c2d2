package domain

// DependencyRecord holds the extracted references of one file and a naive
// impact score. Dependents stays empty until a reverse cross-reference pass
// exists.
type DependencyRecord struct {
	Path         string   `json:"path"`
	Dependencies []string `json:"dependencies"`
	Dependents   []string `json:"dependents"`
	ImpactScore  float64  `json:"impactScore"`
}
