package catalog

import "path/filepath"

// Output artifact names within the pipeline's output directory.
const (
	CatalogFile = "catalog.json"
	SummaryFile = "summary.json"
	ReportFile  = "validation-results.json"
)

// CatalogPath returns the catalog location under an output directory.
func CatalogPath(outputDir string) string { return filepath.Join(outputDir, CatalogFile) }

// SummaryPath returns the summary location under an output directory.
func SummaryPath(outputDir string) string { return filepath.Join(outputDir, SummaryFile) }

// ReportPath returns the audit artifact location under an output directory.
func ReportPath(outputDir string) string { return filepath.Join(outputDir, ReportFile) }
