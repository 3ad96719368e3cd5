package ports

// SampleSource provides read-only access to named numeric columns of a
// tabular data set, such as a CSV or XLSX file
type SampleSource interface {
	// Column returns the column's values in row order. Blank cells are skipped.
	Column(name string) ([]float64, error)
}
