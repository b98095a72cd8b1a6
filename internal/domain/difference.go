package domain

// DifferenceKind classifies a comparator finding
type DifferenceKind string

const (
	DiffGlobalAttribute DifferenceKind = "global-attribute"
	DiffVariable        DifferenceKind = "variable"
	DiffAttribute       DifferenceKind = "attribute"
	DiffDimension       DifferenceKind = "dimension"
	DiffData            DifferenceKind = "data"
	DiffOther           DifferenceKind = "other"
)

// Difference is one mismatch between produced output and the known-good output
type Difference struct {
	Kind      DifferenceKind `json:"kind"`
	Variable  string         `json:"variable,omitempty"`
	Attribute string         `json:"attribute,omitempty"`
	Detail    string         `json:"detail"`
}
