package parser

import "iat/internal/domain"

// Parser turns comparator output into differences
type Parser interface {
	ParseDifferences(output string) []domain.Difference
}
