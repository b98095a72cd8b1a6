package parser

import (
	"regexp"
	"strings"

	"iat/internal/domain"
)

var (
	// DIFFER : VARIABLE "precip" IS MISSING ATTRIBUTE WITH NAME "units" IN FILE "b.nc"
	missingPattern = regexp.MustCompile(`VARIABLE "([^"]+)" IS MISSING(?: ATTRIBUTE WITH NAME "([^"]+)")?`)
	// Files "a.nc" and "b.nc" are identical.
	summaryPattern = regexp.MustCompile(`^Files ".*" and ".*" (are identical|differ)`)
)

// NCCmpParser parses nccmp output
type NCCmpParser struct{}

// NewNCCmpParser creates a new NCCmpParser
func NewNCCmpParser() *NCCmpParser {
	return &NCCmpParser{}
}

// ParseDifferences extracts one Difference per "DIFFER" line. Other
// non-empty lines, except the summary line, are kept as DiffOther so that
// nothing the comparator says is lost.
func (p *NCCmpParser) ParseDifferences(output string) []domain.Difference {
	var diffs []domain.Difference
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || summaryPattern.MatchString(line) {
			continue
		}
		if !strings.HasPrefix(line, "DIFFER") {
			diffs = append(diffs, domain.Difference{Kind: domain.DiffOther, Detail: line})
			continue
		}
		diffs = append(diffs, p.parseDifferLine(line))
	}
	return diffs
}

func (p *NCCmpParser) parseDifferLine(line string) domain.Difference {
	detail := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(line, "DIFFER"), " :"))
	diff := domain.Difference{Kind: domain.DiffOther, Detail: detail}

	if m := missingPattern.FindStringSubmatch(line); m != nil {
		diff.Variable = m[1]
		diff.Kind = domain.DiffVariable
		if m[2] != "" {
			diff.Kind = domain.DiffAttribute
			diff.Attribute = m[2]
		}
		return diff
	}

	fields := strings.Split(detail, " : ")
	for i, field := range fields {
		field = strings.TrimSpace(field)
		next := ""
		if i+1 < len(fields) {
			next = strings.TrimSpace(fields[i+1])
		}
		switch {
		case diff.Variable == "" && strings.Contains(field, "GLOBAL"):
			diff.Kind = domain.DiffGlobalAttribute
			if field == "GLOBAL ATTRIBUTE" {
				diff.Attribute = next
			}
			return diff
		case field == "DIMENSION":
			diff.Kind = domain.DiffDimension
			diff.Variable = next
			return diff
		case field == "VARIABLE" && diff.Variable == "":
			diff.Kind = domain.DiffVariable
			diff.Variable = next
		case field == "ATTRIBUTE" && diff.Variable != "":
			diff.Kind = domain.DiffAttribute
			diff.Attribute = next
			return diff
		case field == "POSITION" && diff.Variable != "":
			diff.Kind = domain.DiffData
			return diff
		}
	}
	return diff
}
