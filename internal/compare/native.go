package compare

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/akedrou/textdiff"
	"github.com/ctessum/cdf"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats/scalar"

	"iat/internal/domain"
)

// maxDataDiffs caps the per-variable data mismatches reported.
const maxDataDiffs = 10

// Native compares netCDF classic files in-process: global attributes,
// variables, variable attributes, dimensions and data, with numeric values
// equal when within tolerance (absolute or relative).
type Native struct {
	log logrus.FieldLogger
}

// NewNative creates a new Native comparator
func NewNative(log logrus.FieldLogger) *Native {
	return &Native{log: log}
}

// Name returns the comparator name
func (n *Native) Name() string {
	return "native"
}

// Compare reads both files and reports every difference found.
func (n *Native) Compare(ctx context.Context, actual, expected string, tolerance float64) (Report, error) {
	af, closeA, err := openNetCDF(actual)
	if err != nil {
		return Report{}, err
	}
	defer closeA()
	ef, closeE, err := openNetCDF(expected)
	if err != nil {
		return Report{}, err
	}
	defer closeE()

	n.log.WithFields(logrus.Fields{"actual": actual, "expected": expected}).Debug("comparing netCDF files")

	var diffs []domain.Difference
	diffs = append(diffs, compareAttributes("", af, ef, tolerance)...)

	actualVars := af.Header.Variables()
	expectedVars := ef.Header.Variables()
	for _, v := range missingFrom(actualVars, expectedVars) {
		diffs = append(diffs, domain.Difference{Kind: domain.DiffVariable, Variable: v, Detail: fmt.Sprintf("variable %q missing from actual output", v)})
	}
	for _, v := range missingFrom(expectedVars, actualVars) {
		diffs = append(diffs, domain.Difference{Kind: domain.DiffVariable, Variable: v, Detail: fmt.Sprintf("variable %q not in known-good output", v)})
	}

	for _, v := range intersect(actualVars, expectedVars) {
		if err := ctx.Err(); err != nil {
			return Report{}, err
		}
		diffs = append(diffs, compareAttributes(v, af, ef, tolerance)...)

		aDims, eDims := af.Header.Dimensions(v), ef.Header.Dimensions(v)
		aLens, eLens := af.Header.Lengths(v), ef.Header.Lengths(v)
		if !reflect.DeepEqual(aDims, eDims) || !reflect.DeepEqual(aLens, eLens) {
			diffs = append(diffs, domain.Difference{
				Kind:     domain.DiffDimension,
				Variable: v,
				Detail:   fmt.Sprintf("%s%v <> %s%v", strings.Join(aDims, ","), aLens, strings.Join(eDims, ","), eLens),
			})
			continue
		}

		dataDiffs, err := compareData(v, af, ef, arrayLen(aLens), tolerance)
		if err != nil {
			return Report{}, err
		}
		diffs = append(diffs, dataDiffs...)
	}

	report := Report{Equal: len(diffs) == 0, Differences: diffs}
	if !report.Equal {
		var b strings.Builder
		b.WriteString(textdiff.Unified(expected, actual, dumpHeader(ef), dumpHeader(af)))
		for _, d := range diffs {
			fmt.Fprintf(&b, "DIFFER : %s : %s\n", d.Kind, d.Detail)
		}
		report.Output = b.String()
	}
	return report, nil
}

func openNetCDF(path string) (*cdf.File, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	nc, err := cdf.Open(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("read netCDF header %s: %w", path, err)
	}
	return nc, func() { f.Close() }, nil
}

func compareAttributes(v string, af, ef *cdf.File, tol float64) []domain.Difference {
	kind := domain.DiffAttribute
	if v == "" {
		kind = domain.DiffGlobalAttribute
	}
	var diffs []domain.Difference

	aAttrs, eAttrs := af.Header.Attributes(v), ef.Header.Attributes(v)
	for _, a := range missingFrom(aAttrs, eAttrs) {
		diffs = append(diffs, domain.Difference{Kind: kind, Variable: v, Attribute: a, Detail: fmt.Sprintf("attribute %q missing from actual output", a)})
	}
	for _, a := range missingFrom(eAttrs, aAttrs) {
		diffs = append(diffs, domain.Difference{Kind: kind, Variable: v, Attribute: a, Detail: fmt.Sprintf("attribute %q not in known-good output", a)})
	}
	for _, a := range intersect(aAttrs, eAttrs) {
		av, ev := af.Header.GetAttribute(v, a), ef.Header.GetAttribute(v, a)
		if !valuesEqual(av, ev, tol) {
			diffs = append(diffs, domain.Difference{Kind: kind, Variable: v, Attribute: a, Detail: fmt.Sprintf("%v <> %v", av, ev)})
		}
	}
	return diffs
}

func compareData(v string, af, ef *cdf.File, n int, tol float64) ([]domain.Difference, error) {
	if n == 0 {
		return nil, nil
	}
	aData, err := readVariable(af, v, n)
	if err != nil {
		return nil, err
	}
	eData, err := readVariable(ef, v, n)
	if err != nil {
		return nil, err
	}

	av, aok := toFloats(aData)
	ev, eok := toFloats(eData)
	if !aok || !eok {
		if !reflect.DeepEqual(aData, eData) {
			return []domain.Difference{{Kind: domain.DiffData, Variable: v, Detail: "values differ"}}, nil
		}
		return nil, nil
	}
	if len(av) != len(ev) {
		return []domain.Difference{{Kind: domain.DiffData, Variable: v, Detail: fmt.Sprintf("length %d <> %d", len(av), len(ev))}}, nil
	}

	var diffs []domain.Difference
	mismatches := 0
	for i := range av {
		if floatEqual(av[i], ev[i], tol) {
			continue
		}
		mismatches++
		if len(diffs) < maxDataDiffs {
			diffs = append(diffs, domain.Difference{
				Kind:     domain.DiffData,
				Variable: v,
				Detail:   fmt.Sprintf("POSITION [%d] : VALUES : %g <> %g", i, av[i], ev[i]),
			})
		}
	}
	if mismatches > maxDataDiffs {
		diffs = append(diffs, domain.Difference{
			Kind:     domain.DiffData,
			Variable: v,
			Detail:   fmt.Sprintf("%d more differing values", mismatches-maxDataDiffs),
		})
	}
	return diffs, nil
}

func readVariable(f *cdf.File, v string, n int) (interface{}, error) {
	data := f.Header.ZeroValue(v, n)
	if _, err := f.Reader(v, nil, nil).Read(data); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read variable %s: %w", v, err)
	}
	return data, nil
}

// valuesEqual compares two attribute values, numerically within tol when
// both are numeric slices.
func valuesEqual(a, b interface{}, tol float64) bool {
	af, aok := toFloats(a)
	bf, bok := toFloats(b)
	if !aok || !bok {
		return reflect.DeepEqual(a, b)
	}
	if len(af) != len(bf) {
		return false
	}
	for i := range af {
		if !floatEqual(af[i], bf[i], tol) {
			return false
		}
	}
	return true
}

func floatEqual(a, b, tol float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return scalar.EqualWithinAbsOrRel(a, b, tol, tol)
}

// toFloats converts a numeric slice of any netCDF classic type to float64.
func toFloats(v interface{}) ([]float64, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]float64, rv.Len())
	for i := range out {
		e := rv.Index(i)
		switch e.Kind() {
		case reflect.Float32, reflect.Float64:
			out[i] = e.Float()
		case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
			out[i] = float64(e.Int())
		case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			out[i] = float64(e.Uint())
		default:
			return nil, false
		}
	}
	return out, true
}

// dumpHeader renders a CDL-like view of the header for diffing.
func dumpHeader(f *cdf.File) string {
	var b strings.Builder
	for _, a := range f.Header.Attributes("") {
		fmt.Fprintf(&b, ":%s = %v\n", a, f.Header.GetAttribute("", a))
	}
	vars := f.Header.Variables()
	sort.Strings(vars)
	for _, v := range vars {
		fmt.Fprintf(&b, "%s(%s) %v\n", v, strings.Join(f.Header.Dimensions(v), ", "), f.Header.Lengths(v))
		for _, a := range f.Header.Attributes(v) {
			fmt.Fprintf(&b, "\t%s:%s = %v\n", v, a, f.Header.GetAttribute(v, a))
		}
	}
	return b.String()
}

func arrayLen(dims []int) int {
	n := 1
	for _, d := range dims {
		n *= d
	}
	return n
}

// missingFrom returns the names in want that are not in have.
func missingFrom(have, want []string) []string {
	set := make(map[string]bool, len(have))
	for _, h := range have {
		set[h] = true
	}
	var out []string
	for _, w := range want {
		if !set[w] {
			out = append(out, w)
		}
	}
	return out
}

func intersect(a, b []string) []string {
	set := make(map[string]bool, len(b))
	for _, s := range b {
		set[s] = true
	}
	var out []string
	for _, s := range a {
		if set[s] {
			out = append(out, s)
		}
	}
	return out
}
