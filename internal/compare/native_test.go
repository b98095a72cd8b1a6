package compare

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/cdf"
	"github.com/stretchr/testify/require"

	"iat/internal/domain"
)

type ncFile struct {
	title  string
	units  string
	precip []float64
	extra  bool
}

func baseFile() ncFile {
	return ncFile{
		title:  "Nowcast extrapolation",
		units:  "m s-1",
		precip: []float64{0, 1e-7, 2e-7, 3e-7, 4e-7, 5e-7},
	}
}

func writeNetCDF(t *testing.T, nf ncFile) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "file.nc")

	h := cdf.NewHeader([]string{"y", "x"}, []int{2, 3})
	h.AddAttribute("", "title", nf.title)
	h.AddVariable("precip", []string{"y", "x"}, []float64{0})
	h.AddAttribute("precip", "units", nf.units)
	if nf.extra {
		h.AddVariable("mask", []string{"y", "x"}, []int32{0})
	}
	h.Define()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	nc, err := cdf.Create(f, h)
	require.NoError(t, err)
	_, err = nc.Writer("precip", nil, nil).Write(nf.precip)
	require.NoError(t, err)
	if nf.extra {
		_, err = nc.Writer("mask", nil, nil).Write([]int32{1, 1, 1, 0, 0, 0})
		require.NoError(t, err)
	}
	return path
}

func kinds(diffs []domain.Difference) []domain.DifferenceKind {
	out := make([]domain.DifferenceKind, len(diffs))
	for i, d := range diffs {
		out[i] = d.Kind
	}
	return out
}

func TestNative_Compare(t *testing.T) {
	ctx := context.Background()
	native := NewNative(quietLogger())
	expected := writeNetCDF(t, baseFile())

	t.Run("identical", func(t *testing.T) {
		report, err := native.Compare(ctx, writeNetCDF(t, baseFile()), expected, 0)
		require.NoError(t, err)
		require.True(t, report.Equal)
		require.Empty(t, report.Output)
	})

	t.Run("data difference", func(t *testing.T) {
		f := baseFile()
		f.precip = []float64{0, 1e-7, 2e-7, 3e-7, 4e-7, 9e-7}
		report, err := native.Compare(ctx, writeNetCDF(t, f), expected, 0)
		require.NoError(t, err)
		require.False(t, report.Equal)
		require.Equal(t, []domain.DifferenceKind{domain.DiffData}, kinds(report.Differences))
		require.Contains(t, report.Differences[0].Detail, "POSITION [5]")
	})

	t.Run("data within tolerance", func(t *testing.T) {
		f := baseFile()
		f.precip = []float64{0, 1.00001e-7, 2e-7, 3e-7, 4e-7, 5e-7}
		report, err := native.Compare(ctx, writeNetCDF(t, f), expected, 1e-3)
		require.NoError(t, err)
		require.True(t, report.Equal)
	})

	t.Run("attribute differences", func(t *testing.T) {
		f := baseFile()
		f.title = "Something else"
		f.units = "mm h-1"
		report, err := native.Compare(ctx, writeNetCDF(t, f), expected, 0)
		require.NoError(t, err)
		require.False(t, report.Equal)
		require.Equal(t, []domain.DifferenceKind{domain.DiffGlobalAttribute, domain.DiffAttribute}, kinds(report.Differences))
		require.Equal(t, "units", report.Differences[1].Attribute)
		require.Contains(t, report.Output, "Something else")
	})

	t.Run("extra variable", func(t *testing.T) {
		f := baseFile()
		f.extra = true
		report, err := native.Compare(ctx, writeNetCDF(t, f), expected, 0)
		require.NoError(t, err)
		require.False(t, report.Equal)
		require.Equal(t, []domain.DifferenceKind{domain.DiffVariable}, kinds(report.Differences))
		require.Equal(t, "mask", report.Differences[0].Variable)
		require.Contains(t, report.Differences[0].Detail, "not in known-good output")
	})

	t.Run("unreadable file", func(t *testing.T) {
		bogus := filepath.Join(t.TempDir(), "bogus.nc")
		require.NoError(t, os.WriteFile(bogus, []byte("not netcdf"), 0644))
		_, err := native.Compare(ctx, bogus, expected, 0)
		require.Error(t, err)
	})
}

func TestToFloats(t *testing.T) {
	got, ok := toFloats([]int16{1, -2})
	require.True(t, ok)
	require.Equal(t, []float64{1, -2}, got)

	_, ok = toFloats("units")
	require.False(t, ok)
}
