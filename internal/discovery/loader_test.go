package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"iat/internal/cases"
)

const speedDirectionCase = `command: nowcast-extrapolate
name: extrapolate with two orographic fields
inputs:
  - nowcast-optical-flow/basic/input.nc
options:
  - flag: max_lead_time
    values: ["30"]
  - flag: u_and_v_filepath
    paths: [nowcast-extrapolate/extrapolate/uv.nc]
  - flag: orographic_enhancement_filepaths
    paths:
      - nowcast-extrapolate/extrapolate/oe1.nc
      - nowcast-extrapolate/extrapolate/oe2.nc
kgo: nowcast-extrapolate/two_oe/kgo.nc
tolerance: 0.0001
`

func writeCase(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoader_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeCase(t, dir, "two_oe.case.yaml", speedDirectionCase)

	c, err := NewLoader(NewScanner(nil)).LoadFile(path)
	require.NoError(t, err)

	require.Equal(t, "nowcast-extrapolate/extrapolate with two orographic fields", c.ID())
	require.Equal(t, path, c.Source)
	require.Equal(t, 0.0001, c.Tolerance)
	oe, ok := c.Option(cases.FlagOrographicEnhancement)
	require.True(t, ok)
	require.Len(t, oe.Paths, 2)
}

func TestLoader_LoadFileRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(NewScanner(nil))

	t.Run("unknown field", func(t *testing.T) {
		path := writeCase(t, dir, "typo.case.yaml", "command: x\nname: y\nkgoo: z\n")
		_, err := loader.LoadFile(path)
		require.Error(t, err)
	})

	t.Run("validation failure", func(t *testing.T) {
		path := writeCase(t, dir, "invalid.case.yaml", "command: nowcast-extrapolate\nname: no inputs\nkgo: k.nc\n")
		_, err := loader.LoadFile(path)
		require.ErrorContains(t, err, "at least one input")
	})
}

func TestLoader_Discover(t *testing.T) {
	dir := t.TempDir()
	writeCase(t, dir, "nowcast/two_oe.case.yaml", speedDirectionCase)
	loader := NewLoader(NewScanner(nil))

	registry := cases.Builtin()
	before := registry.Len()
	require.NoError(t, loader.Discover(registry, dir))
	require.Equal(t, before+1, registry.Len())

	t.Run("duplicate id", func(t *testing.T) {
		require.Error(t, loader.Discover(registry, dir))
	})

	t.Run("missing dir is fine", func(t *testing.T) {
		require.NoError(t, loader.Discover(cases.NewRegistry(), filepath.Join(dir, "absent")))
	})
}
