package prefabs

import (
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func useDir(t *testing.T, dir string) {
	t.Helper()
	prev := Dir
	Dir = dir
	t.Cleanup(func() { Dir = prev })
}

func TestCleanPrefabPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"knight.yaml", "knight.yaml"},
		{"prefabs/knight.yaml", "knight.yaml"},
		{"nested/golem.yaml", "nested/golem.yaml"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, cleanPrefabPath(tc.in), tc.want)
		})
	}
}

func TestCleanScriptPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"thorns.tengo", "scripts/thorns.tengo"},
		{"scripts/thorns.tengo", "scripts/thorns.tengo"},
		{"prefabs/scripts/thorns.tengo", "scripts/thorns.tengo"},
		{"prefabs/thorns.tengo", "scripts/thorns.tengo"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, cleanScriptPath(tc.in), tc.want)
		})
	}
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	useDir(t, t.TempDir())

	data, err := Load("knight.yaml")
	assert.NilError(t, err)
	assert.Assert(t, is.Contains(string(data), "name: knight"))

	src, err := LoadScript("thorns.tengo")
	assert.NilError(t, err)
	assert.Assert(t, is.Contains(string(src), "hooks"))

	_, ok := ModTime("knight.yaml")
	assert.Assert(t, !ok)
}

func TestLoadPrefersDisk(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)
	assert.NilError(t, os.MkdirAll(filepath.Join(dir, "scripts"), 0o755))
	assert.NilError(t, os.WriteFile(filepath.Join(dir, "knight.yaml"), []byte("name: disk_knight\n"), 0o644))
	assert.NilError(t, os.WriteFile(filepath.Join(dir, "scripts", "thorns.tengo"), []byte("hooks := {}\n"), 0o644))

	data, err := Load("prefabs/knight.yaml")
	assert.NilError(t, err)
	assert.Equal(t, string(data), "name: disk_knight\n")

	src, err := LoadScript("scripts/thorns.tengo")
	assert.NilError(t, err)
	assert.Equal(t, string(src), "hooks := {}\n")

	_, ok := ModTime("knight.yaml")
	assert.Assert(t, ok)
}

func TestLoadMissing(t *testing.T) {
	useDir(t, t.TempDir())

	_, err := Load("")
	assert.ErrorContains(t, err, "empty prefab name")

	_, err = Load("dragon.yaml")
	assert.ErrorContains(t, err, "dragon.yaml not found")

	_, err = LoadScript("missing.tengo")
	assert.ErrorContains(t, err, "scripts/missing.tengo not found")
}
