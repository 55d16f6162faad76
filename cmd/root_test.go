package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapsize/internal/errors"
)

const firmwareMap = `Memory Configuration

Name             Origin             Length             Attributes
FLASH            0x0000000008000000 0x0000000000100000 xr

Linker script and memory map

.text           0x0000000000001000      0x170
 *(.text)
 .text          0x0000000000001000     0x100 build/main.o
                0x0000000000001000                main
 .text          0x0000000000001100     0x050 build/main.o
 .data          0x0000000000002000     0x020 build/lib/util.o
 .comment       0x0000000000000000      0x12 build/main.o
 .debug_info    0x0000000000003000       0x0 build/util.o
/DISCARD/
 .bss           0x0000000000003000     0x999 ignored.o
`

func writeMap(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCommand(args ...string) (string, string, error) {
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRunDecimal(t *testing.T) {
	path := writeMap(t, t.TempDir(), "app.map", firmwareMap)

	out, errOut, err := runCommand(path)
	require.NoError(t, err)
	assert.Equal(t, "  336 main.o\n   32 util.o\nTotal = 368\n", out)
	assert.Empty(t, errOut)
}

func TestRunHex(t *testing.T) {
	path := writeMap(t, t.TempDir(), "app.map", firmwareMap)

	for _, flag := range []string{"-x", "--hex"} {
		out, _, err := runCommand(flag, path)
		require.NoError(t, err)
		assert.Equal(t, "  150 main.o\n   20 util.o\nTotal = 170\n", out)
	}
}

func TestRunDefaultMapFile(t *testing.T) {
	dir := t.TempDir()
	writeMap(t, dir, "firmware.map", firmwareMap)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	out, _, err := runCommand()
	require.NoError(t, err)
	assert.Equal(t, "  336 main.o\n   32 util.o\nTotal = 368\n", out)
}

func TestRunFilters(t *testing.T) {
	path := writeMap(t, t.TempDir(), "app.map", firmwareMap)

	out, _, err := runCommand("--exclude", "util.o", path)
	require.NoError(t, err)
	assert.Equal(t, "  336 main.o\nTotal = 336\n", out)

	out, _, err = runCommand("--include", "u*", path)
	require.NoError(t, err)
	assert.Equal(t, "   32 util.o\nTotal = 32\n", out)
}

func TestRunFormats(t *testing.T) {
	path := writeMap(t, t.TempDir(), "app.map", firmwareMap)

	out, _, err := runCommand("--format", "csv", path)
	require.NoError(t, err)
	assert.Equal(t, "key,size\nmain.o,336\nutil.o,32\nTotal,368\n", out)

	out, _, err = runCommand("-f", "JSON", "-x", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"total": "170"`)

	_, _, err = runCommand("--format", "xml", path)
	assert.Error(t, err)
}

func TestRunConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeMap(t, dir, "app.map", firmwareMap)
	cfgPath := writeMap(t, dir, "mapsize.yaml", "map_file: "+path+"\nhex: true\nexclude:\n  - util.o\n")

	out, _, err := runCommand("--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "  150 main.o\nTotal = 150\n", out)

	out, _, err = runCommand("-c", cfgPath, "--exclude", "main.o")
	require.NoError(t, err)
	assert.Equal(t, "   20 util.o\nTotal = 20\n", out)

	_, _, err = runCommand("-c", filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, &errors.MapsizeError{Type: errors.ErrTypeFile})
}

func TestRunVerbose(t *testing.T) {
	path := writeMap(t, t.TempDir(), "app.map", firmwareMap)

	out, errOut, err := runCommand("-v", path)
	require.NoError(t, err)
	assert.Equal(t, "  336 main.o\n   32 util.o\nTotal = 368\n", out)
	assert.Contains(t, errOut, "map file analysed")
	assert.Contains(t, errOut, "discarded=true")
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := runCommand(filepath.Join(dir, "missing.map"))
	var notFound *errors.FileNotFoundError
	assert.ErrorAs(t, err, &notFound)

	_, _, err = runCommand("a.map", "b.map")
	assert.Error(t, err)

	_, _, err = runCommand("--unknown", "a.map")
	assert.Error(t, err)

	_, _, err = runCommand("-q", "-v", "a.map")
	assert.Error(t, err)

	_, _, err = runCommand("--include", "[a-", "a.map")
	assert.ErrorIs(t, err, &errors.MapsizeError{Type: errors.ErrTypeConfig})
}

func TestRunEmptyMapWarns(t *testing.T) {
	path := writeMap(t, t.TempDir(), "empty.map", "nothing to see here\n")

	out, errOut, err := runCommand(path)
	require.NoError(t, err)
	assert.Equal(t, "Total = 0\n", out)
	assert.Contains(t, errOut, "no section records found")

	_, errOut, err = runCommand("-q", path)
	require.NoError(t, err)
	assert.Empty(t, errOut)
}
