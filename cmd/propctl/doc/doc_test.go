package doc

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-slark/proptree/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const xmlDoc = `<properties>
<y>37</y>
<fg_color><red>161</red><blue>195</blue></fg_color>
<x>13</x>
</properties>`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	convertFrom, convertTo, convertOut = "", "", stdio
	fmtFrom, fmtWrite = "", false
	listFrom, listColor = "", false

	root := &cobra.Command{Use: "propctl", SilenceUsage: true, SilenceErrors: true}
	root.AddCommand(ConvertCmd, FmtCmd, ListCmd, ArchiversCmd)
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestList(t *testing.T) {
	out, err := run(t, "", "list", writeFile(t, "shape.xml", xmlDoc))
	require.NoError(t, err)
	assert.Equal(t, "fg_color.blue = \"195\"\nfg_color.red = \"161\"\nx = \"13\"\ny = \"37\"\n", out)
}

func TestListColor(t *testing.T) {
	out, err := run(t, "", "list", "--color", writeFile(t, "one.xml", "<properties><x>1</x></properties>"))
	require.NoError(t, err)
	assert.Equal(t, "\x1b[34mx\x1b[0m = \x1b[32m\"1\"\x1b[0m\n", out)
}

func TestFmt(t *testing.T) {
	path := writeFile(t, "shape.xml", xmlDoc)
	want := "<properties>\n" +
		"    <fg_color>\n" +
		"        <blue>195</blue>\n" +
		"        <red>161</red>\n" +
		"    </fg_color>\n" +
		"    <x>13</x>\n" +
		"    <y>37</y>\n" +
		"</properties>\n"

	out, err := run(t, "", "fmt", path)
	require.NoError(t, err)
	assert.Equal(t, want, out)

	_, err = run(t, "", "fmt", "-w", path)
	require.NoError(t, err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, string(b))
}

func TestConvert(t *testing.T) {
	out, err := run(t, "", "convert", "--to", "yaml", writeFile(t, "shape.xml", xmlDoc))
	require.NoError(t, err)
	assert.Equal(t, "properties:\n  fg_color:\n    blue: 195\n    red: 161\n  x: 13\n  y: 37\n", out)

	dir := t.TempDir()
	target := filepath.Join(dir, "shape.toml")
	_, err = run(t, xmlDoc, "convert", "--from", "xml", "-o", target, "-")
	require.NoError(t, err)

	out, err = run(t, "", "list", target)
	require.NoError(t, err)
	assert.Equal(t, "fg_color.blue = \"195\"\nfg_color.red = \"161\"\nx = \"13\"\ny = \"37\"\n", out)
}

func TestConvertRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, "shape.xml", xmlDoc)
	mpk := filepath.Join(dir, "shape.msgpack")
	back := filepath.Join(dir, "back.xml")

	_, err := run(t, "", "convert", "-o", mpk, src)
	require.NoError(t, err)
	_, err = run(t, "", "convert", "-o", back, mpk)
	require.NoError(t, err)

	formatted, err := run(t, "", "fmt", src)
	require.NoError(t, err)
	b, err := os.ReadFile(back)
	require.NoError(t, err)
	assert.Equal(t, formatted, string(b))
}

func TestErrors(t *testing.T) {
	_, err := run(t, "", "list", writeFile(t, "shape.ini", "x=1"))
	assert.True(t, errors.IsConfiguration(err))

	_, err = run(t, "", "list", "--from", "nope", writeFile(t, "shape.xml", xmlDoc))
	assert.True(t, errors.IsConfiguration(err))

	_, err = run(t, xmlDoc, "convert", "--from", "xml", "-")
	assert.True(t, errors.IsConfiguration(err))

	_, err = run(t, "", "list", writeFile(t, "bad.xml", "<properties><x></properties>"))
	assert.True(t, errors.IsMalformed(err))
	assert.Equal(t, "xml", errors.Meta(err, errors.MetaArchiver))
}

func TestArchivers(t *testing.T) {
	out, err := run(t, "", "archivers")
	require.NoError(t, err)
	assert.Equal(t, "msgpack\ntoml\nxml\nyaml\n", out)
}
