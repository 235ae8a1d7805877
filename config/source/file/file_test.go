package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFromExtension(t *testing.T) {
	cases := map[string]string{
		"app.yml":     "yaml",
		"app.YAML":    "yaml",
		"app.toml":    "toml",
		"app.xml":     "xml",
		"app.msgpack": "msgpack",
		"app.conf":    "conf",
	}
	for path, want := range cases {
		assert.Equal(t, want, New(path).Format(), path)
	}
	assert.Equal(t, "xml", New("app.conf", Format("xml")).Format())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.xml")
	require.NoError(t, os.WriteFile(path, []byte("<properties/>"), 0o600))

	f := New(path)
	assert.True(t, filepath.IsAbs(f.Path()))
	b, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, "<properties/>", string(b))

	_, err = New(filepath.Join(t.TempDir(), "missing.xml")).Load()
	assert.True(t, os.IsNotExist(err))
}

func TestWatchSignalsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.xml")
	require.NoError(t, os.WriteFile(path, []byte("<properties/>"), 0o600))

	f := New(path)
	ch := f.Watch()

	// other files in the directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.xml"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(path, []byte("<properties><x>1</x></properties>"), 0o600))

	select {
	case _, ok := <-ch:
		assert.True(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	require.NoError(t, f.Close())
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}

func TestCloseWithoutWatch(t *testing.T) {
	f := New("app.xml")
	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
	_, ok := <-f.Watch()
	assert.False(t, ok)
}
