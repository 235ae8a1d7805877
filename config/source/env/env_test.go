package env

import (
	"testing"

	"github.com/go-slark/proptree/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(vars ...string) Option {
	return Environ(func() []string { return vars })
}

func TestLoadBuildsDocument(t *testing.T) {
	e := New(fixed(
		"PROPTREE_Y=37",
		"PROPTREE_FG_COLOR__RED=161",
		"HOME=/root",
		"PROPTREE_=ignored",
		"PROPTREE_X= 13 ",
		"PROPTREE_FG_COLOR__BLUE=a<b",
		"PROPTREE_BAD.NAME=1",
	))
	b, err := e.Load()
	require.NoError(t, err)
	assert.Equal(t, "<properties>\n"+
		"    <fg_color>\n"+
		"        <blue>a&lt;b</blue>\n"+
		"        <red>161</red>\n"+
		"    </fg_color>\n"+
		"    <x> 13 </x>\n"+
		"    <y>37</y>\n"+
		"</properties>\n", string(b))
	assert.Equal(t, "xml", e.Format())
}

func TestLoadEmpty(t *testing.T) {
	b, err := New(fixed("PATH=/bin")).Load()
	require.NoError(t, err)
	assert.Equal(t, "<properties>\n</properties>\n", string(b))
}

func TestLoadConflict(t *testing.T) {
	_, err := New(fixed("PROPTREE_A=1", "PROPTREE_A__B=2")).Load()
	require.Error(t, err)
	assert.True(t, errors.IsStructureMismatch(err))
	assert.Equal(t, "PROPTREE_A__B", errors.Meta(err, "variable"))
}

func TestPrefixOption(t *testing.T) {
	b, err := New(Prefix("APP_", "SVC_"), fixed("APP_A=1", "SVC_B=2", "PROPTREE_C=3")).Load()
	require.NoError(t, err)
	assert.Equal(t, "<properties>\n    <a>1</a>\n    <b>2</b>\n</properties>\n", string(b))
}

func TestOSEnviron(t *testing.T) {
	t.Setenv("PROPTREE_TEST_ONLY__NAME", "value")
	b, err := New().Load()
	require.NoError(t, err)
	assert.Contains(t, string(b), "<test_only>\n        <name>value</name>\n    </test_only>")
}

func TestWatchClosedByClose(t *testing.T) {
	e := New()
	ch := e.Watch()
	require.NoError(t, e.Close())
	_, ok := <-ch
	assert.False(t, ok)
}
