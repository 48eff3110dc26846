package dom_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/visitor-counter/internal/counter"
	"github.com/raysh454/visitor-counter/internal/dom"
)

const page = `<!DOCTYPE html>
<html><head><title>Resume</title></head>
<body>
<p>Visitors: <span id="visitor-count">loading…</span></p>
</body></html>`

func TestDocumentTarget_SetDisplayText(t *testing.T) {
	t.Parallel()
	target, err := dom.NewDocumentTarget(strings.NewReader(page), counter.DefaultElementID)
	require.NoError(t, err)

	require.NoError(t, target.SetDisplayText(context.Background(), "42"))

	text, ok := target.Text()
	require.True(t, ok)
	assert.Equal(t, "42", text)

	out, err := target.HTML()
	require.NoError(t, err)
	assert.Contains(t, out, `<span id="visitor-count">42</span>`)
	assert.Contains(t, out, "<title>Resume</title>")
}

func TestDocumentTarget_ReplacesChildrenWithoutAccumulating(t *testing.T) {
	t.Parallel()
	target, err := dom.NewDocumentTarget(strings.NewReader(
		`<div id="visitor-count"><b>old</b> value</div>`), "")
	require.NoError(t, err)

	require.NoError(t, target.SetDisplayText(context.Background(), "1,024"))
	require.NoError(t, target.SetDisplayText(context.Background(), "1,024"))

	out, err := target.HTML()
	require.NoError(t, err)
	assert.Contains(t, out, `<div id="visitor-count">1,024</div>`)
	assert.NotContains(t, out, "old")
}

func TestDocumentTarget_EscapesText(t *testing.T) {
	t.Parallel()
	target, err := dom.NewDocumentTarget(strings.NewReader(page), "")
	require.NoError(t, err)

	require.NoError(t, target.SetDisplayText(context.Background(), "<script>x</script>"))

	out, err := target.HTML()
	require.NoError(t, err)
	assert.Contains(t, out, "&lt;script&gt;x&lt;/script&gt;")
}

func TestDocumentTarget_MissingElement(t *testing.T) {
	t.Parallel()
	target, err := dom.NewDocumentTarget(strings.NewReader(`<html><body><p>no counter</p></body></html>`), "")
	require.NoError(t, err)
	before, err := target.HTML()
	require.NoError(t, err)

	err = target.SetDisplayText(context.Background(), "42")
	assert.ErrorIs(t, err, counter.ErrTargetNotFound)

	_, ok := target.Text()
	assert.False(t, ok)
	after, err := target.HTML()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDocumentTarget_IDMatchedExactly(t *testing.T) {
	t.Parallel()
	target, err := dom.NewDocumentTarget(strings.NewReader(
		`<span id="visitor-count-total">a</span><span id="hits.today">b</span>`), "hits.today")
	require.NoError(t, err)

	require.NoError(t, target.SetDisplayText(context.Background(), "9"))

	out, err := target.HTML()
	require.NoError(t, err)
	assert.Contains(t, out, `<span id="visitor-count-total">a</span>`)
	assert.Contains(t, out, `<span id="hits.today">9</span>`)
}

func TestDiff(t *testing.T) {
	t.Parallel()
	before := "<p>\n<span id=\"visitor-count\"></span>\n</p>\n"
	after := "<p>\n<span id=\"visitor-count\">42</span>\n</p>\n"

	d := dom.Diff(before, after)

	assert.Equal(t, "-<span id=\"visitor-count\"></span>\n+<span id=\"visitor-count\">42</span>\n", d)
	assert.Empty(t, dom.Diff(before, before))
}
