package host

import (
	"testing"

	"github.com/GriffinCanCode/domshim/internal/shim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const page = `<!DOCTYPE html>
<html><head><title>t</title></head>
<body>
  <ul id="list">
    <li class="item" data-n="1">one</li>
    <li class="item" data-n="2">two</li>
    <li class="item other">three</li>
  </ul>
  <a href="/next" title="Next">go</a>
  <div id="out"></div>
</body></html>`

func parse(t *testing.T, opts Options) *Document {
	t.Helper()
	doc, err := ParseString(page, opts)
	require.NoError(t, err)
	return doc
}

func TestQuerySelectorAllDocumentOrder(t *testing.T) {
	doc := parse(t, Options{})

	handles, err := doc.QuerySelectorAll("li.item")
	require.NoError(t, err)
	require.Len(t, handles, 3)

	var texts []string
	for _, h := range handles {
		text, err := doc.Text(h)
		require.NoError(t, err)
		texts = append(texts, text)
	}
	assert.Equal(t, []string{"one", "two", "three"}, texts)
}

func TestHandlesAreStable(t *testing.T) {
	doc := parse(t, Options{})

	first, err := doc.QuerySelectorAll("li")
	require.NoError(t, err)
	second, err := doc.QuerySelectorAll(".item")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := doc.QuerySelectorAll(".other")
	require.NoError(t, err)
	assert.Equal(t, []shim.Handle{first[2]}, other)
}

func TestQuerySelectorAllNoMatch(t *testing.T) {
	doc := parse(t, Options{})

	handles, err := doc.QuerySelectorAll("table")
	require.NoError(t, err)
	assert.Empty(t, handles)
}

func TestQuerySelectorAllInvalid(t *testing.T) {
	doc := parse(t, Options{})

	_, err := doc.QuerySelectorAll("li[")
	assert.ErrorIs(t, err, ErrInvalidSelector)

	_, err = doc.QuerySelectorAll("xpath://li[")
	assert.ErrorIs(t, err, ErrInvalidSelector)
}

func TestQuerySelectorAllXPath(t *testing.T) {
	doc := parse(t, Options{})

	css, err := doc.QuerySelectorAll("li[data-n]")
	require.NoError(t, err)
	xpath, err := doc.QuerySelectorAll("xpath://li[@data-n]")
	require.NoError(t, err)
	assert.Equal(t, css, xpath)

	texts, err := doc.QuerySelectorAll("xpath://li/text()")
	require.NoError(t, err)
	assert.Empty(t, texts, "non-element results are dropped")
}

func TestGetAttribute(t *testing.T) {
	doc := parse(t, Options{})
	handles, err := doc.QuerySelectorAll("a")
	require.NoError(t, err)
	require.Len(t, handles, 1)

	tests := []struct {
		name   string
		attr   string
		want   string
		wantOK bool
	}{
		{"present", "href", "/next", true},
		{"case insensitive", "TITLE", "Next", true},
		{"absent", "target", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, ok, err := doc.GetAttribute(handles[0], tt.attr)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, value)
		})
	}
}

func TestUnknownHandle(t *testing.T) {
	doc := parse(t, Options{})

	_, _, err := doc.GetAttribute("404", "href")
	assert.ErrorIs(t, err, ErrUnknownHandle)

	err = doc.SetInnerHTML("404", "<p>x</p>")
	assert.ErrorIs(t, err, ErrUnknownHandle)
}

func TestSetInnerHTML(t *testing.T) {
	doc := parse(t, Options{})
	handles, err := doc.QuerySelectorAll("#out")
	require.NoError(t, err)

	require.NoError(t, doc.SetInnerHTML(handles[0], `<p class="new">hello</p>`))

	out, err := doc.Render()
	require.NoError(t, err)
	assert.Contains(t, out, `<div id="out"><p class="new">hello</p></div>`)

	created, err := doc.QuerySelectorAll("p.new")
	require.NoError(t, err)
	assert.Len(t, created, 1)
}

func TestDetachedNodeKeepsHandle(t *testing.T) {
	doc := parse(t, Options{})
	items, err := doc.QuerySelectorAll("li")
	require.NoError(t, err)
	list, err := doc.QuerySelectorAll("#list")
	require.NoError(t, err)

	require.NoError(t, doc.SetInnerHTML(list[0], ""))

	value, ok, err := doc.GetAttribute(items[0], "data-n")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", value)

	remaining, err := doc.QuerySelectorAll("li")
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestSanitizePolicies(t *testing.T) {
	tests := []struct {
		policy  string
		input   string
		want    string
		missing string
	}{
		{"none", `<b onclick="x()">hi</b>`, `<b onclick="x()">hi</b>`, ""},
		{"ugc", `<b onclick="x()">hi</b><script>evil()</script>`, `<b>hi</b>`, "evil"},
		{"strict", `<b>hi</b>`, `hi`, "<b>"},
	}

	for _, tt := range tests {
		t.Run(tt.policy, func(t *testing.T) {
			doc := parse(t, Options{Sanitize: tt.policy})
			handles, err := doc.QuerySelectorAll("#out")
			require.NoError(t, err)

			require.NoError(t, doc.SetInnerHTML(handles[0], tt.input))

			out, err := doc.Render()
			require.NoError(t, err)
			assert.Contains(t, out, `<div id="out">`+tt.want+`</div>`)
			if tt.missing != "" {
				assert.NotContains(t, out, `<div id="out">`+tt.missing)
			}
		})
	}
}

func TestUnknownSanitizePolicy(t *testing.T) {
	_, err := ParseString(page, Options{Sanitize: "paranoid"})
	assert.Error(t, err)
}

func TestConsole(t *testing.T) {
	doc := parse(t, Options{})

	require.NoError(t, doc.Log("a"))
	require.NoError(t, doc.Log("b"))

	lines := doc.Console()
	assert.Equal(t, []string{"a", "b"}, lines)

	lines[0] = "changed"
	assert.Equal(t, "a", doc.Console()[0])
}

func TestConsoleIsLogged(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	doc := parse(t, Options{Logger: zap.New(core)})

	require.NoError(t, doc.Log("from script"))

	entries := logs.FilterMessage("console.log").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "from script", entries[0].ContextMap()["message"])
}
