package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GriffinCanCode/domshim/internal/config"
	"github.com/GriffinCanCode/domshim/internal/manifest"
	"github.com/GriffinCanCode/domshim/internal/shim"
	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testHTML = `<html><body>
<a href="/one" class="link">one</a>
<a href="/two" class="link">two</a>
<div id="status"></div>
</body></html>`

const testScript = `
var links = document.querySelectorAll("a.link");
console.log("links", links.length);
links[0].addEventListener("click", function(e) {
	document.querySelectorAll("#status")[0].innerHTML = "clicked " + this.getAttribute("href");
	e.preventDefault();
});
`

func TestRunScriptsAndEvents(t *testing.T) {
	p := &page{
		html:    testHTML,
		scripts: []script{{name: "main.js", source: testScript}},
		events:  []manifest.Event{{Selector: "a.link", Type: "click"}},
	}

	rep, err := run(context.Background(), config.Default(), p, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, rep.failed())
	assert.Equal(t, []string{"links 2"}, rep.Console)
	assert.Contains(t, rep.HTML, `<div id="status">clicked /one</div>`)

	require.Len(t, rep.Events, 2)
	assert.False(t, rep.Events[0].DoDefault)
	assert.True(t, rep.Events[1].DoDefault)

	assert.Equal(t, int64(2), rep.Metrics.Dispatches)
	assert.Equal(t, int64(1), rep.Metrics.Prevented)
	assert.Equal(t, int64(1), rep.Metrics.Calls[shim.OpInnerHTMLSet])
	assert.Equal(t, int64(1), rep.Metrics.Calls[shim.OpGetAttribute])
}

func TestRunReportsScriptFailure(t *testing.T) {
	p := &page{
		html: testHTML,
		scripts: []script{
			{name: "bad.js", source: `document.querySelectorAll("a[")`},
			{name: "good.js", source: `document.querySelectorAll("#status")[0].innerHTML = "ok"`},
		},
	}

	rep, err := run(context.Background(), config.Default(), p, zap.NewNop())
	require.NoError(t, err)

	assert.True(t, rep.failed())
	require.Len(t, rep.Scripts, 2)
	assert.Contains(t, rep.Scripts[0].Error, "invalid selector")
	assert.Empty(t, rep.Scripts[1].Error)
	assert.Equal(t, 1, rep.Scripts[1].Mutations)
	assert.Equal(t, int64(1), rep.Metrics.Errors[shim.OpQuerySelectorAll])
}

func TestRunSanitizes(t *testing.T) {
	cfg := config.Default()
	cfg.Host.Sanitize = "strict"
	p := &page{
		html:    testHTML,
		scripts: []script{{name: "x.js", source: `document.querySelectorAll("#status")[0].innerHTML = "<b>bold</b>"`}},
	}

	rep, err := run(context.Background(), cfg, p, zap.NewNop())
	require.NoError(t, err)
	assert.Contains(t, rep.HTML, `<div id="status">bold</div>`)
}

func TestReportWrite(t *testing.T) {
	rep := &report{HTML: "<html></html>", Console: []string{"a"}}

	var buf bytes.Buffer
	require.NoError(t, rep.write(&buf, false))
	assert.Equal(t, "<html></html>\n", buf.String())

	buf.Reset()
	require.NoError(t, rep.write(&buf, true))

	var decoded map[string]interface{}
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "<html></html>", decoded["html"])
	assert.Equal(t, []interface{}{"a"}, decoded["console"])
}

func TestLoadPage(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}
	write("page.html", testHTML)
	write("main.js", testScript)
	extra := write("extra.js", "1")
	manifestPath := write("page.yaml", strings.Join([]string{
		"html: page.html",
		"scripts: [main.js]",
		"events:",
		"  - selector: a",
		"    type: click",
	}, "\n"))

	p, err := loadPage("", manifestPath, []string{extra})
	require.NoError(t, err)
	assert.Equal(t, testHTML, p.html)
	require.Len(t, p.scripts, 2)
	assert.Equal(t, filepath.Join(dir, "main.js"), p.scripts[0].name)
	assert.Equal(t, extra, p.scripts[1].name)
	assert.Len(t, p.events, 1)

	_, err = loadPage("", "", nil)
	assert.Error(t, err)

	_, err = loadPage(filepath.Join(dir, "missing.html"), "", nil)
	assert.Error(t, err)
}
