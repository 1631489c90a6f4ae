package connector

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedirectFormLiteral(t *testing.T) {
	data := NewParams()
	data.Set("a", "1")
	data.Set("b", "2")

	got := RedirectForm("https://example.com/redirect?a=1&b=2", data)
	want := `<!DOCTYPE html><html><head>` +
		`<meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />` +
		`<title>Redirecting...</title>` +
		`<body onload="document.forms[0].submit();">` +
		`<form action="https://example.com/redirect?a=1&b=2" method="post">` +
		`<p>Redirecting to payment page...</p>` +
		`<p><input type="submit" value="Continue" /></p>` +
		`<input type="hidden" name="a" value="1" />` +
		`<input type="hidden" name="b" value="2" />` +
		`</form></body></html>`
	assert.Equal(t, want, got)
}

func TestRedirectFormEscapesData(t *testing.T) {
	data := NewParams()
	data.Set("note", `<b>"x"</b>`)

	got := RedirectForm("https://pay.test", data)
	assert.Contains(t, got, `name="note" value="&lt;b&gt;&#34;x&#34;&lt;/b&gt;"`)
	assert.NotContains(t, got, `value="<b>`)
}

func TestRedirectFormKeepsInsertionOrder(t *testing.T) {
	data := NewParams()
	data.Set("z", "last-set-first")
	data.Set("a", "second")

	got := RedirectForm("https://pay.test", data)
	assert.Less(t, strings.Index(got, `name="z"`), strings.Index(got, `name="a"`))
}

func newRedirectResponse(method string) *RedirectResponseBase {
	req := newTestRequest(&stubSender{})
	data := NewParams()
	data.Set("token", "abc")
	resp := NewRedirectResponseBase(req, NewParams(), "https://pay.test/hosted", method, data)
	return &resp
}

func TestWriteRedirectGet(t *testing.T) {
	rec := httptest.NewRecorder()
	resp := newRedirectResponse("GET")

	require.NoError(t, WriteRedirect(resp, rec))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://pay.test/hosted", rec.Header().Get("Location"))
}

func TestWriteRedirectPost(t *testing.T) {
	rec := httptest.NewRecorder()
	resp := newRedirectResponse("POST")

	require.NoError(t, WriteRedirect(resp, rec))
	assert.Equal(t, "text/html; charset=UTF-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `<form action="https://pay.test/hosted" method="post">`)
	assert.Contains(t, rec.Body.String(), `name="token" value="abc"`)
}

func TestWriteRedirectInvalidMethod(t *testing.T) {
	rec := httptest.NewRecorder()
	resp := newRedirectResponse("PUT")

	err := WriteRedirect(resp, rec)
	require.Error(t, err)
	assert.Equal(t, "Invalid redirect method PUT.", err.(*RedirectError).Reason)
}

// plainRedirector reports itself as not a redirect.
type plainRedirector struct{}

func (plainRedirector) IsRedirect() bool       { return false }
func (plainRedirector) RedirectURL() string    { return "" }
func (plainRedirector) RedirectMethod() string { return "" }
func (plainRedirector) RedirectData() *Params  { return nil }

func TestWriteRedirectRequiresRedirectResponse(t *testing.T) {
	rec := httptest.NewRecorder()

	err := WriteRedirect(plainRedirector{}, rec)
	require.Error(t, err)
	assert.Equal(t, "This response does not support redirection.", err.(*RedirectError).Reason)
}

func TestRedirectUsesConnectorWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	conn := &stubConnector{Base: NewBase(rec, nil)}
	req := NewRequest(conn, &stubSender{})

	resp := NewRedirectResponseBase(req, NewParams(), "https://pay.test/hosted", "GET", nil)
	require.NoError(t, resp.Redirect())
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://pay.test/hosted", rec.Header().Get("Location"))
}

func TestDefaultResponseFlags(t *testing.T) {
	base := NewResponseBase(nil, nil)
	assert.False(t, base.IsPending())
	assert.False(t, base.IsRedirect())
	assert.False(t, base.IsTransparentRedirect())
	assert.False(t, base.IsCancelled())
}
