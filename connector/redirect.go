package connector

import (
	"fmt"
	"html"
	"net/http"
	"strings"
)

// RedirectResponse is a Response carrying instructions for forwarding
// the customer's browser to the gateway's hosted payment page.
type RedirectResponse interface {
	Response

	// RedirectURL returns the gateway page to forward the browser to.
	RedirectURL() string

	// RedirectMethod returns "GET" or "POST".
	RedirectMethod() string

	// RedirectData returns the parameters carried along with a POST
	// redirect.
	RedirectData() *Params

	// Redirect writes the redirect to the hosting environment's
	// response channel.
	Redirect() error
}

// Redirector is the minimal surface WriteRedirect needs from a
// redirect-style response.
type Redirector interface {
	IsRedirect() bool
	RedirectURL() string
	RedirectMethod() string
	RedirectData() *Params
}

// WriteRedirect performs resp's redirect against w: a GET redirects the
// browser with a 302, a POST writes the auto-submitting HTML form. Any
// other method, or a response that is not a redirect, fails with a
// RedirectError.
func WriteRedirect(resp Redirector, w http.ResponseWriter) error {
	if !resp.IsRedirect() {
		return &RedirectError{Reason: "This response does not support redirection."}
	}
	if w == nil {
		return &RedirectError{Reason: "No response channel is available for redirection."}
	}
	switch strings.ToUpper(resp.RedirectMethod()) {
	case "GET":
		w.Header().Set("Location", resp.RedirectURL())
		w.WriteHeader(http.StatusFound)
		return nil
	case "POST":
		w.Header().Set("Content-Type", "text/html; charset=UTF-8")
		_, err := fmt.Fprint(w, RedirectForm(resp.RedirectURL(), resp.RedirectData()))
		return err
	default:
		return &RedirectError{Reason: fmt.Sprintf("Invalid redirect method %s.", resp.RedirectMethod())}
	}
}

// RedirectForm renders the auto-submitting HTML document used to forward
// a browser to a hosted payment page while carrying POST-only
// parameters: a POST form aimed at url, one hidden input per data entry
// in the store's iteration order, a visible submit fallback and an
// onload script that submits the form.
func RedirectForm(url string, data *Params) string {
	var hidden strings.Builder
	if data != nil {
		for _, key := range data.Keys() {
			hidden.WriteString(`<input type="hidden" name="`)
			hidden.WriteString(html.EscapeString(key))
			hidden.WriteString(`" value="`)
			hidden.WriteString(html.EscapeString(data.Get(key)))
			hidden.WriteString(`" />`)
		}
	}

	var form strings.Builder
	form.WriteString("<!DOCTYPE html><html><head>")
	form.WriteString(`<meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />`)
	form.WriteString("<title>Redirecting...</title>")
	form.WriteString(`<body onload="document.forms[0].submit();">`)
	form.WriteString(`<form action="` + url + `" method="post">`)
	form.WriteString("<p>Redirecting to payment page...</p>")
	form.WriteString(`<p><input type="submit" value="Continue" /></p>`)
	form.WriteString(hidden.String())
	form.WriteString("</form></body></html>")
	return form.String()
}

// RedirectResponseBase supplies the redirect half of a gateway response.
// Concrete redirect responses embed it next to ResponseBase and fill the
// redirect target in their constructor.
type RedirectResponseBase struct {
	ResponseBase

	redirectURL    string
	redirectMethod string
	redirectData   *Params
}

// NewRedirectResponseBase creates the shared part of a redirect-style
// gateway response. An empty method defaults to GET.
func NewRedirectResponseBase(request *Request, data *Params, url, method string, redirectData *Params) RedirectResponseBase {
	if method == "" {
		method = "GET"
	}
	if redirectData == nil {
		redirectData = NewParams()
	}
	return RedirectResponseBase{
		ResponseBase:   NewResponseBase(request, data),
		redirectURL:    url,
		redirectMethod: method,
		redirectData:   redirectData,
	}
}

// IsRedirect reports true for redirect-style responses.
func (r *RedirectResponseBase) IsRedirect() bool { return true }

// RedirectURL returns the gateway page to forward the browser to.
func (r *RedirectResponseBase) RedirectURL() string { return r.redirectURL }

// RedirectMethod returns the HTTP method of the redirect.
func (r *RedirectResponseBase) RedirectMethod() string { return r.redirectMethod }

// RedirectData returns the parameters carried along with a POST
// redirect.
func (r *RedirectResponseBase) RedirectData() *Params { return r.redirectData }

// RedirectForm renders the auto-submitting form for this response.
func (r *RedirectResponseBase) RedirectForm() string {
	return RedirectForm(r.redirectURL, r.redirectData)
}

// Redirect writes the redirect to the response channel of the connector
// that owns the originating request.
func (r *RedirectResponseBase) Redirect() error {
	var w http.ResponseWriter
	if req := r.Request(); req != nil && req.Connector() != nil {
		w = req.Connector().ResponseWriter()
	}
	return WriteRedirect(r, w)
}
