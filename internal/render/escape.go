package render

import "strings"

// escaper maps the five markup-significant characters to named entities. The
// entity spelling is part of the generated-document contract, so the stdlib
// html.EscapeString (which emits &#34; and &#39;) is not a drop-in here.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML makes untrusted text safe for markup insertion. It is applied to
// every interpolated text field except the text variant's content, which is
// author-trusted markup inserted verbatim.
func EscapeHTML(s string) string {
	return escaper.Replace(s)
}
