package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// PasteFragment wraps the markup produced by a paste so the editor can swap
// it in. Pass-through pastes render nothing.
//
// The markup is written unescaped. Tables and media built by the pipeline
// escape all text, but a clipboard image paste is returned verbatim, so any
// attributes or scripts it carries reach the page as they were copied. The
// Content-Security-Policy set when SECURITY_ENABLE_CSP is on (script-src
// 'self', no inline handlers) is what keeps such markup inert.
func PasteFragment(action, format, markup string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if markup == "" {
			return nil
		}
		open := `<div class="paste-result" data-action="` + templ.EscapeString(action) + `"`
		if format != "" && format != "none" {
			open += ` data-format="` + templ.EscapeString(format) + `"`
		}
		if _, err := io.WriteString(w, open+`>`); err != nil {
			return err
		}
		if err := templ.Raw(markup).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}
