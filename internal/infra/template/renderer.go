// Package template renders the pass/fail notification emails using the
// Liquid template language.
package template

import (
	"fmt"

	"seller_notification_service/internal/domain/seller"

	"github.com/osteele/liquid"
)

const passedSubject = "Mystery order result for {{ seller_name }}: passed"
const failedSubject = "Mystery order result for {{ seller_name }}: action required"

const passedText = `Hello {{ seller_name }},

Good news! Your store passed our latest mystery-order quality check.
The full report is available here: {{ report_link }}

Thank you for keeping your service quality high.

Marketplace Quality Team`

const passedHTML = `<html>
<body>
<p>Hello {{ seller_name }},</p>
<p><strong>Good news!</strong> Your store passed our latest mystery-order quality check.</p>
<p>The full report is available <a href="{{ report_link }}">here</a>.</p>
<p>Thank you for keeping your service quality high.</p>
<p>Marketplace Quality Team</p>
</body>
</html>`

const failedText = `Hello {{ seller_name }},

Unfortunately your store did not pass our latest mystery-order quality check.
Please review the full report and address the issues listed: {{ report_link }}

Marketplace Quality Team`

const failedHTML = `<html>
<body>
<p>Hello {{ seller_name }},</p>
<p>Unfortunately your store <strong>did not pass</strong> our latest mystery-order quality check.</p>
<p>Please review the <a href="{{ report_link }}">full report</a> and address the issues listed.</p>
<p>Marketplace Quality Team</p>
</body>
</html>`

type parsedTemplate struct {
	subject *liquid.Template
	text    *liquid.Template
	html    *liquid.Template
}

// Renderer selects and renders the message template for a quality-test
// result. Templates are parsed once at construction: a parse failure is
// fatal for the run, before any mail goes out.
type Renderer struct {
	byResult map[seller.Result]parsedTemplate
}

func NewRenderer() (*Renderer, error) {
	engine := liquid.NewEngine()

	parse := func(name, src string) (*liquid.Template, error) {
		tpl, err := engine.ParseString(src)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		return tpl, nil
	}

	r := &Renderer{byResult: make(map[seller.Result]parsedTemplate)}
	for _, tc := range []struct {
		result                    seller.Result
		name, subject, text, html string
	}{
		{seller.ResultPassed, "passed", passedSubject, passedText, passedHTML},
		{seller.ResultFailed, "failed", failedSubject, failedText, failedHTML},
	} {
		var pt parsedTemplate
		var err error
		if pt.subject, err = parse(tc.name+" subject", tc.subject); err != nil {
			return nil, err
		}
		if pt.text, err = parse(tc.name+" text", tc.text); err != nil {
			return nil, err
		}
		if pt.html, err = parse(tc.name+" html", tc.html); err != nil {
			return nil, err
		}
		r.byResult[tc.result] = pt
	}
	return r, nil
}

// Render produces the subject, plain-text fallback and HTML body for a
// seller notification. The HTML body does not yet contain the tracking
// pixel; the batch loop appends it per recipient.
func (r *Renderer) Render(n *seller.Notification) (subject, text, html string, err error) {
	pt, ok := r.byResult[n.Result]
	if !ok {
		return "", "", "", fmt.Errorf("no template for result %q", n.Result)
	}

	bindings := map[string]interface{}{
		"seller_name": n.SellerName,
		"seller_id":   n.SellerID,
		"report_link": n.ReportLink,
	}

	if subject, err = pt.subject.RenderString(bindings); err != nil {
		return "", "", "", fmt.Errorf("failed to render subject: %w", err)
	}
	if text, err = pt.text.RenderString(bindings); err != nil {
		return "", "", "", fmt.Errorf("failed to render text body: %w", err)
	}
	if html, err = pt.html.RenderString(bindings); err != nil {
		return "", "", "", fmt.Errorf("failed to render html body: %w", err)
	}
	return subject, text, html, nil
}
