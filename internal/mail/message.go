package mail

import (
	"bytes"
	"embed"
	"fmt"
	htmltmpl "html/template"
	"io/fs"
	"net/mail"
	"path"
	"strings"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

//go:embed all:templates
var templateFS embed.FS

// Message is one outgoing email. Either BodyStr or TemplateName supplies
// the content; Render fills TextContent and HTMLContent.
type Message struct {
	To      []mail.Address
	Cc      []mail.Address
	Bcc     []mail.Address
	Subject string
	BodyStr string

	TemplateName string
	TemplateData any
	TextContent  string
	HTMLContent  string
}

func (m *Message) HasRecipients() bool { return len(m.To) > 0 }
func (m *Message) HasContent() bool    { return m.TextContent != "" || m.HTMLContent != "" }

// templateContext is what every template receives as dot.
type templateContext struct {
	AppName    string
	BookingURL string
	Data       any
}

// Renderer executes the embedded templates. Each "name.txt" or
// "name.gohtml" is parsed together with the matching _base file.
type Renderer struct {
	appName    string
	bookingURL string
	text       map[string]*texttmpl.Template
	html       map[string]*htmltmpl.Template
}

// NewRenderer parses every embedded template.
func NewRenderer(appName, bookingURL string) (*Renderer, error) {
	r := &Renderer{
		appName:    appName,
		bookingURL: bookingURL,
		text:       make(map[string]*texttmpl.Template),
		html:       make(map[string]*htmltmpl.Template),
	}

	paths, err := fs.Glob(templateFS, "templates/*")
	if err != nil {
		return nil, errors.Wrap(err, "listing templates")
	}
	for _, p := range paths {
		fname := path.Base(p)
		ext := path.Ext(fname)
		if strings.HasPrefix(fname, "_") {
			continue
		}
		name := strings.TrimSuffix(fname, ext)
		switch ext {
		case ".txt":
			t, err := texttmpl.New(fname).Option("missingkey=error").
				ParseFS(templateFS, "templates/_base.txt", p)
			if err != nil {
				return nil, errors.Wrapf(err, "parsing %s", fname)
			}
			r.text[name] = t
		case ".gohtml":
			t, err := htmltmpl.New(fname).Option("missingkey=error").
				ParseFS(templateFS, "templates/_base.gohtml", p)
			if err != nil {
				return nil, errors.Wrapf(err, "parsing %s", fname)
			}
			r.html[name] = t
		}
	}
	return r, nil
}

// Render fills the message's text and HTML bodies. A template name with
// neither a .txt nor a .gohtml file is an error.
func (r *Renderer) Render(m *Message) error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
		return nil
	}
	if m.TemplateName == "" {
		return nil
	}

	ctx := templateContext{AppName: r.appName, BookingURL: r.bookingURL, Data: m.TemplateData}
	textT, hasText := r.text[m.TemplateName]
	htmlT, hasHTML := r.html[m.TemplateName]
	if !hasText && !hasHTML {
		return fmt.Errorf("unknown email template %q", m.TemplateName)
	}

	if hasText {
		var buf bytes.Buffer
		if err := textT.ExecuteTemplate(&buf, "base", ctx); err != nil {
			return errors.Wrapf(err, "rendering %s.txt", m.TemplateName)
		}
		m.TextContent = buf.String()
	}
	if hasHTML {
		var buf bytes.Buffer
		if err := htmlT.ExecuteTemplate(&buf, "base", ctx); err != nil {
			return errors.Wrapf(err, "rendering %s.gohtml", m.TemplateName)
		}
		m.HTMLContent = buf.String()
	}
	return nil
}
