package mail

import (
	"context"
	"net/http"
	"net/mail"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendGridService delivers mail through the SendGrid v3 API.
type SendGridService struct {
	key      string
	host     string
	sender   Sender
	renderer *Renderer
}

var _ Service = (*SendGridService)(nil)

// NewSendGridService creates a SendGrid-backed service.
func NewSendGridService(key string, sender Sender, renderer *Renderer) *SendGridService {
	return &SendGridService{
		key:      key,
		host:     sendgridHost,
		sender:   sender,
		renderer: renderer,
	}
}

func (svc *SendGridService) Send(_ context.Context, messages ...*Message) error {
	for _, msg := range messages {
		if err := svc.renderer.Render(msg); err != nil {
			return errors.Wrap(err, "rendering email")
		}
		if !msg.HasRecipients() || !msg.HasContent() {
			continue
		}
		if err := svc.send(msg); err != nil {
			return err
		}
	}
	return nil
}

func (svc *SendGridService) prepare(msg *Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = svc.sender.SubjPrefix + msg.Subject

	for _, to := range msg.To {
		p.AddTos(sgEmail(to))
	}
	for _, cc := range msg.Cc {
		p.AddCCs(sgEmail(cc))
	}
	for _, bcc := range msg.Bcc {
		p.AddBCCs(sgEmail(bcc))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(sgEmail(svc.sender.From))
	m.AddPersonalizations(p)

	if msg.TextContent != "" {
		m.AddContent(sgmail.NewContent("text/plain", msg.TextContent))
	}
	if msg.HTMLContent != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTMLContent))
	}
	return m
}

func (svc *SendGridService) send(msg *Message) error {
	req := sendgrid.GetRequest(svc.key, sendgridEndpoint, svc.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(svc.prepare(msg))

	res, err := sendgrid.API(req)
	if err != nil {
		return errors.Wrap(err, "sending email")
	}
	if res.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("sending email - status: %d - body: %s", res.StatusCode, res.Body)
	}
	return nil
}

func sgEmail(addr mail.Address) *sgmail.Email {
	return sgmail.NewEmail(addr.Name, addr.Address)
}
