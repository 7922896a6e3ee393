package mail

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/mail"
	"net/textproto"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// ConsoleService writes each message as a MIME document instead of
// delivering it. Used when no SendGrid key is configured.
type ConsoleService struct {
	mu       sync.Mutex
	out      io.Writer
	sender   Sender
	renderer *Renderer
	sent     []Message
}

var _ Service = (*ConsoleService)(nil)

// NewConsoleService writes messages to out. A nil out only records them.
func NewConsoleService(out io.Writer, sender Sender, renderer *Renderer) *ConsoleService {
	return &ConsoleService{out: out, sender: sender, renderer: renderer}
}

func (svc *ConsoleService) Send(_ context.Context, messages ...*Message) error {
	for _, msg := range messages {
		if err := svc.renderer.Render(msg); err != nil {
			return errors.Wrap(err, "rendering email")
		}
		if !msg.HasRecipients() || !msg.HasContent() {
			continue
		}
		body, err := svc.format(msg)
		if err != nil {
			return err
		}

		svc.mu.Lock()
		svc.sent = append(svc.sent, *msg)
		if svc.out != nil {
			_, _ = io.WriteString(svc.out, body)
		}
		svc.mu.Unlock()
	}
	return nil
}

// Sent returns a copy of every message delivered so far.
func (svc *ConsoleService) Sent() []Message {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	out := make([]Message, len(svc.sent))
	copy(out, svc.sent)
	return out
}

func (svc *ConsoleService) format(msg *Message) (string, error) {
	body := new(strings.Builder)

	_, _ = fmt.Fprintf(body, "From: %s\r\n", svc.sender.From.String())
	_, _ = fmt.Fprint(body, "MIME-Version: 1.0\r\n")
	_, _ = fmt.Fprintf(body, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	_, _ = fmt.Fprintf(body, "Subject: %s\r\n", svc.sender.SubjPrefix+msg.Subject)
	_, _ = fmt.Fprintf(body, "To: %s\r\n", joinAddresses(msg.To))
	if len(msg.Cc) > 0 {
		_, _ = fmt.Fprintf(body, "CC: %s\r\n", joinAddresses(msg.Cc))
	}

	altW := multipart.NewWriter(body)
	_, _ = fmt.Fprintf(body, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", altW.Boundary())

	if msg.TextContent != "" {
		w, err := altW.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/plain; charset=utf-8"}})
		if err != nil {
			return "", errors.Wrap(err, "creating text/plain part")
		}
		_, _ = fmt.Fprintf(w, "%s\r\n", msg.TextContent)
	}
	if msg.HTMLContent != "" {
		w, err := altW.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/html; charset=utf-8"}})
		if err != nil {
			return "", errors.Wrap(err, "creating text/html part")
		}
		_, _ = fmt.Fprintf(w, "%s\r\n", msg.HTMLContent)
	}
	if err := altW.Close(); err != nil {
		return "", errors.Wrap(err, "closing multipart body")
	}
	return body.String(), nil
}

func joinAddresses(addrs []mail.Address) string {
	toJoin := make([]string, 0, len(addrs))
	for _, a := range addrs {
		toJoin = append(toJoin, a.String())
	}
	return strings.Join(toJoin, ", ")
}
