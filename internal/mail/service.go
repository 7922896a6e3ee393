package mail

import (
	"context"
	"net/mail"
)

// Service is anything that can deliver rendered emails.
type Service interface {
	// Send renders and delivers each message in order, stopping at the
	// first failure.
	Send(ctx context.Context, messages ...*Message) error
}

// Sender identifies the From address and subject prefix shared by
// every implementation.
type Sender struct {
	From       mail.Address
	SubjPrefix string
}

// NewSender builds a Sender whose subject prefix is "[appName] ".
func NewSender(appName, fromEmail string) Sender {
	s := Sender{From: mail.Address{Name: appName, Address: fromEmail}}
	if appName != "" {
		s.SubjPrefix = "[" + appName + "] "
	}
	return s
}
