// Package notify defines the outbound notification contract used by the
// circulation batch jobs. Real transports (SMS broker, mail relay) plug in
// behind Gateway; the default implementation just logs what it would send.
package notify

import (
	"context"
	"log"
)

// Gateway delivers a message to a member. A nil error means delivered; the
// caller performs no retries and only uses the result for counting.
type Gateway interface {
	SendPhoneMessage(ctx context.Context, number, body string) error
	SendAddressMessage(ctx context.Context, address, subject, body string) error
}

// LogGateway writes every message to the process log instead of delivering
// it. It stands in for a real transport in development and in demos.
type LogGateway struct{}

func NewLogGateway() *LogGateway {
	return &LogGateway{}
}

func (g *LogGateway) SendPhoneMessage(_ context.Context, number, body string) error {
	log.Printf("notify sms to=%s body=%q", number, body)
	return nil
}

func (g *LogGateway) SendAddressMessage(_ context.Context, address, subject, body string) error {
	log.Printf("notify mail to=%s subject=%q body_len=%d", address, subject, len(body))
	return nil
}
