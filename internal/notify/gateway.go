// Package notify abstracts the outbound-contact channels the recruiter
// surface offers. Real WhatsApp and email integrations are out of
// scope; the shipped implementation records the send and succeeds.
package notify

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// Gateway sends recruiter-initiated messages to candidates.
type Gateway interface {
	SendWhatsApp(ctx context.Context, phone, message string) error
	SendEmail(ctx context.Context, to, subject, body string) error
}

// DefaultWhatsAppTemplate is the starting message offered to the
// recruiter; {{name}} is replaced with the candidate's name.
const DefaultWhatsAppTemplate = "Hello {{name}}, we received your application and would like to discuss opportunities with you. Is this a good time to chat?"

// RenderTemplate substitutes the candidate's name into a message
// template.
func RenderTemplate(template, name string) string {
	return strings.ReplaceAll(template, "{{name}}", name)
}

// LogGateway is the stub implementation: every send is logged and
// reported as successful.
type LogGateway struct {
	logger zerolog.Logger
}

// NewLogGateway creates a logging gateway.
func NewLogGateway(logger zerolog.Logger) *LogGateway {
	return &LogGateway{logger: logger}
}

func (g *LogGateway) SendWhatsApp(_ context.Context, phone, message string) error {
	g.logger.Info().
		Str("channel", "whatsapp").
		Str("phone", phone).
		Str("message", message).
		Msg("outbound message (stubbed)")
	return nil
}

func (g *LogGateway) SendEmail(_ context.Context, to, subject, body string) error {
	g.logger.Info().
		Str("channel", "email").
		Str("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("outbound message (stubbed)")
	return nil
}
