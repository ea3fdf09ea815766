package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"golang.org/x/time/rate"

	"github.com/ignitelabs/sparkd/internal/logger"
)

// SMTPConfig holds the configuration for the SMTP sender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Rate     float64 // messages per second, fan-out pacing
}

// SMTPSender delivers messages over plain SMTP. Sends are paced with a
// rate limiter so a large subscriber fan-out does not trip relay limits.
type SMTPSender struct {
	addr    string
	auth    smtp.Auth
	from    string
	limiter *rate.Limiter
	log     *logger.Logger

	// sendMail is swappable in tests
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender creates a new SMTP sender.
func NewSMTPSender(cfg SMTPConfig, log *logger.Logger) *SMTPSender {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	rps := cfg.Rate
	if rps <= 0 {
		rps = 5.0
	}

	return &SMTPSender{
		addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth:     auth,
		from:     cfg.From,
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
		log:      log,
		sendMail: smtp.SendMail,
	}
}

// Send delivers one message, blocking on the rate limiter first.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("empty recipient address")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	payload := buildPayload(s.from, msg)
	if err := s.sendMail(s.addr, s.auth, s.from, []string{msg.To}, payload); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	s.log.Debug().Str("to", msg.To).Str("subject", msg.Subject).Msg("mail sent")
	return nil
}

func buildPayload(from string, msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}
