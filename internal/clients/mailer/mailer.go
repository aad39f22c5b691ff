package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	_ "embed"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/gomail.v2"

	"github.com/diacor/portal/internal/entity"
	"github.com/diacor/portal/pkg/config"
)

//go:embed receipt.html
var receiptTemplate string

var receipt = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"date":  func(t time.Time) string { return t.Format("02/01/2006") },
}).Parse(receiptTemplate))

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Client struct {
	cfg    config.Mailer
	dialer sender
}

func New(cfg config.Mailer) *Client {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Login, cfg.Password)

	dialer.TLSConfig = &tls.Config{
		ServerName: cfg.Host,
		MinVersion: tls.VersionTLS12,
	}

	return &Client{
		cfg:    cfg,
		dialer: dialer,
	}
}

type receiptData struct {
	Name       string
	Settlement entity.Settlement
}

// SendPaymentReceipt mails the client a summary of how a payment was applied.
// Clients without an email address are skipped.
func (c *Client) SendPaymentReceipt(ctx context.Context, client entity.Client, s entity.Settlement) error {
	if client.Email == "" {
		slog.DebugContext(ctx, "Client has no email, receipt skipped")
		return nil
	}

	var body bytes.Buffer

	err := receipt.Execute(&body, receiptData{
		Name:       client.FullName,
		Settlement: s,
	})
	if err != nil {
		return fmt.Errorf("render receipt: %w", err)
	}

	msg := gomail.NewMessage(
		gomail.SetCharset("UTF-8"),
		gomail.SetEncoding(gomail.Base64),
	)

	msg.SetAddressHeader("From", c.cfg.From, c.cfg.FromName)
	msg.SetHeader("To", client.Email)
	msg.SetHeader("Subject", fmt.Sprintf("Comprobante de pago %s", s.Amount.StringFixed(2)))
	msg.SetBody("text/html", body.String())

	err = c.dialer.DialAndSend(msg)
	if err != nil {
		return fmt.Errorf("send receipt to %s: %w", client.Email, err)
	}

	return nil
}

// Nop is used when mail delivery is switched off.
type Nop struct{}

func (Nop) SendPaymentReceipt(context.Context, entity.Client, entity.Settlement) error {
	return nil
}
