package email

import (
	"context"

	"brokerage_backend/platform/config"
)

// Attachment is a file attached to an outgoing email.
type Attachment struct {
	Content  []byte // raw file bytes
	FileName string // e.g. "analytics-20261019-090000.pdf"
	MIMEType string // e.g. "application/pdf"
}

// ReportEmail describes one emailed analytics report.
type ReportEmail struct {
	ToEmail    string
	BrokerName string
	Filters    string
	Attachment Attachment
}

type Sender interface {
	SendAnalyticsReport(ctx context.Context, report ReportEmail) error
}

type NoopSender struct{}

func (NoopSender) SendAnalyticsReport(ctx context.Context, report ReportEmail) error {
	return nil
}

// NewSender returns an SMTP sender, or a NoopSender when email is disabled.
func NewSender(cfg config.SMTPConfig) Sender {
	if !cfg.IsEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(cfg.GetSMTPHost(), cfg.GetSMTPPort(), cfg.GetSMTPUsername(), cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(), cfg.GetEmailFromName())
}
