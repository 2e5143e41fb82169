// Package notify delivers critical threat alerts by email via AWS SES v2.
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	appconfig "github.com/marketscout/intel-monitor/internal/config"
	"github.com/marketscout/intel-monitor/internal/domain"
	"github.com/marketscout/intel-monitor/internal/pkg/logger"
)

// EmailSender is the subset of the SES v2 client the mailer uses.
type EmailSender interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Mailer sends alert emails. It satisfies intelligence.Notifier.
type Mailer struct {
	client EmailSender
	from   string
	to     string
}

// NewMailer creates an SES-backed mailer from configuration.
func NewMailer(ctx context.Context, cfg appconfig.NotifyConfig) (*Mailer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &Mailer{
		client: sesv2.NewFromConfig(awsCfg),
		from:   cfg.FromAddress,
		to:     cfg.ToAddress,
	}, nil
}

// NewMailerWithClient wires an explicit sender, used by tests.
func NewMailerWithClient(client EmailSender, from, to string) *Mailer {
	return &Mailer{client: client, from: from, to: to}
}

// NotifyCriticalAlert emails one critical alert to the configured recipient.
func (m *Mailer) NotifyCriticalAlert(ctx context.Context, ownerID string, alert *domain.ThreatAlert) error {
	subject := fmt.Sprintf("[MarketScout] Critical alert: %s", alert.Title)
	body := fmt.Sprintf("Severity: %s\n\n%s\n\nOpen the dashboard to review.", alert.Severity, alert.Message)

	_, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.from),
		Destination: &sestypes.Destination{
			ToAddresses: []string{m.to},
		},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{Data: aws.String(subject)},
				Body: &sestypes.Body{
					Text: &sestypes.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send alert email: %w", err)
	}

	logger.Info("critical alert emailed", "owner_id", ownerID, "alert_id", alert.ID)
	return nil
}
