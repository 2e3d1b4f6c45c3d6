package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BradenHooton/egaming/internal/models"
	pkglogger "github.com/BradenHooton/egaming/pkg/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Notifier delivers one-time codes to a user's inbox
type Notifier interface {
	SendCode(ctx context.Context, email, code string, codeType models.CodeType) error
}

// SESClient is the subset of the SES API used for delivery
type SESClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESNotifier sends codes using AWS SES
type SESNotifier struct {
	client      SESClient
	fromAddress string
	appName     string
	codeExpiry  time.Duration
	logger      *slog.Logger
}

// NewSESNotifier loads the default AWS credential chain for region
func NewSESNotifier(ctx context.Context, region, fromAddress, appName string, codeExpiry time.Duration, logger *slog.Logger) (*SESNotifier, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewSESNotifierWithClient(ses.NewFromConfig(cfg), fromAddress, appName, codeExpiry, logger), nil
}

func NewSESNotifierWithClient(client SESClient, fromAddress, appName string, codeExpiry time.Duration, logger *slog.Logger) *SESNotifier {
	return &SESNotifier{
		client:      client,
		fromAddress: fromAddress,
		appName:     appName,
		codeExpiry:  codeExpiry,
		logger:      logger,
	}
}

func codeSubject(appName string, codeType models.CodeType) string {
	switch codeType {
	case models.CodeTypeEmailVerify:
		return fmt.Sprintf("Verify your %s account", appName)
	case models.CodeTypePasswordReset:
		return fmt.Sprintf("Reset your %s password", appName)
	default:
		return fmt.Sprintf("Your %s login code", appName)
	}
}

func (n *SESNotifier) SendCode(ctx context.Context, email, code string, codeType models.CodeType) error {
	subject := codeSubject(n.appName, codeType)
	minutes := int(n.codeExpiry.Minutes())

	htmlBody := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 500px; margin: 0 auto;">
  <h2 style="color: #333;">%s</h2>
  <p>Your verification code is:</p>
  <p style="font-size: 28px; font-weight: bold; letter-spacing: 8px; color: #2563eb;">%s</p>
  <p style="color: #666; font-size: 14px;">This code expires in %d minutes.</p>
  <p style="color: #666; font-size: 14px;">If you didn't request this, please ignore this email.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;" />
  <p style="color: #999; font-size: 12px;">%s</p>
</div>`, subject, code, minutes, n.appName)

	textBody := fmt.Sprintf(`%s

Your verification code is: %s

This code expires in %d minutes.
If you didn't request this, please ignore this email.

%s
`, subject, code, minutes, n.appName)

	input := &ses.SendEmailInput{
		Source: aws.String(n.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data: aws.String(htmlBody),
				},
				Text: &types.Content{
					Data: aws.String(textBody),
				},
			},
		},
	}

	result, err := n.client.SendEmail(ctx, input)
	if err != nil {
		n.logger.Error("failed to send code via SES",
			slog.String("email", pkglogger.SanitizedEmail(email)),
			slog.String("code_type", string(codeType)),
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	n.logger.Info("code email sent",
		slog.String("email", pkglogger.SanitizedEmail(email)),
		slog.String("code_type", string(codeType)),
		slog.String("message_id", aws.ToString(result.MessageId)))

	return nil
}

// LogNotifier writes codes to the log instead of sending mail. Codes are
// redacted in production.
type LogNotifier struct {
	logger *slog.Logger
	env    string
}

func NewLogNotifier(logger *slog.Logger, env string) *LogNotifier {
	return &LogNotifier{logger: logger, env: env}
}

func (n *LogNotifier) SendCode(ctx context.Context, email, code string, codeType models.CodeType) error {
	n.logger.Info("verification code issued",
		pkglogger.RedactedAttr("email", email, n.env),
		slog.String("code_type", string(codeType)),
		pkglogger.RedactedAttr("code", code, n.env))
	return nil
}
