package service

import (
	"context"
	"fmt"
	"html"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"
)

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	log        *zap.Logger
}

// NewEmailService creates a new email service. An empty fromEmail yields a
// disabled service that skips every send.
func NewEmailService(ctx context.Context, awsRegion, fromEmail, fromName, appBaseURL string, log *zap.Logger) (*EmailService, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("email")

	if fromEmail == "" {
		log.Info("email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, log: log}, nil
	}

	log.Debug("initializing email service with AWS SES",
		zap.String("region", awsRegion),
		zap.String("from_email", fromEmail),
		zap.String("from_name", fromName),
		zap.String("app_base_url", appBaseURL))

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Info("email service enabled", zap.String("from", fromEmail), zap.String("region", awsRegion))
	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		log:        log,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendConnectionRequestEmail tells a user that someone wants to connect as relatives
func (s *EmailService) SendConnectionRequestEmail(ctx context.Context, toEmail, toName, fromName string) error {
	if !s.enabled {
		s.log.Debug("skipping email send (service disabled)", zap.String("to", toEmail))
		return nil
	}
	if toName == "" {
		toName = "there"
	}

	link := s.appBaseURL + "/dashboard/relatives"
	subject := fmt.Sprintf("%s wants to connect with you", fromName)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #6b8e23; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #6b8e23; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>New connection request</h1>
		</div>
		<div class="content">
			<p>Hi %s,</p>
			<p><strong>%s</strong> thinks you may be related and would like to connect.</p>
			<p style="text-align: center;">
				<a href="%s" class="button">Review request</a>
			</p>
		</div>
		<div class="footer">
			<p>This is an automated email from %s. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, html.EscapeString(toName), html.EscapeString(fromName), link, html.EscapeString(s.fromName))

	textBody := fmt.Sprintf(`Hi %s,

%s thinks you may be related and would like to connect.

Review the request: %s

---
This is an automated email from %s. Please do not reply.
`, toName, fromName, link, s.fromName)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	fields := []zap.Field{zap.String("to", toEmail), zap.String("subject", subject)}
	if result.MessageId != nil {
		fields = append(fields, zap.String("message_id", *result.MessageId))
	}
	s.log.Info("email sent", fields...)
	return nil
}
