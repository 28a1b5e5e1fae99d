package notifier

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	config "github.com/shuvo-dotcom/group-ordering-hub/configs"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/logger"
	"github.com/shuvo-dotcom/group-ordering-hub/internal/models"
)

// EmailNotifier delivers order mail through SES.
type EmailNotifier struct {
	cfg config.EmailConfig
	log *logger.Logger
}

func NewEmailNotifier(cfg config.EmailConfig, baseLog *logger.Logger) *EmailNotifier {
	return &EmailNotifier{cfg: cfg, log: baseLog.With("component", "EmailNotifier")}
}

func (n *EmailNotifier) SendOrderConfirmation(recipientEmail, customerName string, order *models.Order) error {
	subject := fmt.Sprintf("Order %s Confirmation - Thank You for Your Purchase!", order.OrderID)
	totalStr := strconv.FormatFloat(order.TotalPrice, 'f', 2, 64)

	bodyHTML := fmt.Sprintf(`
        <html>
        <body>
            <p>Dear %s,</p>
            <p>Thank you for your order! Your order %s has been successfully placed.</p>
            <p><strong>Order Details:</strong></p>
            <ul>
                <li>Order ID: %s</li>
                <li>Total Amount: %s %s</li>
            </ul>
            <p>We'll send you another email when your order ships.</p>
            <p>Best regards,</p>
            <p>The CrowdCargo Team</p>
        </body>
        </html>`, customerName, order.OrderID, order.OrderID, order.Currency, totalStr)

	bodyText := fmt.Sprintf(
		"Dear %s,\n\nThank you for your order! Your order %s has been successfully placed.\n\n"+
			"Order Details:\nOrder ID: %s\nTotal Amount: %s %s\n\n"+
			"We'll send you another email when your order ships.\n\nBest regards,\nThe CrowdCargo Team",
		customerName, order.OrderID, order.OrderID, order.Currency, totalStr)

	return n.send(recipientEmail, subject, bodyHTML, bodyText, order.OrderID)
}

func (n *EmailNotifier) SendStatusUpdate(recipientEmail, customerName string, order *models.Order) error {
	subject := fmt.Sprintf("Order %s Update: %s", order.OrderID, order.Status)

	bodyHTML := fmt.Sprintf(`
        <html>
        <body>
            <p>Dear %s,</p>
            <p>Your order %s is now <strong>%s</strong>.</p>
            <p>Best regards,</p>
            <p>The CrowdCargo Team</p>
        </body>
        </html>`, customerName, order.OrderID, order.Status)

	bodyText := fmt.Sprintf("Dear %s,\n\nYour order %s is now %s.\n\nBest regards,\nThe CrowdCargo Team",
		customerName, order.OrderID, order.Status)

	return n.send(recipientEmail, subject, bodyHTML, bodyText, order.OrderID)
}

func (n *EmailNotifier) send(recipientEmail, subject, bodyHTML, bodyText, orderID string) error {
	if n.cfg.SenderEmail == "" {
		return fmt.Errorf("sender email address is not configured")
	}
	if recipientEmail == "" {
		return fmt.Errorf("recipient email address is empty")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(n.cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(n.cfg.AWSAccessKeyID, n.cfg.AWSSecretAccessKey, "")),
	)
	if err != nil {
		return fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	client := ses.NewFromConfig(awsCfg)
	input := &ses.SendEmailInput{
		Source: aws.String(n.cfg.SenderEmail),
		Destination: &types.Destination{
			ToAddresses: []string{recipientEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(bodyHTML),
				},
				Text: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(bodyText),
				},
			},
		},
	}

	if _, err := client.SendEmail(context.TODO(), input); err != nil {
		n.log.Error("email send failed", "order_id", orderID, "recipient", recipientEmail, "err", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	n.log.Info("email sent", "order_id", orderID, "recipient", recipientEmail)
	return nil
}
