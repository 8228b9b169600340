package cloud

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSClient wraps AWS SNS for report notifications.
type SNSClient struct {
	svc      *sns.Client
	topicArn string
}

func NewSNSClient(ctx context.Context, region, topicArn string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return &SNSClient{svc: sns.NewFromConfig(cfg), topicArn: topicArn}, nil
}

func (c *SNSClient) Publish(ctx context.Context, subject, message string) error {
	input := &sns.PublishInput{
		TopicArn: aws.String(c.topicArn),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	}
	if _, err := c.svc.Publish(ctx, input); err != nil {
		return fmt.Errorf("failed to publish to SNS: %w", err)
	}
	return nil
}

// PublishReportNotification announces a freshly published facility report.
func (c *SNSClient) PublishReportNotification(ctx context.Context, facilityName, url string) error {
	subject := fmt.Sprintf("Metering report published for %s", facilityName)
	message := fmt.Sprintf(
		"Facility Report Available\n\n"+
			"Facility: %s\n"+
			"Download: %s\n"+
			"Published: %s\n",
		facilityName,
		url,
		time.Now().Format(time.RFC3339),
	)
	return c.Publish(ctx, subject, message)
}
