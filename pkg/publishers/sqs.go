package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

const defaultMessageGroupID = "notifications"

type sqsClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// sqsPublisher sends each notification as one SQS message. FIFO queues get
// the notification id as deduplication id so a redelivered notification is
// dropped by the queue itself.
type sqsPublisher struct {
	id       string
	queueURL string
	fifo     bool
	groupID  string
	client   sqsClient
	log      Logger
}

func newSQSPublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.SQS == nil {
		return nil, fmt.Errorf("publisher %q missing sqs configuration", cfg.ID)
	}

	awsCfg, err := loadAWSConfig(ctx, cfg.SQS.Region)
	if err != nil {
		return nil, err
	}

	groupID := cfg.SQS.MessageGroupID
	if groupID == "" {
		groupID = defaultMessageGroupID
	}

	return &sqsPublisher{
		id:       cfg.ID,
		queueURL: cfg.SQS.QueueURL,
		fifo:     strings.HasSuffix(cfg.SQS.QueueURL, ".fifo"),
		groupID:  groupID,
		client:   sqs.NewFromConfig(awsCfg),
		log:      ensureLogger(log),
	}, nil
}

func (s *sqsPublisher) ID() string   { return s.id }
func (s *sqsPublisher) Type() string { return TypeSQS }

func (s *sqsPublisher) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueURL),
		MessageBody: aws.String(string(payload)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			attrNotificationType: {
				DataType:    aws.String("String"),
				StringValue: aws.String(attributeValue(evt.Type)),
			},
		},
	}
	if s.fifo {
		input.MessageGroupId = aws.String(s.groupID)
		input.MessageDeduplicationId = aws.String(evt.NotificationID)
	}

	out, err := s.client.SendMessage(ctx, input)
	if err != nil {
		s.log.ErrorObj("sqs publish failed", "publisher_error", deliveryFields(s, evt, map[string]any{
			"error": err.Error(),
		}))
		return fmt.Errorf("send message to sqs: %w", err)
	}
	s.log.DebugObj("sqs publish delivered", "publisher_delivery", deliveryFields(s, evt, map[string]any{
		"message_id": aws.ToString(out.MessageId),
	}))
	return nil
}
