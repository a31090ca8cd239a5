package publishers

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/shiftline-hq/shiftline-client/internal/domain"
)

type fakeSNS struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("sns-1")}, nil
}

func TestSNSPublisherPublishesToTopic(t *testing.T) {
	fake := &fakeSNS{}
	pub := &snsPublisher{id: "topic", topicARN: "arn:aws:sns:eu-west-1:1:relay", client: fake, log: discardLogger{}}

	if err := pub.Publish(context.Background(), NewEvent("src", domain.Notification{ID: "n1"})); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := aws.ToString(fake.input.TopicArn); got != "arn:aws:sns:eu-west-1:1:relay" {
		t.Fatalf("topic arn = %q", got)
	}
	attr := fake.input.MessageAttributes[attrNotificationType]
	if aws.ToString(attr.StringValue) != "unknown" {
		t.Fatalf("empty type should map to placeholder, got %q", aws.ToString(attr.StringValue))
	}
}

func TestSNSPublisherWrapsError(t *testing.T) {
	pubErr := errors.New("denied")
	pub := &snsPublisher{id: "topic", client: &fakeSNS{err: pubErr}, log: discardLogger{}}
	if err := pub.Publish(context.Background(), Event{}); !errors.Is(err, pubErr) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
