package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
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
	return &sns.PublishOutput{MessageId: aws.String("msg-123")}, nil
}

func TestSNSPublisherSendsEventWithAttributes(t *testing.T) {
	api := &fakeSNS{}
	pub := &snsPublisher{id: "topic", topicARN: "arn:aws:sns:us-east-1:123456789012:lookups", api: api, log: nopLog}

	if err := pub.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if api.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(api.input.TopicArn); got != "arn:aws:sns:us-east-1:123456789012:lookups" {
		t.Fatalf("TopicArn = %s", got)
	}
	if attr, ok := api.input.MessageAttributes["service"]; !ok || aws.ToString(attr.StringValue) != "extract" {
		t.Fatalf("service attribute missing or wrong: %#v", attr)
	}
	if !strings.Contains(aws.ToString(api.input.Message), `"id":"lookup-1"`) {
		t.Fatalf("Message missing lookup id: %s", aws.ToString(api.input.Message))
	}
}

func TestSNSPublisherSendError(t *testing.T) {
	pub := &snsPublisher{id: "topic", topicARN: "arn:aws:sns:::topic", api: &fakeSNS{err: errors.New("boom")}, log: nopLog}
	if err := pub.Publish(context.Background(), testEvent()); err == nil {
		t.Fatalf("expected error from Publish")
	}
}
