package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type fakeSQS struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQS) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-123")}, nil
}

func TestSQSPublisherSendsEventWithAttributes(t *testing.T) {
	api := &fakeSQS{}
	pub := &sqsPublisher{id: "queue", queueURL: "https://sqs.example/queue", api: api, log: nopLog}

	if err := pub.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if api.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(api.input.QueueUrl); got != "https://sqs.example/queue" {
		t.Fatalf("QueueUrl = %s", got)
	}
	for key, want := range map[string]string{"variant": "extract", "service": "extract", "lookup_id": "lookup-1"} {
		attr, ok := api.input.MessageAttributes[key]
		if !ok || aws.ToString(attr.StringValue) != want || aws.ToString(attr.DataType) != "String" {
			t.Fatalf("attribute %s missing or wrong: %#v", key, attr)
		}
	}
	if !strings.Contains(aws.ToString(api.input.MessageBody), `"target_url":"https://example.com"`) {
		t.Fatalf("MessageBody missing target_url: %s", aws.ToString(api.input.MessageBody))
	}
}

func TestSQSPublisherSendError(t *testing.T) {
	pub := &sqsPublisher{id: "queue", queueURL: "https://sqs.example/queue", api: &fakeSQS{err: errors.New("boom")}, log: nopLog}
	if err := pub.Publish(context.Background(), testEvent()); err == nil {
		t.Fatalf("expected error from Publish")
	}
}
