package pub

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSNS struct {
	in  *sns.PublishInput
	err error
}

func (f *fakeSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.in = params
	return &sns.PublishOutput{MessageId: aws.String("m-1")}, f.err
}

func TestPublishRaw(t *testing.T) {
	fake := &fakeSNS{}
	p := &snsPub{cli: fake}
	require.NoError(t, p.PublishRaw(context.Background(), "arn:topic", []byte(`{"op":"create"}`)))

	require.NotNil(t, fake.in)
	assert.Equal(t, "arn:topic", aws.ToString(fake.in.TopicArn))
	assert.Equal(t, `{"op":"create"}`, aws.ToString(fake.in.Message))
	assert.Equal(t, EventSubject, aws.ToString(fake.in.MessageAttributes["event"].StringValue))
	assert.Equal(t, "application/json", aws.ToString(fake.in.MessageAttributes["content-type"].StringValue))
}

func TestPublishRawError(t *testing.T) {
	p := &snsPub{cli: &fakeSNS{err: errors.New("throttled")}}
	assert.EqualError(t, p.PublishRaw(context.Background(), "arn", nil), "throttled")
}
