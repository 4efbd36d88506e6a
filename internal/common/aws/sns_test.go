package aws

import (
	"context"
	"errors"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakeSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: awssdk.String("msg-1")}, nil
}

func TestAlertPublisher_Publish(t *testing.T) {
	api := &fakeSNS{}
	p := NewAlertPublisherWithAPI(api, "arn:aws:sns:eu-west-1:123456789012:urgent-wounds")

	id, err := p.Publish(context.Background(), Alert{
		Subject:    "Urgent wound assessment",
		Body:       `{"score":32}`,
		GroupID:    "w-1",
		Attributes: map[string]string{"urgency": "HIGH", "prognosis": "CRITICAL"},
	})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)

	require.Len(t, api.inputs, 1)
	in := api.inputs[0]
	assert.Equal(t, "arn:aws:sns:eu-west-1:123456789012:urgent-wounds", awssdk.ToString(in.TopicArn))
	assert.Equal(t, `{"score":32}`, awssdk.ToString(in.Message))
	assert.Nil(t, in.MessageGroupId, "group id is only sent to FIFO topics")
	assert.Nil(t, in.MessageDeduplicationId)
	assert.Equal(t, "HIGH", awssdk.ToString(in.MessageAttributes["urgency"].StringValue))
	assert.Equal(t, "String", awssdk.ToString(in.MessageAttributes["prognosis"].DataType))
}

func TestAlertPublisher_FIFOGroup(t *testing.T) {
	api := &fakeSNS{}
	p := NewAlertPublisherWithAPI(api, "arn:aws:sns:eu-west-1:123456789012:urgent-wounds.fifo")

	_, err := p.Publish(context.Background(), Alert{Subject: "s", Body: "b", GroupID: "w-7", DeduplicationID: "alert-7"})
	require.NoError(t, err)
	assert.Equal(t, "w-7", awssdk.ToString(api.inputs[0].MessageGroupId))
	assert.Equal(t, "alert-7", awssdk.ToString(api.inputs[0].MessageDeduplicationId))
}

func TestAlertPublisher_FIFODefaults(t *testing.T) {
	api := &fakeSNS{}
	p := NewAlertPublisherWithAPI(api, "arn:aws:sns:eu-west-1:123456789012:urgent-wounds.fifo")

	_, err := p.Publish(context.Background(), Alert{Subject: "s", Body: "b"})
	require.NoError(t, err)
	_, err = p.Publish(context.Background(), Alert{Subject: "s", Body: "b"})
	require.NoError(t, err)

	require.Len(t, api.inputs, 2)
	first := api.inputs[0]
	assert.Equal(t, DefaultGroupID, awssdk.ToString(first.MessageGroupId))
	require.NotNil(t, first.MessageDeduplicationId)
	assert.Len(t, awssdk.ToString(first.MessageDeduplicationId), 64)
	assert.Equal(t, awssdk.ToString(first.MessageDeduplicationId), awssdk.ToString(api.inputs[1].MessageDeduplicationId))
}

func TestAlertPublisher_Error(t *testing.T) {
	api := &fakeSNS{err: errors.New("Throttling")}
	p := NewAlertPublisherWithAPI(api, "arn:topic")

	_, err := p.Publish(context.Background(), Alert{Subject: "s", Body: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Throttling")
}
