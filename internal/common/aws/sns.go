// internal/common/aws/sns.go
package aws

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSAPI is the part of the SNS client used for alerts.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// DefaultGroupID orders alerts on a FIFO topic when the alert names no group.
const DefaultGroupID = "urgent-assessments"

// Alert is one message for the urgent assessment topic. GroupID and
// DeduplicationID only apply to FIFO topics.
type Alert struct {
	Subject         string
	Body            string
	GroupID         string
	DeduplicationID string
	Attributes      map[string]string
}

// AlertPublisher publishes alerts to a single SNS topic.
type AlertPublisher struct {
	api      SNSAPI
	topicARN string
}

// NewAlertPublisher loads the default AWS credential chain for region.
func NewAlertPublisher(ctx context.Context, region, topicARN string) (*AlertPublisher, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewAlertPublisherWithAPI(sns.NewFromConfig(cfg), topicARN), nil
}

func NewAlertPublisherWithAPI(api SNSAPI, topicARN string) *AlertPublisher {
	return &AlertPublisher{api: api, topicARN: topicARN}
}

func (p *AlertPublisher) TopicARN() string {
	return p.topicARN
}

// Publish sends alert and returns the SNS message ID. FIFO topics always get
// a group and a deduplication ID; the body hash stands in when the alert has
// no deduplication ID.
func (p *AlertPublisher) Publish(ctx context.Context, alert Alert) (string, error) {
	input := &sns.PublishInput{
		TopicArn: awssdk.String(p.topicARN),
		Subject:  awssdk.String(alert.Subject),
		Message:  awssdk.String(alert.Body),
	}
	if isFIFO(p.topicARN) {
		group := alert.GroupID
		if group == "" {
			group = DefaultGroupID
		}
		dedup := alert.DeduplicationID
		if dedup == "" {
			sum := sha256.Sum256([]byte(alert.Body))
			dedup = hex.EncodeToString(sum[:])
		}
		input.MessageGroupId = awssdk.String(group)
		input.MessageDeduplicationId = awssdk.String(dedup)
	}
	if len(alert.Attributes) > 0 {
		input.MessageAttributes = make(map[string]types.MessageAttributeValue, len(alert.Attributes))
		keys := make([]string, 0, len(alert.Attributes))
		for k := range alert.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			input.MessageAttributes[k] = types.MessageAttributeValue{
				DataType:    awssdk.String("String"),
				StringValue: awssdk.String(alert.Attributes[k]),
			}
		}
	}

	out, err := p.api.Publish(ctx, input)
	if err != nil {
		return "", fmt.Errorf("sns publish to %s: %w", p.topicARN, err)
	}
	return awssdk.ToString(out.MessageId), nil
}

func isFIFO(topicARN string) bool {
	return len(topicARN) > 5 && topicARN[len(topicARN)-5:] == ".fifo"
}
