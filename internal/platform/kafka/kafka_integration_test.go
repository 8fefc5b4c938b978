//go:build integration

package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"intake/internal/platform/config"
	id "intake/pkg/domain"
	"intake/pkg/platform/audit"
	kafkasink "intake/pkg/platform/audit/sink/kafka"
	"intake/pkg/testutil/containers"
)

type KafkaSuite struct {
	suite.Suite
	broker *containers.KafkaContainer
}

func TestKafkaSuite(t *testing.T) {
	suite.Run(t, new(KafkaSuite))
}

func (s *KafkaSuite) SetupSuite() {
	s.broker = containers.NewKafkaContainer(s.T())
}

func (s *KafkaSuite) TestNewWithoutBrokers() {
	client, err := New(config.KafkaConfig{})
	s.Require().NoError(err)
	s.Nil(client)
}

func (s *KafkaSuite) TestEnsureTopicIsIdempotent() {
	ctx := context.Background()
	cfg := config.KafkaConfig{Brokers: []string{s.broker.Broker}, AuditTopic: "intake.audit.ensure", Partitions: 1}
	client, err := New(cfg)
	s.Require().NoError(err)
	defer client.Close()

	s.Require().NoError(EnsureTopic(ctx, client, cfg.AuditTopic, cfg.Partitions))
	s.Require().NoError(EnsureTopic(ctx, client, cfg.AuditTopic, cfg.Partitions))
}

func (s *KafkaSuite) TestAuditSinkRoundTrip() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	topic := "intake.audit.sink"
	producer, err := New(config.KafkaConfig{Brokers: []string{s.broker.Broker}, AuditTopic: topic, Partitions: 1})
	s.Require().NoError(err)
	defer producer.Close()
	s.Require().NoError(EnsureTopic(ctx, producer, topic, 1))

	appID := id.ApplicationID(uuid.New())
	event := audit.Event{
		Category:      audit.CategoryCompliance,
		ApplicationID: appID,
		Action:        string(audit.EventPaymentSaved),
		Subject:       "payment",
	}
	s.Require().NoError(kafkasink.New(producer, topic).Publish(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.broker.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	s.Require().Empty(fetches.Errors())
	records := fetches.Records()
	s.Require().Len(records, 1)
	s.Equal(appID.String(), string(records[0].Key))

	var decoded audit.Event
	s.Require().NoError(json.Unmarshal(records[0].Value, &decoded))
	s.Equal(event.Action, decoded.Action)
	s.Equal(appID, decoded.ApplicationID)
}
