package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"instshop/internal/notification"

	"github.com/segmentio/kafka-go"
)

// KafkaTaskQueue は通知タスクをKafkaトピックへ流す。
type KafkaTaskQueue struct {
	writer *kafka.Writer
}

func NewKafkaTaskQueue(brokers []string, topic string) *KafkaTaskQueue {
	return &KafkaTaskQueue{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
	}
}

func (q *KafkaTaskQueue) Enqueue(ctx context.Context, task notification.Task) error {
	value, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}
	return q.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(task.Kind),
		Value: value,
	})
}

func (q *KafkaTaskQueue) Close() error {
	return q.writer.Close()
}

// KafkaTaskSource はワーカー側。コンシューマグループで読む
type KafkaTaskSource struct {
	reader *kafka.Reader
}

func NewKafkaTaskSource(brokers []string, topic string, groupID string) *KafkaTaskSource {
	return &KafkaTaskSource{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			Topic:   topic,
			GroupID: groupID,
		}),
	}
}

func (s *KafkaTaskSource) Next(ctx context.Context) (notification.Task, error) {
	msg, err := s.reader.ReadMessage(ctx)
	if err != nil {
		return notification.Task{}, err
	}

	var task notification.Task
	if err := json.Unmarshal(msg.Value, &task); err != nil {
		return notification.Task{}, fmt.Errorf("unmarshal task: %w", err)
	}
	return task, nil
}

func (s *KafkaTaskSource) Close() error {
	return s.reader.Close()
}
