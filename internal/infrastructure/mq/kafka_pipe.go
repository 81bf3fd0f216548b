// Package mq 提供直播事件的 Kafka 管道
// eventMode 为 "kafka" 时，客户端事件先写入 Kafka，再由消费循环送回事件中心
package mq

import (
	"context"
	"time"

	myconfig "muse_live_server/internal/config"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type kafkaService struct {
	LiveWriter *kafka.Writer
	LiveReader *kafka.Reader
	KafkaConn  *kafka.Conn
}

var KafkaService = new(kafkaService)

// KafkaInit 初始化 kafka 读写器
func (k *kafkaService) KafkaInit() {
	kafkaConfig := myconfig.GetConfig().KafkaConfig
	k.LiveWriter = &kafka.Writer{
		Addr:                   kafka.TCP(kafkaConfig.HostPort),
		Topic:                  kafkaConfig.LiveTopic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           kafkaConfig.Timeout * time.Second,
		RequiredAcks:           kafka.RequireNone,
		AllowAutoTopicCreation: false,
	}
	k.LiveReader = kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{kafkaConfig.HostPort},
		Topic:          kafkaConfig.LiveTopic,
		CommitInterval: kafkaConfig.Timeout * time.Second,
		GroupID:        "live",
		StartOffset:    kafka.LastOffset,
	})
}

// KafkaClose 关闭读写器
func (k *kafkaService) KafkaClose() {
	if k.LiveWriter != nil {
		if err := k.LiveWriter.Close(); err != nil {
			zap.L().Error(err.Error())
		}
	}
	if k.LiveReader != nil {
		if err := k.LiveReader.Close(); err != nil {
			zap.L().Error(err.Error())
		}
	}
}

// CreateTopic 创建直播事件 topic，已存在时 kafka 返回错误但不影响启动
func (k *kafkaService) CreateTopic() {
	kafkaConfig := myconfig.GetConfig().KafkaConfig

	var err error
	k.KafkaConn, err = kafka.Dial("tcp", kafkaConfig.HostPort)
	if err != nil {
		zap.L().Error(err.Error())
		return
	}

	topicConfigs := []kafka.TopicConfig{
		{
			Topic:             kafkaConfig.LiveTopic,
			NumPartitions:     kafkaConfig.Partition,
			ReplicationFactor: 1,
		},
	}
	if err = k.KafkaConn.CreateTopics(topicConfigs...); err != nil {
		zap.L().Error(err.Error())
	}
}

// WriteEvent 把一帧客户端事件写入 Kafka
// key 为发送者 uuid，保证同一用户的事件落在同一分区内有序
func (k *kafkaService) WriteEvent(ctx context.Context, key, value []byte) error {
	return k.LiveWriter.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
	})
}

// RunConsumer 消费循环，把 Kafka 里的事件帧交给 consume 处理
// 阻塞运行，ctx 取消或 Reader 关闭后返回
func (k *kafkaService) RunConsumer(ctx context.Context, consume func(senderUuid string, frame []byte)) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("kafka consumer panic", zap.Any("recover", r))
		}
	}()

	for {
		kafkaMessage, err := k.LiveReader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			zap.L().Error(err.Error())
			continue
		}
		zap.L().Debug("kafka live event",
			zap.String("topic", kafkaMessage.Topic),
			zap.Int("partition", kafkaMessage.Partition),
			zap.Int64("offset", kafkaMessage.Offset),
			zap.ByteString("key", kafkaMessage.Key))
		consume(string(kafkaMessage.Key), kafkaMessage.Value)
	}
}
