package service

import (
	"context"
	"encoding/json"

	"ai-tarot-be/internal/dto"
	"ai-tarot-be/internal/entity"
	"ai-tarot-be/internal/pkg/logger"
	"ai-tarot-be/internal/repository/contract"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the archive topic and writes settled readings to
// history, off the request path.
type consumerService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	readingRepo contract.ReadingRepository
	log         logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	readingRepo contract.ReadingRepository,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:      pubSub,
		topicName:   topicName,
		readingRepo: readingRepo,
		log:         log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ArchiveReadingMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer", "Failed to unmarshal archive message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	r := payload.Reading
	record := &entity.Reading{
		Id:               r.ID,
		Spread:           r.Spread,
		Cards:            r.Cards,
		Focus:            r.Question.Focus,
		Question:         r.Question.Question,
		State:            r.State,
		Fingerprint:      r.Fingerprint,
		Interpretation:   r.Interpretation,
		PartialKnowledge: r.PartialKnowledge,
		FailureNote:      r.FailureNote,
		Model:            r.Model,
		Provider:         r.Provider,
		CreatedAt:        r.CreatedAt,
	}

	if err := cs.readingRepo.Create(ctx, record); err != nil {
		cs.log.Error("consumer", "Failed to archive reading", map[string]interface{}{
			"reading_id": r.ID.String(),
			"error":      err.Error(),
		})
		msg.Nack() // Nack for retriable errors
		return
	}

	cs.log.Info("consumer", "Reading archived", map[string]interface{}{
		"reading_id": r.ID.String(),
		"state":      string(r.State),
	})
	msg.Ack()
}
