package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"telecom-support-be/internal/dto"
	"telecom-support-be/internal/pkg/mailer"
	"telecom-support-be/pkg/escalation"
	"telecom-support-be/pkg/events"
	pkgNats "telecom-support-be/pkg/nats"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the in-process bus sequentially, which
// preserves per-session event order end to end: websocket fan-out, NATS
// mirroring and supervisor alerts all happen here.
type consumerService struct {
	pubSub              *gochannel.GoChannel
	topicName           string
	notificationService INotificationService
	eventPublisher      *pkgNats.Publisher
	emailService        mailer.IEmailService
	supervisorEmail     string
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	notificationService INotificationService,
	eventPublisher *pkgNats.Publisher,
	emailService mailer.IEmailService,
	supervisorEmail string,
) IConsumerService {
	return &consumerService{
		pubSub:              pubSub,
		topicName:           topicName,
		notificationService: notificationService,
		eventPublisher:      eventPublisher,
		emailService:        emailService,
		supervisorEmail:     supervisorEmail,
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
	var event dto.SupportEventMessage
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		log.Printf("[ERROR] Failed to unmarshal bus event: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	switch event.Kind {
	case dto.SupportEventEscalationRecorded:
		if event.Escalation != nil {
			cs.handleEscalation(ctx, event.Escalation)
		}
	case dto.SupportEventAgentJoined:
		if event.AgentJoined != nil {
			cs.notificationService.NotifyAgentJoined(event.AgentJoined)
			cs.mirror(ctx, events.NewEscalationAssigned(map[string]interface{}{
				"room_id":  event.AgentJoined.RoomId,
				"agent_id": event.AgentJoined.AgentId,
			}))
		}
	case dto.SupportEventSessionClosed:
		if event.SessionClosed != nil {
			cs.notificationService.NotifySessionClosed(event.SessionClosed)
			cs.mirror(ctx, events.NewSessionClosed(map[string]interface{}{
				"room_id":  event.SessionClosed.RoomId,
				"agent_id": event.SessionClosed.AgentId,
				"reason":   event.SessionClosed.Reason,
			}))
		}
	default:
		log.Printf("[WARN] Unknown bus event kind: %s", event.Kind)
	}

	msg.Ack()
}

func (cs *consumerService) handleEscalation(ctx context.Context, esc *dto.EscalationRecordedMessage) {
	cs.notificationService.NotifyEscalation(esc)

	cs.mirror(ctx, events.NewEscalationTriggered(map[string]interface{}{
		"escalation_id": esc.EscalationId,
		"session_id":    esc.SessionId,
		"room_id":       esc.RoomId,
		"priority":      esc.Priority,
		"reason":        esc.Reason,
	}))

	if escalation.Priority(esc.Priority) == escalation.PriorityCritical && cs.emailService != nil && cs.supervisorEmail != "" {
		if err := cs.emailService.SendEscalationAlert(cs.supervisorEmail, esc); err != nil {
			log.Printf("[ERROR] Failed to send supervisor alert for escalation %s: %v", esc.EscalationId, err)
		}
	}
}

// mirror forwards an event to NATS for external consumers. Auxiliary;
// errors are logged only.
func (cs *consumerService) mirror(ctx context.Context, evt events.BaseEvent) {
	if cs.eventPublisher == nil {
		return
	}
	if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
		log.Printf("[WARN] Failed to mirror %s event to NATS: %v", evt.EventType(), err)
	}
}
