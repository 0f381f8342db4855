package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"telecom-support-be/internal/dto"
	"telecom-support-be/internal/entity"
	"telecom-support-be/internal/repository/memory"
	ws "telecom-support-be/internal/websocket"
	"telecom-support-be/pkg/escalation"
	"telecom-support-be/pkg/llm"
)

type broadcastRecord struct {
	RoomId  string
	Role    string
	Message string
}

// fakeNotifier records fan-out calls instead of touching a hub.
type fakeNotifier struct {
	mu         sync.Mutex
	broadcasts []broadcastRecord
	typing     []bool
	escalated  []*dto.EscalationRecordedMessage
	joined     []*dto.AgentJoinedPayload
	closed     []*dto.SessionClosedPayload
}

func (f *fakeNotifier) NotifyEscalation(msg *dto.EscalationRecordedMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.escalated = append(f.escalated, msg)
}

func (f *fakeNotifier) NotifyAgentJoined(payload *dto.AgentJoinedPayload) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joined = append(f.joined, payload)
}

func (f *fakeNotifier) NotifySessionClosed(payload *dto.SessionClosedPayload) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, payload)
}

func (f *fakeNotifier) ReplayPending(ctx context.Context, client *ws.Client) {}

func (f *fakeNotifier) BroadcastMessage(roomId, role, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broadcasts = append(f.broadcasts, broadcastRecord{roomId, role, message})
}

func (f *fakeNotifier) Typing(roomId string, typing bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typing = append(f.typing, typing)
}

func (f *fakeNotifier) allBroadcasts() []broadcastRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]broadcastRecord, len(f.broadcasts))
	copy(out, f.broadcasts)
	return out
}

type stubScorer struct {
	score llm.Score
	err   error
}

func (s stubScorer) Score(ctx context.Context, message string) (llm.Score, error) {
	return s.score, s.err
}

type stubProvider struct {
	response string
	err      error
}

func (s stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.response, s.err
}

func (s stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.response, s.err
}

type chatFixture struct {
	chat     IChatService
	svc      IEscalationService
	notifier *fakeNotifier
}

func newChatFixture(scorer llm.ConfidenceScorer, provider llm.LLMProvider) *chatFixture {
	factory := memory.NewRepositoryFactory()
	svc := NewEscalationService(factory, &capturePublisher{}, nopLogger{})
	notifier := &fakeNotifier{}
	engine := escalation.NewEngine(nopLogger{})
	counters := memory.NewSessionCounters()
	chat := NewChatService(svc, notifier, engine, scorer, provider, counters, 0.8, nopLogger{})
	return &chatFixture{chat: chat, svc: svc, notifier: notifier}
}

func TestHandleUserMessageResponds(t *testing.T) {
	fx := newChatFixture(
		stubScorer{score: llm.Score{Confidence: 0.9}},
		stubProvider{response: "Your remaining quota is 2 GB."},
	)

	err := fx.chat.HandleUserMessage(context.Background(), "room-1", "u1", "Alice", "how much quota do I have left")
	assert.NoError(t, err)

	broadcasts := fx.notifier.allBroadcasts()
	assert.Len(t, broadcasts, 2)
	assert.Equal(t, broadcastRecord{"room-1", "user", "how much quota do I have left"}, broadcasts[0])
	assert.Equal(t, broadcastRecord{"room-1", "ai", "Your remaining quota is 2 GB."}, broadcasts[1])
	assert.Equal(t, []bool{true, false}, fx.notifier.typing)

	session, err := fx.svc.GetSessionByRoom(context.Background(), "room-1")
	assert.NoError(t, err)
	assert.Equal(t, entity.SessionStatusActive, session.Status)
}

func TestHandleUserMessageEscalatesOnExplicitRequest(t *testing.T) {
	fx := newChatFixture(
		stubScorer{score: llm.Score{Confidence: 0.9}},
		stubProvider{response: "should not be sent"},
	)

	err := fx.chat.HandleUserMessage(context.Background(), "room-1", "u1", "Alice", "I want to speak to manager now")
	assert.NoError(t, err)

	// Only the user message is echoed; the escalation notice goes out
	// through the consumer, not the chat path.
	broadcasts := fx.notifier.allBroadcasts()
	assert.Len(t, broadcasts, 1)
	assert.Equal(t, "user", broadcasts[0].Role)

	session, err := fx.svc.GetSessionByRoom(context.Background(), "room-1")
	assert.NoError(t, err)
	assert.Equal(t, entity.SessionStatusEscalated, session.Status)

	history, err := fx.svc.SessionEscalations(context.Background(), session.Id)
	assert.NoError(t, err)
	assert.Len(t, history, 1)
	assert.Equal(t, string(entity.EscalationStatusPending), history[0].Status)
}

func TestHandleUserMessageEscalatesOnLowConfidence(t *testing.T) {
	fx := newChatFixture(
		stubScorer{score: llm.Score{Confidence: 0.3}},
		stubProvider{response: "unused"},
	)

	err := fx.chat.HandleUserMessage(context.Background(), "room-1", "u1", "Alice", "something about my plan")
	assert.NoError(t, err)

	session, err := fx.svc.GetSessionByRoom(context.Background(), "room-1")
	assert.NoError(t, err)
	assert.Equal(t, entity.SessionStatusEscalated, session.Status)
}

func TestHandleUserMessageScorerFailureUsesDefault(t *testing.T) {
	// Default confidence is 0.8, above both thresholds, so the flow must
	// fall through to generation.
	fx := newChatFixture(
		stubScorer{err: errors.New("scoring backend down")},
		stubProvider{response: "Here is your answer."},
	)

	err := fx.chat.HandleUserMessage(context.Background(), "room-1", "u1", "Alice", "what plans do you offer")
	assert.NoError(t, err)

	broadcasts := fx.notifier.allBroadcasts()
	assert.Len(t, broadcasts, 2)
	assert.Equal(t, "ai", broadcasts[1].Role)

	session, err := fx.svc.GetSessionByRoom(context.Background(), "room-1")
	assert.NoError(t, err)
	assert.Equal(t, entity.SessionStatusActive, session.Status)
}

func TestHandleUserMessageProviderFailureApologizes(t *testing.T) {
	fx := newChatFixture(
		stubScorer{score: llm.Score{Confidence: 0.9}},
		stubProvider{err: errors.New("generation backend down")},
	)

	err := fx.chat.HandleUserMessage(context.Background(), "room-1", "u1", "Alice", "hello")
	assert.NoError(t, err)

	broadcasts := fx.notifier.allBroadcasts()
	assert.Len(t, broadcasts, 2)
	assert.Equal(t, broadcastRecord{"room-1", "ai", fallbackApology}, broadcasts[1])
	assert.Equal(t, []bool{true, false}, fx.notifier.typing)
}

func TestHandleUserMessageRepeatedFallbacksEscalate(t *testing.T) {
	fx := newChatFixture(
		stubScorer{score: llm.Score{Confidence: 0.9}},
		stubProvider{err: errors.New("generation backend down")},
	)

	// Three failed generations accumulate fallbacks; the fourth message
	// sees fallbackCount >= 3 and escalates instead of retrying.
	for i := 0; i < 3; i++ {
		assert.NoError(t, fx.chat.HandleUserMessage(context.Background(), "room-1", "u1", "Alice", "hello again"))
	}
	assert.NoError(t, fx.chat.HandleUserMessage(context.Background(), "room-1", "u1", "Alice", "hello again"))

	session, err := fx.svc.GetSessionByRoom(context.Background(), "room-1")
	assert.NoError(t, err)
	assert.Equal(t, entity.SessionStatusEscalated, session.Status)
}

func TestHandleUserMessageEscalatedSessionStaysQuiet(t *testing.T) {
	fx := newChatFixture(
		stubScorer{score: llm.Score{Confidence: 0.9}},
		stubProvider{response: "should not be sent"},
	)

	assert.NoError(t, fx.chat.HandleUserMessage(context.Background(), "room-1", "u1", "Alice", "connect me to a human agent"))
	assert.NoError(t, fx.chat.HandleUserMessage(context.Background(), "room-1", "u1", "Alice", "are you still there"))

	// Both user messages are echoed but no automated response follows
	// either of them.
	for _, b := range fx.notifier.allBroadcasts() {
		assert.Equal(t, "user", b.Role)
	}
	assert.Empty(t, fx.notifier.typing)
}
