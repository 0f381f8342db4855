package escalation

import (
	"encoding/json"
	"strings"
	"testing"
)

func containsReason(reasons []string, substr string) bool {
	for _, r := range reasons {
		if strings.Contains(r, substr) {
			return true
		}
	}
	return false
}

func TestEvaluateHumanAssistanceRequest(t *testing.T) {
	e := NewEngine(nil)

	tests := []string{
		"I want to speak to manager right now",
		"let me talk to a human agent please",
		"SPEAK TO MANAGER",
	}

	for _, msg := range tests {
		t.Run(msg, func(t *testing.T) {
			d := e.Evaluate(Input{Message: msg, Confidence: 0.9})
			if !d.ShouldEscalate {
				t.Fatalf("ShouldEscalate = false, want true for %q", msg)
			}
			if !containsReason(d.Reasons, "User explicitly requested human assistance") {
				t.Errorf("missing explicit-request reason, got %v", d.Reasons)
			}
		})
	}
}

func TestEvaluateAIPerformance(t *testing.T) {
	e := NewEngine(nil)

	tests := []struct {
		name           string
		confidence     float64
		wantEscalate   bool
		wantCritical   bool
	}{
		{"critical low confidence", 0.35, true, true},
		{"low but not critical", 0.55, true, false},
		{"high confidence", 0.95, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := e.Evaluate(Input{Message: "how do I check my usage", Confidence: tt.confidence})

			perf := d.Analysis.AIPerformance
			if perf.ShouldEscalate != tt.wantEscalate {
				t.Errorf("AIPerformance.ShouldEscalate = %v, want %v", perf.ShouldEscalate, tt.wantEscalate)
			}
			hasCritical := containsReason(perf.Reasons, "Critical low confidence")
			if hasCritical != tt.wantCritical {
				t.Errorf("critical reason present = %v, want %v (reasons %v)", hasCritical, tt.wantCritical, perf.Reasons)
			}
		})
	}
}

func TestEvaluateFallbackCount(t *testing.T) {
	e := NewEngine(nil)

	d := e.Evaluate(Input{Message: "ok", Confidence: 0.9, FallbackCount: 3})
	if !d.Analysis.AIPerformance.ShouldEscalate {
		t.Error("fallback count 3 should escalate AI performance")
	}

	d = e.Evaluate(Input{Message: "ok", Confidence: 0.9, FallbackCount: 2})
	if d.Analysis.AIPerformance.ShouldEscalate {
		t.Error("fallback count 2 should not escalate")
	}
}

func TestTopicSensitivityWinsPriority(t *testing.T) {
	e := NewEngine(nil)

	// Topic tier overrides everything else, even with zero other triggers.
	d := e.Evaluate(Input{Message: "I think there was a data breach on my account", Confidence: 0.9})
	if !d.ShouldEscalate {
		t.Fatal("data breach should escalate")
	}
	if d.Priority != PriorityCritical {
		t.Errorf("Priority = %q, want %q", d.Priority, PriorityCritical)
	}

	// Highest tier wins when multiple topics match.
	d = e.Evaluate(Input{Message: "refund request after the service outage and billing dispute", Confidence: 0.9})
	if d.Priority != PriorityCritical {
		t.Errorf("Priority = %q, want %q (highest among matched tiers)", d.Priority, PriorityCritical)
	}

	d = e.Evaluate(Input{Message: "refund request after the service outage", Confidence: 0.9})
	if d.Priority != PriorityHigh {
		t.Errorf("Priority = %q, want %q", d.Priority, PriorityHigh)
	}
}

func TestTriggerCountPriority(t *testing.T) {
	e := NewEngine(nil)

	tests := []struct {
		name string
		in   Input
		want Priority
	}{
		{
			// AI performance + user behavior, no topic, no sentiment.
			name: "two triggers is medium",
			in:   Input{Message: "why is my internet slow", Confidence: 0.5, MessageCount: 12},
			want: PriorityMedium,
		},
		{
			// AI performance + user behavior + sentiment.
			name: "three triggers is high",
			in:   Input{Message: "this is useless, nothing works", Confidence: 0.5, MessageCount: 12},
			want: PriorityHigh,
		},
		{
			name: "one trigger is low",
			in:   Input{Message: "why is my internet slow", Confidence: 0.5},
			want: PriorityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := e.Evaluate(tt.in)
			if d.Analysis.TopicSensitivity.ShouldEscalate {
				t.Fatalf("test setup error: topic category escalated for %q", tt.in.Message)
			}
			if !d.ShouldEscalate {
				t.Fatal("expected escalation")
			}
			if d.Priority != tt.want {
				t.Errorf("Priority = %q, want %q", d.Priority, tt.want)
			}
		})
	}
}

func TestUserBehaviorThresholds(t *testing.T) {
	e := NewEngine(nil)

	tests := []struct {
		name string
		in   Input
		want bool
	}{
		{"long conversation", Input{Message: "hi", Confidence: 0.9, MessageCount: 10}, true},
		{"short conversation", Input{Message: "hi", Confidence: 0.9, MessageCount: 9}, false},
		{"long session", Input{Message: "hi", Confidence: 0.9, SessionDurationSeconds: 1800}, true},
		{"short session", Input{Message: "hi", Confidence: 0.9, SessionDurationSeconds: 1799}, false},
		{
			"repeated words",
			Input{Message: "internet broken internet broken internet broken please", Confidence: 0.9},
			true,
		},
		{
			// Repetition check only applies to messages longer than 5 words.
			"short repeated message",
			Input{Message: "internet internet internet", Confidence: 0.9},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := e.Evaluate(tt.in)
			if d.Analysis.UserBehavior.ShouldEscalate != tt.want {
				t.Errorf("UserBehavior.ShouldEscalate = %v, want %v", d.Analysis.UserBehavior.ShouldEscalate, tt.want)
			}
		})
	}
}

func TestSentimentSignals(t *testing.T) {
	e := NewEngine(nil)

	d := e.Evaluate(Input{Message: "I am extremely frustrated with this awful service", Confidence: 0.9})
	sent := d.Analysis.SentimentSignals
	if !sent.ShouldEscalate {
		t.Fatal("frustration keywords should escalate")
	}
	// frustrated + awful (x2 each) + extremely (x1)
	if sent.SentimentScore != 5 {
		t.Errorf("SentimentScore = %d, want 5", sent.SentimentScore)
	}

	// Intensity alone is not sufficient.
	d = e.Evaluate(Input{Message: "this is absolutely the best plan", Confidence: 0.9})
	if d.Analysis.SentimentSignals.ShouldEscalate {
		t.Error("intensity words alone should not escalate")
	}
	if d.Analysis.SentimentSignals.SentimentScore == 0 {
		t.Error("intensity words should still accumulate score")
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	e := NewEngine(nil)
	in := Input{
		Message:                "I am frustrated, I want a refund request and a human agent",
		Confidence:             0.45,
		MessageCount:           7,
		SessionDurationSeconds: 900,
	}

	first, err := json.Marshal(e.Evaluate(in))
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(e.Evaluate(in))
	if err != nil {
		t.Fatal(err)
	}

	if string(first) != string(second) {
		t.Errorf("Evaluate is not byte-identical across calls:\n%s\n%s", first, second)
	}
}

func TestReasonsFollowCategoryOrder(t *testing.T) {
	e := NewEngine(nil)

	// Trip AI performance, user behavior, topic and sentiment at once.
	d := e.Evaluate(Input{
		Message:      "I am angry about this billing dispute, get me a human agent",
		Confidence:   0.3,
		MessageCount: 15,
	})

	var idxConfidence, idxBehavior, idxTopic, idxSentiment = -1, -1, -1, -1
	for i, r := range d.Reasons {
		switch {
		case strings.HasPrefix(r, "Low confidence") && idxConfidence == -1:
			idxConfidence = i
		case strings.HasPrefix(r, "Long conversation"):
			idxBehavior = i
		case strings.HasPrefix(r, "Critical telecom topic"):
			idxTopic = i
		case strings.HasPrefix(r, "Frustration detected") && idxSentiment == -1:
			idxSentiment = i
		}
	}

	if !(idxConfidence < idxBehavior && idxBehavior < idxTopic && idxTopic < idxSentiment) {
		t.Errorf("reasons out of category order: %v", d.Reasons)
	}
	if idxConfidence == -1 || idxBehavior == -1 || idxTopic == -1 || idxSentiment == -1 {
		t.Errorf("missing expected reasons: %v", d.Reasons)
	}
}

func TestDecisionReason(t *testing.T) {
	d := Decision{Reasons: []string{"a", "b"}}
	if d.Reason() != "a; b" {
		t.Errorf("Reason() = %q", d.Reason())
	}
	if (Decision{}).Reason() != "Multiple triggers detected" {
		t.Errorf("empty Reason() = %q", (Decision{}).Reason())
	}
}
