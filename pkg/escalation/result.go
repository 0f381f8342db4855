package escalation

// Priority ranks the urgency of human handling.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// rank orders priorities so the highest matched tier can win.
func (p Priority) rank() int {
	switch p {
	case PriorityCritical:
		return 3
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

// Max returns the higher of two priorities.
func (p Priority) Max(other Priority) Priority {
	if other.rank() > p.rank() {
		return other
	}
	return p
}

// Input carries everything a single evaluation needs. All counters are
// supplied by the caller; the engine performs no storage or network access.
type Input struct {
	Message                string
	Confidence             float64
	MessageCount           int
	SessionDurationSeconds int

	// FallbackCount is injected by a message-history collaborator.
	// No such collaborator exists yet, so callers pass 0.
	FallbackCount int
}

// CategoryResult is the verdict shared by all four categories.
type CategoryResult struct {
	ShouldEscalate bool     `json:"should_escalate"`
	Reasons        []string `json:"reasons"`
}

// AIPerformanceResult covers low confidence and repeated fallbacks.
type AIPerformanceResult struct {
	CategoryResult
	Confidence    float64 `json:"confidence"`
	FallbackCount int     `json:"fallback_count"`
}

// UserBehaviorResult covers long threads, long sessions, explicit
// human-help requests and repeated query patterns.
type UserBehaviorResult struct {
	CategoryResult
	MessageCount    int  `json:"message_count"`
	SessionDuration int  `json:"session_duration"`
	RepeatedQueries bool `json:"repeated_queries"`
}

// TopicSensitivityResult covers critical telecom topics.
type TopicSensitivityResult struct {
	CategoryResult
	FoundTopics []string `json:"found_topics"`
	Priority    Priority `json:"priority"`
}

// SentimentResult covers frustration, explicit escalation phrases and
// negative intensity, accumulated into a numeric score.
type SentimentResult struct {
	CategoryResult
	SentimentScore      int      `json:"sentiment_score"`
	FrustrationKeywords []string `json:"frustration_keywords"`
	EscalationPhrases   []string `json:"escalation_phrases"`
	IntensityWords      []string `json:"intensity_words"`
}

// Analysis is the structured snapshot of all four category evaluations.
// It is persisted alongside the escalation record; the state store treats
// it as opaque data.
type Analysis struct {
	AIPerformance    AIPerformanceResult    `json:"ai_performance"`
	UserBehavior     UserBehaviorResult     `json:"user_behavior"`
	TopicSensitivity TopicSensitivityResult `json:"topic_sensitivity"`
	SentimentSignals SentimentResult        `json:"sentiment_signals"`
}

// Decision is the combined verdict over all four categories.
type Decision struct {
	ShouldEscalate bool     `json:"should_escalate"`
	Priority       Priority `json:"priority"`
	Reasons        []string `json:"reasons"`
	Analysis       Analysis `json:"analysis"`

	Confidence      float64 `json:"confidence"`
	MessageCount    int     `json:"message_count"`
	SessionDuration int     `json:"session_duration"`
}

// Reason returns the reasons joined as a single human-readable string,
// matching the persisted escalation record format.
func (d Decision) Reason() string {
	if len(d.Reasons) == 0 {
		return "Multiple triggers detected"
	}
	out := d.Reasons[0]
	for _, r := range d.Reasons[1:] {
		out += "; " + r
	}
	return out
}
