package escalation

import (
	"fmt"
	"strings"

	"telecom-support-be/internal/pkg/logger"
)

// Engine evaluates whether a single inbound message warrants human handoff.
// Evaluation is pure: identical inputs always yield identical output.
type Engine struct {
	logger logger.ILogger
}

func NewEngine(log logger.ILogger) *Engine {
	return &Engine{logger: log}
}

// Evaluate runs all four categories and combines them into one Decision.
// A category that fails to evaluate is isolated: it contributes a
// non-escalating empty result and the other three still run.
func (e *Engine) Evaluate(in Input) Decision {
	analysis := Analysis{}

	e.guard("ai_performance", func() {
		analysis.AIPerformance = checkAIPerformance(in)
	})
	e.guard("user_behavior", func() {
		analysis.UserBehavior = checkUserBehavior(in)
	})
	e.guard("topic_sensitivity", func() {
		analysis.TopicSensitivity = checkTopicSensitivity(in.Message)
	})
	e.guard("sentiment_signals", func() {
		analysis.SentimentSignals = checkSentimentSignals(in.Message)
	})

	shouldEscalate := analysis.AIPerformance.ShouldEscalate ||
		analysis.UserBehavior.ShouldEscalate ||
		analysis.TopicSensitivity.ShouldEscalate ||
		analysis.SentimentSignals.ShouldEscalate

	// Reasons are concatenated in fixed category order so the output is
	// deterministic and stable for dashboards.
	var reasons []string
	for _, c := range []CategoryResult{
		analysis.AIPerformance.CategoryResult,
		analysis.UserBehavior.CategoryResult,
		analysis.TopicSensitivity.CategoryResult,
		analysis.SentimentSignals.CategoryResult,
	} {
		if c.ShouldEscalate {
			reasons = append(reasons, c.Reasons...)
		}
	}

	return Decision{
		ShouldEscalate:  shouldEscalate,
		Priority:        resolvePriority(analysis),
		Reasons:         reasons,
		Analysis:        analysis,
		Confidence:      in.Confidence,
		MessageCount:    in.MessageCount,
		SessionDuration: in.SessionDurationSeconds,
	}
}

// guard isolates a single category evaluation. A panicking category must
// not abort the other three; the fault is logged and the category keeps
// its zero (non-escalating) result.
func (e *Engine) guard(category string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if e.logger != nil {
				e.logger.Error("EscalationEngine", "Category evaluation failed", map[string]interface{}{
					"category": category,
					"error":    fmt.Sprintf("%v", r),
				})
			}
		}
	}()
	fn()
}

// resolvePriority picks the final priority. Topic sensitivity always wins:
// if it escalates, its tier is the final answer. Otherwise the number of
// escalating categories decides.
func resolvePriority(a Analysis) Priority {
	if a.TopicSensitivity.ShouldEscalate {
		return a.TopicSensitivity.Priority
	}

	triggers := 0
	for _, hit := range []bool{
		a.AIPerformance.ShouldEscalate,
		a.UserBehavior.ShouldEscalate,
		a.SentimentSignals.ShouldEscalate,
	} {
		if hit {
			triggers++
		}
	}

	switch {
	case triggers >= 3:
		return PriorityHigh
	case triggers == 2:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Category 1: AI Performance.
func checkAIPerformance(in Input) AIPerformanceResult {
	res := AIPerformanceResult{
		Confidence:    in.Confidence,
		FallbackCount: in.FallbackCount,
	}

	if in.Confidence < confidenceThreshold {
		res.Reasons = append(res.Reasons,
			fmt.Sprintf("Low confidence (%.2f < %.2f)", in.Confidence, confidenceThreshold))
		res.ShouldEscalate = true
	}

	if in.Confidence < criticalConfidenceLevel {
		res.Reasons = append(res.Reasons,
			fmt.Sprintf("Critical low confidence (%.2f < %.2f)", in.Confidence, criticalConfidenceLevel))
		res.ShouldEscalate = true
	}

	if in.FallbackCount >= repeatedFallbackThreshold {
		res.Reasons = append(res.Reasons,
			fmt.Sprintf("Repeated fallback responses (%d times)", in.FallbackCount))
		res.ShouldEscalate = true
	}

	return res
}

// Category 2: User Behavior.
func checkUserBehavior(in Input) UserBehaviorResult {
	res := UserBehaviorResult{
		MessageCount:    in.MessageCount,
		SessionDuration: in.SessionDurationSeconds,
	}

	if in.MessageCount >= messageCountThreshold {
		res.Reasons = append(res.Reasons,
			fmt.Sprintf("Long conversation (%d messages)", in.MessageCount))
		res.ShouldEscalate = true
	}

	if in.SessionDurationSeconds >= sessionDurationThreshold {
		res.Reasons = append(res.Reasons,
			fmt.Sprintf("Extended session duration (%d minutes)", in.SessionDurationSeconds/60))
		res.ShouldEscalate = true
	}

	if detectRepeatedQueries(in.Message) {
		res.RepeatedQueries = true
		res.Reasons = append(res.Reasons, "Repeated query pattern detected")
		res.ShouldEscalate = true
	}

	lower := strings.ToLower(in.Message)
	for _, phrase := range escalationPhrases {
		if strings.Contains(lower, phrase) {
			res.Reasons = append(res.Reasons, "User explicitly requested human assistance")
			res.ShouldEscalate = true
			break
		}
	}

	return res
}

// Category 3: Topic Sensitivity.
func checkTopicSensitivity(message string) TopicSensitivityResult {
	res := TopicSensitivityResult{Priority: PriorityLow}
	lower := strings.ToLower(message)

	for _, topic := range criticalTelecomTopics {
		if strings.Contains(lower, topic) {
			res.FoundTopics = append(res.FoundTopics, topic)
			res.ShouldEscalate = true

			if tier, ok := topicTiers[topic]; ok {
				res.Priority = res.Priority.Max(tier)
			}
		}
	}

	if len(res.FoundTopics) > 0 {
		res.Reasons = append(res.Reasons,
			"Critical telecom topic: "+strings.Join(res.FoundTopics, ", "))
	}

	return res
}

// Category 4: Sentiment Signals.
func checkSentimentSignals(message string) SentimentResult {
	res := SentimentResult{}
	lower := strings.ToLower(message)

	for _, kw := range frustrationKeywords {
		if strings.Contains(lower, kw) {
			res.FrustrationKeywords = append(res.FrustrationKeywords, kw)
		}
	}
	if len(res.FrustrationKeywords) > 0 {
		res.Reasons = append(res.Reasons,
			"Frustration detected: "+strings.Join(res.FrustrationKeywords, ", "))
		res.ShouldEscalate = true
		res.SentimentScore += len(res.FrustrationKeywords) * frustrationWeight
	}

	for _, phrase := range escalationPhrases {
		if strings.Contains(lower, phrase) {
			res.EscalationPhrases = append(res.EscalationPhrases, phrase)
		}
	}
	if len(res.EscalationPhrases) > 0 {
		res.Reasons = append(res.Reasons,
			"Escalation request: "+strings.Join(res.EscalationPhrases, ", "))
		res.ShouldEscalate = true
		res.SentimentScore += len(res.EscalationPhrases) * escalationWeight
	}

	for _, word := range negativeIntensityWords {
		if strings.Contains(lower, word) {
			res.IntensityWords = append(res.IntensityWords, word)
		}
	}
	if len(res.IntensityWords) > 0 {
		res.Reasons = append(res.Reasons,
			"High emotional intensity: "+strings.Join(res.IntensityWords, ", "))
		res.SentimentScore += len(res.IntensityWords) * intensityWeight
	}

	// Repeated negative language within one message.
	repeated := 0
	for _, kw := range frustrationKeywords {
		if strings.Count(lower, kw) > 1 {
			repeated++
		}
	}
	if repeated > 0 {
		res.Reasons = append(res.Reasons,
			fmt.Sprintf("Repeated negative language (%d instances)", repeated))
		res.ShouldEscalate = true
	}

	return res
}

// detectRepeatedQueries flags intra-message word repetition: any word
// longer than 3 characters appearing more than twice, in messages of
// more than 5 words.
func detectRepeatedQueries(message string) bool {
	words := strings.Fields(strings.ToLower(message))
	if len(words) <= 5 {
		return false
	}

	freq := make(map[string]int)
	for _, w := range words {
		if len(w) > 3 {
			freq[w]++
		}
	}
	for _, count := range freq {
		if count > 2 {
			return true
		}
	}
	return false
}
