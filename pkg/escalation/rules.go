package escalation

// Rule thresholds and keyword lists for telecom customer support.
// These lists are part of the escalation contract: dashboards and tests
// depend on the exact phrases, so changes here are breaking changes.

const (
	// AI Performance
	confidenceThreshold       = 0.6
	criticalConfidenceLevel   = 0.4
	repeatedFallbackThreshold = 3

	// User Behavior
	messageCountThreshold    = 10
	sessionDurationThreshold = 1800 // seconds (30 minutes)

	// Sentiment scoring weights
	frustrationWeight = 2
	escalationWeight  = 3
	intensityWeight   = 1
)

// criticalTelecomTopics are matched as case-insensitive substrings.
var criticalTelecomTopics = []string{
	"billing dispute", "service outage", "data breach", "privacy concern",
	"contract termination", "plan cancellation", "refund request",
	"legal action", "regulatory complaint", "fraud report",
	"account suspension", "credit dispute", "payment failure",
}

// topicTiers maps each critical topic to its priority tier.
// Topics not listed here default to PriorityLow.
var topicTiers = map[string]Priority{
	"billing dispute":      PriorityCritical,
	"data breach":          PriorityCritical,
	"fraud report":         PriorityCritical,
	"legal action":         PriorityCritical,
	"service outage":       PriorityHigh,
	"plan cancellation":    PriorityHigh,
	"account suspension":   PriorityHigh,
	"refund request":       PriorityMedium,
	"payment failure":      PriorityMedium,
	"contract termination": PriorityMedium,
}

var frustrationKeywords = []string{
	"angry", "frustrated", "annoyed", "upset", "mad", "terrible",
	"awful", "horrible", "useless", "waste", "disappointed",
	"furious", "livid", "irritated", "bothered", "fed up",
}

var escalationPhrases = []string{
	"speak to manager", "speak to supervisor", "human agent",
	"real person", "customer service", "complaint department",
	"cancel my plan", "switch provider", "file complaint",
}

var negativeIntensityWords = []string{
	"extremely", "completely", "totally", "absolutely", "never",
	"always", "worst", "best", "perfect", "disaster",
}
