package dto

// DashboardStats is the admin overview of session and escalation load.
type DashboardStats struct {
	Sessions             map[string]int       `json:"sessions"`
	Escalations          map[string]int       `json:"escalations"`
	EscalationPriorities map[string]int       `json:"escalation_priorities"`
	RecentPending        []EscalationResponse `json:"recent_pending"`
	AvgHandleSeconds     float64              `json:"avg_handle_seconds"`
}
