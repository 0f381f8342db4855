package entity

// Agent availability is maintained by an external administrative
// collaborator; this service only reads it for routing.
type Agent struct {
	AgentId     string
	Name        string
	IsAvailable bool
}
