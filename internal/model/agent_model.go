package model

type Agent struct {
	AgentId     string `gorm:"type:varchar(100);primaryKey"`
	Name        string `gorm:"type:varchar(200);not null"`
	IsAvailable bool   `gorm:"not null;default:false;index"`
}

func (Agent) TableName() string {
	return "agents"
}
