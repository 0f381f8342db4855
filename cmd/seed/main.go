package main

import (
	"log"
	"os"

	"telecom-support-be/internal/model"
	"telecom-support-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding Support Agents...")

	agents := []model.Agent{
		{AgentId: "agent-ani", Name: "Ani Wijaya", IsAvailable: true},
		{AgentId: "agent-budi", Name: "Budi Santoso", IsAvailable: true},
		{AgentId: "agent-citra", Name: "Citra Lestari", IsAvailable: false},
	}

	for _, a := range agents {
		var existing model.Agent
		if err := db.Where("agent_id = ?", a.AgentId).First(&existing).Error; err == nil {
			log.Printf("Agent '%s' already exists, skipping...", a.AgentId)
			continue
		}

		if err := db.Create(&a).Error; err != nil {
			log.Printf("Error creating agent '%s': %v", a.AgentId, err)
		} else {
			log.Printf("Created agent: %s (%s)", a.Name, a.AgentId)
		}
	}

	log.Println("Agent seeding completed!")
}
