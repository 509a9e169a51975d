// Imports a gym and badge catalog from a JSON file into the database.
//
// Usage: catalog-importer [path]  (defaults to ./data/catalog.json)
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"betabreaker/database"
	"betabreaker/models"
	"betabreaker/services"

	"github.com/joho/godotenv"
	"gorm.io/gorm/clause"
)

type JSONClimb struct {
	Name   string `json:"name"`
	Grade  int    `json:"grade"`
	Type   string `json:"type"`
	Color  string `json:"color"`
	Setter string `json:"setter"`
}

type JSONGym struct {
	Name        string      `json:"name"`
	City        string      `json:"city"`
	Address     string      `json:"address"`
	Description string      `json:"description"`
	Website     string      `json:"website"`
	Climbs      []JSONClimb `json:"climbs"`
}

type JSONBadge struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Icon        string          `json:"icon"`
	Criteria    json.RawMessage `json:"criteria"`
}

type JSONCatalog struct {
	Gyms   []JSONGym   `json:"gyms"`
	Badges []JSONBadge `json:"badges"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	jsonPath := "./data/catalog.json"
	if len(os.Args) > 1 {
		jsonPath = os.Args[1]
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		log.Fatal("Failed to read catalog file:", err)
	}

	var catalog JSONCatalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		log.Fatal("Failed to parse catalog file:", err)
	}

	// Reject badge rows the engine would never be able to evaluate
	for _, b := range catalog.Badges {
		if b.Name == "" {
			log.Fatal("Badge with empty name in catalog file")
		}
		if services.ParseCriteria(b.Criteria).Unrecognized {
			log.Fatalf("Badge %q has unrecognized criteria: %s", b.Name, string(b.Criteria))
		}
	}

	database.InitDB()
	defer database.CloseDB()
	db := database.GetDB()

	gymCount := 0
	climbCount := 0
	for _, g := range catalog.Gyms {
		gym := models.Gym{
			Name:        g.Name,
			City:        g.City,
			Address:     g.Address,
			Description: g.Description,
			Website:     g.Website,
			IsActive:    true,
		}
		if err := db.Where("name = ? AND city = ?", g.Name, g.City).
			FirstOrCreate(&gym).Error; err != nil {
			log.Fatalf("Failed to import gym %q: %v", g.Name, err)
		}
		gymCount++

		for _, c := range g.Climbs {
			climb := models.Climb{
				GymID:    gym.ID,
				Name:     c.Name,
				Grade:    c.Grade,
				Type:     c.Type,
				Color:    c.Color,
				Setter:   c.Setter,
				IsActive: true,
			}
			if climb.Type == "" {
				climb.Type = models.ClimbBoulder
			}
			if err := db.Where("gym_id = ? AND name = ?", gym.ID, c.Name).
				FirstOrCreate(&climb).Error; err != nil {
				log.Fatalf("Failed to import climb %q: %v", c.Name, err)
			}
			climbCount++
		}
	}

	badgeCount := 0
	for _, b := range catalog.Badges {
		badge := models.Badge{
			Name:        b.Name,
			Description: b.Description,
			Icon:        b.Icon,
			Criteria:    b.Criteria,
		}
		// Badge names are unique; re-running the importer updates definitions
		// without touching earned user_badges rows
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"description", "icon", "criteria"}),
		}).Create(&badge).Error; err != nil {
			log.Fatalf("Failed to import badge %q: %v", b.Name, err)
		}
		badgeCount++
	}

	fmt.Printf("✅ Imported %d gyms, %d climbs, %d badges\n", gymCount, climbCount, badgeCount)
}
