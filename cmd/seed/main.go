// Command main runs the database seeder for Tradepost.
package main

import (
	"flag"
	"log"

	"tradepost/internal/config"
	"tradepost/internal/database"
	"tradepost/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numGoods := flag.Int("goods", 200, "Number of goods listings to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d goods, clean=%v\n", *numUsers, *numGoods, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	users, err := s.SeedMarketplace(*numUsers, *numGoods)
	if err != nil {
		log.Fatalf("Marketplace seeding failed: %v", err)
	}
	if err := s.SeedEngagement(users); err != nil {
		log.Fatalf("Engagement seeding failed: %v", err)
	}

	log.Println("All done! Your database is now populated with test data.")
	log.Println("All test users have the password: password123")
}
