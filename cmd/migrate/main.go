package main

import (
	"log"

	"quest-fees/app/config"
	"quest-fees/app/database"
)

func main() {
	log.Println("Starting migration for student_fees...")

	cfg := config.Load()
	db, err := config.OpenDB(cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to get database instance: ", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Migration failed: ", err)
	}

	log.Println("Migration completed successfully!")
}
