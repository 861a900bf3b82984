// Command main runs the database seeder for VidTube.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"vidtube/internal/auth"
	"vidtube/internal/config"
	"vidtube/internal/database"
	"vidtube/internal/middleware"
	"vidtube/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.Users, "Number of users to create")
	videosPerUser := flag.Int("videos", defaults.VideosPerUser, "Videos per user")
	tweetsPerUser := flag.Int("tweets", defaults.TweetsPerUser, "Tweets per user")
	likesPerUser := flag.Int("likes", defaults.LikesPerUser, "Likes per user")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Println("===============")
	log.Printf("Target: %d users, %d videos/user, %d tweets/user, clean=%v\n", *numUsers, *videosPerUser, *tweetsPerUser, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.InitLogger(cfg.Env, "")

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	ctx := context.Background()
	s := seed.NewSeeder(db, seed.Options{
		Users:         *numUsers,
		VideosPerUser: *videosPerUser,
		TweetsPerUser: *tweetsPerUser,
		LikesPerUser:  *likesPerUser,
		MaxDays:       defaults.MaxDays,
	})

	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	res, err := s.Run(ctx)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Created %d users, %d videos, %d tweets, %d likes", len(res.Users), len(res.Videos), len(res.Tweets), res.Likes)
	log.Printf("All test users have the password: %s", seed.DefaultPassword)

	if len(res.Users) > 0 {
		token, err := auth.IssueAccessToken(cfg.JWTSecret, res.Users[0].ID, 24*time.Hour)
		if err != nil {
			log.Fatalf("Failed to issue token: %v", err)
		}
		log.Printf("Access token for %s (24h): %s", res.Users[0].Username, token)
	}
}
