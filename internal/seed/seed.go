// Package seed populates the database with demo data for local development.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"vidtube/internal/middleware"
	"vidtube/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword is the password every seeded user signs in with.
const DefaultPassword = "password123"

// Options controls how much data the seeder creates.
type Options struct {
	Users         int
	VideosPerUser int
	TweetsPerUser int
	LikesPerUser  int
	// MaxDays spreads created_at timestamps over the last MaxDays days.
	MaxDays       int
	// FastHash uses the minimum bcrypt cost. Tests only.
	FastHash      bool
	// Seed fixes the random source when non-zero.
	Seed          int64
}

// DefaultOptions is a small but browsable dataset.
func DefaultOptions() Options {
	return Options{
		Users:         10,
		VideosPerUser: 5,
		TweetsPerUser: 8,
		LikesPerUser:  15,
		MaxDays:       90,
	}
}

// Result summarises what Run created.
type Result struct {
	Users  []*models.User
	Videos []*models.Video
	Tweets []*models.Tweet
	Likes  int
}

// Seeder writes fake users, videos, tweets and likes.
type Seeder struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gofakeit.Seed(seed)
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	return &Seeder{db: db, opts: opts, rng: rand.New(rand.NewSource(seed))}
}

// ClearAll removes every row the seeder can create, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	tables := []any{&models.WatchHistory{}, &models.Like{}, &models.Comment{}, &models.Tweet{}, &models.Video{}, &models.User{}}
	for _, m := range tables {
		if err := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
			return fmt.Errorf("clear %T: %w", m, err)
		}
	}
	middleware.Logger.Info("seed: cleared existing data")
	return nil
}

// Run creates the configured dataset inside one transaction.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	res := &Result{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		hash, err := s.passwordHash()
		if err != nil {
			return err
		}

		for i := range s.opts.Users {
			user := s.buildUser(i, hash)
			if err := tx.Create(user).Error; err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			res.Users = append(res.Users, user)
		}

		for _, user := range res.Users {
			for range s.opts.VideosPerUser {
				video := s.buildVideo(user)
				if err := tx.Omit("Owner").Create(video).Error; err != nil {
					return fmt.Errorf("create video: %w", err)
				}
				res.Videos = append(res.Videos, video)
			}
			for range s.opts.TweetsPerUser {
				tweet := s.buildTweet(user)
				if err := tx.Omit("Owner").Create(tweet).Error; err != nil {
					return fmt.Errorf("create tweet: %w", err)
				}
				res.Tweets = append(res.Tweets, tweet)
			}
		}

		likes := s.buildLikes(res)
		if len(likes) > 0 {
			created := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(likes, 200)
			if created.Error != nil {
				return fmt.Errorf("create likes: %w", created.Error)
			}
			res.Likes = int(created.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	middleware.Logger.Info("seed: dataset created",
		slog.Int("users", len(res.Users)),
		slog.Int("videos", len(res.Videos)),
		slog.Int("tweets", len(res.Tweets)),
		slog.Int("likes", res.Likes),
	)
	return res, nil
}

// passwordHash is computed once; every seeded user shares DefaultPassword.
func (s *Seeder) passwordHash() (string, error) {
	cost := bcrypt.DefaultCost
	if s.opts.FastHash {
		cost = bcrypt.MinCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *Seeder) buildUser(i int, hash string) *models.User {
	username := fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), i)
	return &models.User{
		Username:   username,
		Email:      username + "@example.com",
		FullName:   gofakeit.Name(),
		Avatar:     fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		CoverImage: fmt.Sprintf("https://picsum.photos/seed/cover-%s/1280/320", gofakeit.UUID()),
		Password:   hash,
	}
}

func (s *Seeder) buildVideo(owner *models.User) *models.Video {
	id := gofakeit.UUID()
	title := strings.TrimSuffix(gofakeit.Sentence(s.rng.Intn(5)+2), ".")
	return &models.Video{
		Title:       truncate(title, 200),
		Description: truncate(gofakeit.Paragraph(1, 3, 12, " "), 5000),
		VideoFile:   "https://cdn.example.com/seed/videos/" + id + ".mp4",
		Thumbnail:   "https://picsum.photos/seed/" + id + "/1280/720.webp",
		Duration:    float64(s.rng.Intn(900)+15) + s.rng.Float64(),
		Views:       int64(s.rng.Intn(50000)),
		IsPublished: s.rng.Intn(100) < 85,
		OwnerID:     owner.ID,
		CreatedAt:   s.pastTime(),
	}
}

func (s *Seeder) buildTweet(owner *models.User) *models.Tweet {
	return &models.Tweet{
		Content:   truncate(gofakeit.Sentence(s.rng.Intn(20)+4), 280),
		OwnerID:   owner.ID,
		CreatedAt: s.pastTime(),
	}
}

// buildLikes spreads each user's likes over videos and tweets they can see.
// Duplicate picks are dropped here and by the unique index.
func (s *Seeder) buildLikes(res *Result) []*models.Like {
	var likes []*models.Like
	if len(res.Videos)+len(res.Tweets) == 0 {
		return likes
	}
	for _, user := range res.Users {
		seen := map[string]bool{}
		for range s.opts.LikesPerUser {
			like := &models.Like{LikedByID: user.ID}
			if len(res.Tweets) == 0 || (len(res.Videos) > 0 && s.rng.Intn(2) == 0) {
				v := res.Videos[s.rng.Intn(len(res.Videos))]
				if !v.VisibleTo(user.ID) {
					continue
				}
				like.SubjectType, like.SubjectID = models.SubjectVideo, v.ID
			} else {
				tw := res.Tweets[s.rng.Intn(len(res.Tweets))]
				like.SubjectType, like.SubjectID = models.SubjectTweet, tw.ID
			}
			key := string(like.SubjectType) + like.SubjectID.String()
			if seen[key] {
				continue
			}
			seen[key] = true
			likes = append(likes, like)
		}
	}
	return likes
}

func (s *Seeder) pastTime() time.Time {
	back := time.Duration(s.rng.Intn(s.opts.MaxDays*24*60)) * time.Minute
	return time.Now().Add(-back)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
