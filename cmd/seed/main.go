// Command seed fills a database with fake alumni, posts, likes and comments.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"

	"alumni/internal/config"
	"alumni/internal/db"
	"alumni/internal/models"
	"alumni/internal/services"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func main() {
	users := flag.Int("users", 20, "number of alumni to create")
	posts := flag.Int("posts", 60, "number of posts to create")
	seed := flag.Int64("seed", 0, "random seed, 0 picks one")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, finding env vars from system")
	}
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}

	s, gdb, err := newSeeder(cfg, log, *seed)
	if err != nil {
		log.WithError(err).Fatal("prepare seeder")
	}
	defer func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	if err := s.run(context.Background(), *users, *posts); err != nil {
		log.WithError(err).Fatal("seed")
	}
}

// newSeeder 打开数据库，完成迁移和示例数据初始化
func newSeeder(cfg *config.Config, log logrus.FieldLogger, seed int64) (*seeder, *gorm.DB, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	gdb, err := db.Open(db.Options{
		Driver:   cfg.DatabaseDriver,
		DSN:      cfg.DatabaseURL,
		Location: loc,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	msg, err := services.NewBootstrapService(gdb).InitSample(context.Background())
	if err != nil {
		return nil, gdb, fmt.Errorf("init sample: %w", err)
	}
	log.Info(msg)

	return &seeder{
		faker: gofakeit.New(seed),
		users: services.NewUserService(gdb, nil),
		posts: services.NewPostService(gdb, nil, 0),
		log:   log,
	}, gdb, nil
}

type seeder struct {
	faker *gofakeit.Faker
	users *services.UserService
	posts *services.PostService
	log   logrus.FieldLogger
}

func (s *seeder) run(ctx context.Context, userCount, postCount int) error {
	alumni := make([]*models.User, 0, userCount)
	for i := 0; i < userCount; i++ {
		u, err := s.users.Register(ctx, services.RegisterInput{
			Name:     s.faker.Name(),
			Email:    s.faker.Email(),
			Password: "password",
			Batch:    strconv.Itoa(s.faker.Number(2005, 2024)),
			Company:  s.faker.Company(),
		})
		if errors.Is(err, services.ErrEmailTaken) {
			continue
		}
		if err != nil {
			return err
		}
		if err := s.users.UpdateProfile(ctx, u, services.ProfileInput{
			Name:    u.Name,
			Batch:   u.Batch,
			Company: u.Company,
			Role:    s.faker.JobTitle(),
		}); err != nil {
			return err
		}
		alumni = append(alumni, u)
	}
	if len(alumni) == 0 {
		s.log.Warn("no alumni created, skipping posts")
		return nil
	}

	created := 0
	for i := 0; i < postCount; i++ {
		author := alumni[s.faker.Number(0, len(alumni)-1)]
		post, err := s.posts.Create(ctx, author, s.faker.Paragraph(1, s.faker.Number(1, 4), 12, " "))
		if err != nil {
			return err
		}
		if post == nil {
			continue
		}
		created++

		for j := s.faker.Number(0, 3); j > 0; j-- {
			fan := alumni[s.faker.Number(0, len(alumni)-1)]
			if _, err := s.posts.Like(ctx, fan, post.ID); err != nil {
				return err
			}
		}
		for j := s.faker.Number(0, 2); j > 0; j-- {
			commenter := alumni[s.faker.Number(0, len(alumni)-1)]
			if _, err := s.posts.Comment(ctx, commenter, post.ID, s.faker.Sentence(s.faker.Number(4, 14))); err != nil {
				return err
			}
		}
	}

	s.log.WithFields(logrus.Fields{"alumni": len(alumni), "posts": created}).Info("seed complete")
	return nil
}
