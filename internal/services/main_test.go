package services

import (
	"context"
	"testing"
	"time"

	"alumni/internal/db"
	"alumni/internal/models"
	"alumni/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(db.Options{
		Driver: "sqlite",
		DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background(), gdb))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

type fixture struct {
	db    *gorm.DB
	cache *utils.Cache
	users *UserService
	posts *PostService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := setupTestDB(t)
	cache, err := utils.NewCache(16)
	require.NoError(t, err)
	return &fixture{
		db:    gdb,
		cache: cache,
		users: NewUserService(gdb, cache),
		posts: NewPostService(gdb, cache, time.Minute),
	}
}

func (f *fixture) register(t *testing.T, name, email, batch, company string) *models.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), RegisterInput{
		Name:     name,
		Email:    email,
		Password: "secret123",
		Batch:    batch,
		Company:  company,
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}
