package services

import (
	"context"
	"fmt"

	"alumni/internal/db"

	"gorm.io/gorm"
)

// BootstrapService ensures the schema exists and seeds the sample account.
type BootstrapService struct {
	gdb *gorm.DB
}

func NewBootstrapService(gdb *gorm.DB) *BootstrapService {
	return &BootstrapService{gdb: gdb}
}

// InitSample returns the status line shown to the operator.
func (s *BootstrapService) InitSample(ctx context.Context) (string, error) {
	if err := db.Migrate(ctx, s.gdb); err != nil {
		return "", err
	}

	created, err := db.SeedSample(ctx, s.gdb)
	if err != nil {
		return "", err
	}
	if created {
		return fmt.Sprintf("Sample user created: %s / %s", db.SampleEmail, db.SamplePassword), nil
	}
	return "Database already initialized.", nil
}
