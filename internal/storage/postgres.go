package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type option struct {
	Name  string `gorm:"primaryKey"`
	Value string
}

func (option) TableName() string {
	return "options"
}

type Postgres struct {
	db *gorm.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return NewGorm(db)
}

// NewGorm wraps an already opened connection and makes sure the options
// table exists.
func NewGorm(db *gorm.DB) (*Postgres, error) {
	if err := db.AutoMigrate(&option{}); err != nil {
		return nil, fmt.Errorf("migrate options: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (s *Postgres) get(ctx context.Context, name string) (string, error) {
	record := &option{}
	err := s.db.WithContext(ctx).Where("name = ?", name).First(record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("select option %s: %w", name, err)
	}
	return record.Value, nil
}

func (s *Postgres) set(ctx context.Context, name, value string) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&option{Name: name, Value: value}).Error
	if err != nil {
		return fmt.Errorf("upsert option %s: %w", name, err)
	}
	return nil
}

func (s *Postgres) AccessKey(ctx context.Context) (string, error) {
	return s.get(ctx, AccessKeyName)
}

func (s *Postgres) SetAccessKey(ctx context.Context, key string) error {
	return s.set(ctx, AccessKeyName, key)
}

func (s *Postgres) Enabled(ctx context.Context) (bool, error) {
	value, err := s.get(ctx, EnabledName)
	return value == "yes", err
}

func (s *Postgres) SetEnabled(ctx context.Context, enabled bool) error {
	return s.set(ctx, EnabledName, formatEnabled(enabled))
}

func (s *Postgres) KeyValid(ctx context.Context) (bool, error) {
	value, err := s.get(ctx, KeyValidName)
	return value == "1", err
}

func (s *Postgres) SetKeyValid(ctx context.Context, valid bool) error {
	return s.set(ctx, KeyValidName, formatBool(valid))
}
