package status

import (
	"context"
	"fmt"

	"github.com/maskrapp/spamguard/internal/check"
	"github.com/maskrapp/spamguard/internal/storage"
	"github.com/sirupsen/logrus"
)

const (
	DescriptionValid    = "CleanTalk access key is valid, ready to protect."
	DescriptionInvalid  = "CleanTalk access key is invalid"
	DescriptionDisabled = "CleanTalk Integration is disabled."
	DescriptionEmpty    = "CleanTalk access key is empty."
)

// DescribeStatus picks the settings page description. Later checks win: an
// empty key hides everything else, a disabled integration hides an invalid
// key.
func DescribeStatus(enabled, keyValid bool, currentKey string) string {
	description := DescriptionValid
	if !keyValid {
		description = DescriptionInvalid
	}
	if !enabled {
		description = DescriptionDisabled
	}
	if currentKey == "" {
		description = DescriptionEmpty
	}
	return description
}

type Status struct {
	Enabled     bool   `json:"enabled"`
	KeyValid    bool   `json:"key_valid"`
	HasKey      bool   `json:"has_key"`
	Description string `json:"description"`
}

// KeySyncer is the part of the verification client the settings page needs.
type KeySyncer interface {
	SyncAccessKey(ctx context.Context, candidate string, directCall, persist bool) check.SyncResult
}

type Settings struct {
	store  storage.Store
	syncer KeySyncer
}

func NewSettings(store storage.Store, syncer KeySyncer) *Settings {
	return &Settings{store: store, syncer: syncer}
}

func (s *Settings) Status(ctx context.Context) (Status, error) {
	enabled, err := s.store.Enabled(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("read enabled flag: %w", err)
	}
	keyValid, err := s.store.KeyValid(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("read key valid flag: %w", err)
	}
	key, err := s.store.AccessKey(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("read access key: %w", err)
	}
	return Status{
		Enabled:     enabled,
		KeyValid:    keyValid,
		HasKey:      key != "",
		Description: DescribeStatus(enabled, keyValid, key),
	}, nil
}

// IsActive reports whether registrations should be checked at all.
func (s *Settings) IsActive(ctx context.Context) (bool, error) {
	return s.store.Enabled(ctx)
}

func (s *Settings) SetEnabled(ctx context.Context, enabled bool) error {
	return s.store.SetEnabled(ctx, enabled)
}

// SaveAccessKey validates key and records the outcome: a rejected key turns
// the integration off and is marked invalid.
func (s *Settings) SaveAccessKey(ctx context.Context, key string) (check.SyncResult, error) {
	result := s.syncer.SyncAccessKey(ctx, key, true, true)
	if !result.Success {
		logrus.Infof("access key rejected, disabling integration: %v", result.Message)
		if err := s.store.SetEnabled(ctx, false); err != nil {
			return result, fmt.Errorf("disable integration: %w", err)
		}
		if err := s.store.SetKeyValid(ctx, false); err != nil {
			return result, fmt.Errorf("mark key invalid: %w", err)
		}
		return result, nil
	}
	if err := s.store.SetKeyValid(ctx, true); err != nil {
		return result, fmt.Errorf("mark key valid: %w", err)
	}
	return result, nil
}
