package storage

import "context"

const (
	AccessKeyName = "access_key"
	EnabledName   = "enabled"
	KeyValidName  = "key_valid"
)

// KeyStore persists the vendor access key. An empty key means no key.
type KeyStore interface {
	AccessKey(ctx context.Context) (string, error)
	SetAccessKey(ctx context.Context, key string) error
}

type Store interface {
	KeyStore
	Enabled(ctx context.Context) (bool, error)
	SetEnabled(ctx context.Context, enabled bool) error
	KeyValid(ctx context.Context) (bool, error)
	SetKeyValid(ctx context.Context, valid bool) error
}

// enabled is stored as "yes"/"no", anything else reads as disabled
func formatEnabled(enabled bool) string {
	if enabled {
		return "yes"
	}
	return "no"
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// SeedAccessKey stores key only when no key is stored yet, so a key managed
// through the settings is never overwritten on restart.
func SeedAccessKey(ctx context.Context, s KeyStore, key string) (bool, error) {
	if key == "" {
		return false, nil
	}
	current, err := s.AccessKey(ctx)
	if err != nil {
		return false, err
	}
	if current != "" {
		return false, nil
	}
	if err := s.SetAccessKey(ctx, key); err != nil {
		return false, err
	}
	return true, nil
}
