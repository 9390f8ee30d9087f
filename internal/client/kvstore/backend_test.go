package kvstore

import (
	"context"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestNewBackend(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "memory", cfg: Config{Driver: DriverMemory}},
		{name: "sqlite default driver", cfg: Config{SQLite: &SQLiteConfig{DSN: filepath.Join(t.TempDir(), "a.db")}}},
		{name: "sqlite without dsn", cfg: Config{Driver: DriverSQLite}, wantErr: true},
		{name: "redis", cfg: Config{Driver: DriverRedis, Redis: &RedisConfig{Addr: mr.Addr()}}},
		{name: "redis without config", cfg: Config{Driver: DriverRedis}, wantErr: true},
		{name: "unknown", cfg: Config{Driver: "etcd"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBackend(ctx, tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NoError(t, b.Set(ctx, "k", []byte("v")))
			require.NoError(t, b.Close())
		})
	}
}
