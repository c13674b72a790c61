package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

func TestPostgresDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  PostgresConfig
		want string
	}{
		{
			name: "默认不启用 SSL",
			cfg:  PostgresConfig{Host: "db", Port: 5432, Username: "library", Password: "secret", Database: "library"},
			want: "host=db user=library password=secret dbname=library port=5432 sslmode=disable TimeZone=UTC",
		},
		{
			name: "启用 SSL",
			cfg:  PostgresConfig{Host: "db", Port: 6543, Username: "u", Password: "p", Database: "d", SSLMode: true},
			want: "host=db user=u password=p dbname=d port=6543 sslmode=require TimeZone=UTC",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.DSN())
		})
	}
}

func TestWithDefaults(t *testing.T) {
	c := PostgresConfig{MaxOpenConns: 5}.withDefaults()
	assert.Equal(t, "localhost", c.Host)
	assert.Equal(t, 5432, c.Port)
	assert.Equal(t, "warn", c.LogLevel)
	assert.Equal(t, 10, c.MaxIdleConns)
	assert.Equal(t, 5, c.MaxOpenConns)
	assert.Equal(t, time.Hour, c.ConnMaxLifetime)

	r := RedisConfig{Host: "cache"}.withDefaults()
	assert.Equal(t, "cache:6379", r.Addr())
	assert.Equal(t, 10, r.PoolSize)
}

func TestOpenUsesUTC(t *testing.T) {
	db, err := Open(sqlite.Open("file::memory:"), "silent")
	require.NoError(t, err)

	assert.True(t, db.Config.TranslateError)
	assert.Equal(t, time.UTC, db.Config.NowFunc().Location())
}

func TestInitRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := InitRedis(ctx, RedisConfig{Host: "127.0.0.1", Port: 1})
	assert.Error(t, err)
}
