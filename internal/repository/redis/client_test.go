package redis

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient(context.Background(), "http://not-redis")
	assert.ErrorContains(t, err, "invalid redis url")
}

func TestCache_DelWithoutKeysIsNoop(t *testing.T) {
	// no server is contacted when there is nothing to delete
	c := NewCache(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), "kloda:")
	require.NoError(t, c.Del(context.Background()))
}
