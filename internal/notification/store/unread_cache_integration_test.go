//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"placement/internal/notification/store"
	"placement/pkg/testutil/containers"
)

type RedisUnreadCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *store.RedisUnreadCache
}

func TestRedisUnreadCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisUnreadCacheSuite))
}

func (s *RedisUnreadCacheSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.cache = store.NewRedisUnreadCache(s.redis.Client, time.Minute)
}

func (s *RedisUnreadCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisUnreadCacheSuite) TestSetGetInvalidate() {
	ctx := context.Background()

	_, ok, err := s.cache.Get(ctx, "stu-1")
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.cache.Set(ctx, "stu-1", 4))
	s.Require().NoError(s.cache.Set(ctx, "stu-2", 1))
	count, ok, err := s.cache.Get(ctx, "stu-1")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(4, count)

	s.Require().NoError(s.cache.Invalidate(ctx, "stu-1", "stu-2"))
	_, ok, err = s.cache.Get(ctx, "stu-2")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RedisUnreadCacheSuite) TestEntriesExpire() {
	ctx := context.Background()
	short := store.NewRedisUnreadCache(s.redis.Client, time.Second)
	s.Require().NoError(short.Set(ctx, "rec-1", 2))

	s.Eventually(func() bool {
		_, ok, err := short.Get(ctx, "rec-1")
		return err == nil && !ok
	}, 5*time.Second, 100*time.Millisecond)
}
