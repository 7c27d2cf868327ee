//go:build integration

package activity_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"rollcall/internal/activity/models"
	activitystore "rollcall/internal/activity/store/activity"
	"rollcall/pkg/testutil/containers"
)

type CachedStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
}

func TestCachedStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CachedStoreSuite))
}

func (s *CachedStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
}

func (s *CachedStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *CachedStoreSuite) newCached() (*activitystore.Cached, *activitystore.InMemory) {
	backend := activitystore.NewInMemory()
	return activitystore.NewCached(backend, s.redis.Client, time.Minute, nil), backend
}

func (s *CachedStoreSuite) TestListServesFromCache() {
	ctx := context.Background()
	cached, backend := s.newCached()

	a, err := models.NewActivity("Chess Club", "Chess", "Fridays", 12, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(cached.Create(ctx, a))

	first, err := cached.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(first, 1)

	// Mutate the backend behind the cache's back. The stale snapshot proves
	// the second read came from Redis.
	s.Require().NoError(backend.AddParticipant(ctx, "Chess Club", "a@x.edu"))

	second, err := cached.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(second, 1)
	s.Empty(second[0].Participants)
}

func (s *CachedStoreSuite) TestMutationsInvalidateCache() {
	ctx := context.Background()
	cached, _ := s.newCached()

	a, err := models.NewActivity("Chess Club", "Chess", "Fridays", 12, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(cached.Create(ctx, a))

	_, err = cached.List(ctx)
	s.Require().NoError(err)

	s.Require().NoError(cached.AddParticipant(ctx, "Chess Club", "a@x.edu"))

	list, err := cached.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal([]string{"a@x.edu"}, list[0].Participants)

	s.Require().NoError(cached.RemoveParticipant(ctx, "Chess Club", "a@x.edu"))

	list, err = cached.List(ctx)
	s.Require().NoError(err)
	s.Empty(list[0].Participants)
}

func (s *CachedStoreSuite) TestCorruptCacheFallsThrough() {
	ctx := context.Background()
	cached, _ := s.newCached()

	a, err := models.NewActivity("Chess Club", "Chess", "Fridays", 12, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(cached.Create(ctx, a))

	s.Require().NoError(s.redis.Client.Set(ctx, "rollcall:activities", "{not json", time.Minute).Err())

	list, err := cached.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("Chess Club", list[0].Name)
}
