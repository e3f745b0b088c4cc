package storage_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/go-redis/redis/v8"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type redisStoreSuite struct {
	suite.Suite

	client *redis.Client
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}
	suite.Run(t, new(redisStoreSuite))
}

func (suite *redisStoreSuite) SetupSuite() {
	ctx := suite.T().Context()

	_, connStr, err := startRedis(ctx)
	suite.Require().NoError(err)

	opts, err := redis.ParseURL(connStr)
	suite.Require().NoError(err)

	suite.client = redis.NewClient(opts)
	suite.Require().NoError(suite.client.Ping(ctx).Err())
}

func (suite *redisStoreSuite) TearDownSuite() {
	if suite.client != nil {
		suite.NoError(suite.client.Close())
	}
}

func (suite *redisStoreSuite) TestContract() {
	store, err := storage.NewRedis(suite.client, gofakeit.UUID())
	suite.Require().NoError(err)

	testKeyValueStore(suite.T(), store)
}

func (suite *redisStoreSuite) TestOwnersAreIsolated() {
	t := suite.T()
	ctx := t.Context()

	alice, err := storage.NewRedis(suite.client, gofakeit.UUID())
	require.NoError(t, err)
	bob, err := storage.NewRedis(suite.client, gofakeit.UUID())
	require.NoError(t, err)

	require.NoError(t, alice.Set(ctx, "cart", []byte("alice")))

	_, err = bob.Get(ctx, "cart")
	assert.ErrorIs(t, err, port.ErrNotFound)
}
