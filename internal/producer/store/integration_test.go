//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"sadapurne/internal/certificate"
	id "sadapurne/pkg/domain"
	"sadapurne/pkg/testutil/containers"
)

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, &StoreSuite{newStore: func(t *testing.T) Store {
		pg := containers.GetManager().GetPostgres(t)
		if err := pg.TruncateTables(context.Background(), "verified_producers"); err != nil {
			t.Fatalf("truncate: %v", err)
		}
		return NewSQLStore(pg.DB, "postgres", nil)
	}})
}

type RedisStoreSuite struct {
	StoreSuite
}

func TestRedisStoreSuite(t *testing.T) {
	s := &RedisStoreSuite{}
	s.newStore = func(t *testing.T) Store {
		rc := containers.GetManager().GetRedis(t)
		if err := rc.FlushAll(context.Background()); err != nil {
			t.Fatalf("flush: %v", err)
		}
		return NewRedisStore(rc.Client, nil)
	}
	suite.Run(t, s)
}

func (s *RedisStoreSuite) TestListSkipsDanglingIndexEntries() {
	ctx := context.Background()
	rs := s.store.(*RedisStore)
	p := testProducer("123456789012", time.Now().UTC())
	s.Require().NoError(rs.Save(ctx, p))
	s.Require().NoError(rs.client.ZAdd(ctx, redisProducerIndex, redis.Z{Score: 1, Member: "000000000000"}).Err())

	all, err := rs.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal(id.Aadhar("123456789012"), all[0].Aadhar)
	s.Equal(certificate.TypeBasicRegistration, all[0].CertificateType)
}
