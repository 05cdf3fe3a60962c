package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/traindesk/api/internal/model"
)

const jobTTL = 24 * time.Hour

// RedisJobStore keeps job records in Redis with a TTL, so finished jobs
// age out instead of accumulating.
type RedisJobStore struct {
	redis *redis.Client
}

func NewRedisJobStore(redisClient *redis.Client) *RedisJobStore {
	return &RedisJobStore{redis: redisClient}
}

func jobKey(jobID string) string {
	return fmt.Sprintf("import:job:%s", jobID)
}

func (s *RedisJobStore) Create(ctx context.Context, job *model.ImportJob) error {
	return s.save(ctx, job)
}

func (s *RedisJobStore) Get(ctx context.Context, jobID string) (*model.ImportJob, error) {
	data, err := s.redis.Get(ctx, jobKey(jobID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	var job model.ImportJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *RedisJobStore) Update(ctx context.Context, job *model.ImportJob) error {
	return s.save(ctx, job)
}

func (s *RedisJobStore) save(ctx context.Context, job *model.ImportJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, jobKey(job.ID), data, jobTTL).Err()
}
