package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	// StreamJobs is the Redis stream of prediction jobs (CLI pushes, workers pop).
	StreamJobs = "pisces_jobs"
	// StreamResults is the Redis stream of per-sample results (workers push, collectors pop).
	StreamResults = "pisces_results"

	// GroupPredictors is the consumer group for workers.
	GroupPredictors = "predictors"
	// GroupCollectors is the consumer group for result collectors.
	GroupCollectors = "collectors"
)

// Queue manages Redis streams for prediction jobs.
type Queue struct {
	client *redis.Client
}

// New creates a Queue from a Redis client.
func New(client *redis.Client) *Queue {
	return &Queue{client: client}
}

// ConnectRedis creates a Redis client from a URL.
func ConnectRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

// EnsureStreams creates the consumer groups if they don't exist.
func (q *Queue) EnsureStreams(ctx context.Context) error {
	for _, pair := range []struct {
		stream, group string
	}{
		{StreamJobs, GroupPredictors},
		{StreamResults, GroupCollectors},
	} {
		err := q.client.XGroupCreateMkStream(ctx, pair.stream, pair.group, "0").Err()
		if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
			return fmt.Errorf("create group %s on %s: %w", pair.group, pair.stream, err)
		}
	}
	return nil
}

// PushJob adds a job to the pisces_jobs stream.
func (q *Queue) PushJob(ctx context.Context, msg JobMessage) (string, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("encode job: %w", err)
	}
	result, err := q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamJobs,
		Values: map[string]any{
			"job_id":      msg.JobID,
			"ensemble":    msg.Ensemble,
			"fingerprint": msg.Fingerprint(),
			"payload":     string(payload),
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("push job: %w", err)
	}
	return result, nil
}

// PushResult adds a result to the pisces_results stream.
func (q *Queue) PushResult(ctx context.Context, msg ResultMessage) (string, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	result, err := q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamResults,
		Values: map[string]any{
			"job_id":  msg.JobID,
			"sample":  msg.Sample,
			"payload": string(payload),
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("push result: %w", err)
	}
	return result, nil
}

// ReadJob reads one job from the pisces_jobs stream (blocking). When the
// payload cannot be decoded the stream message ID is still returned so the
// caller can acknowledge it.
func (q *Queue) ReadJob(ctx context.Context, consumer string) (*JobMessage, string, error) {
	var job JobMessage
	id, err := q.readOne(ctx, StreamJobs, GroupPredictors, consumer, &job)
	if err != nil {
		return nil, id, fmt.Errorf("read job: %w", err)
	}
	return &job, id, nil
}

// ReadResult reads one result from the pisces_results stream (blocking).
// Like ReadJob it returns the message ID alongside a decode error.
func (q *Queue) ReadResult(ctx context.Context, consumer string) (*ResultMessage, string, error) {
	var res ResultMessage
	id, err := q.readOne(ctx, StreamResults, GroupCollectors, consumer, &res)
	if err != nil {
		return nil, id, fmt.Errorf("read result: %w", err)
	}
	return &res, id, nil
}

func (q *Queue) readOne(ctx context.Context, stream, group, consumer string, dst any) (string, error) {
	streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{stream, ">"},
		Count:    1,
		Block:    0,
	}).Result()
	if err != nil {
		return "", err
	}

	for _, s := range streams {
		for _, msg := range s.Messages {
			if err := json.Unmarshal([]byte(getString(msg.Values, "payload")), dst); err != nil {
				return msg.ID, fmt.Errorf("decode %s: %w", msg.ID, err)
			}
			return msg.ID, nil
		}
	}
	return "", fmt.Errorf("no messages")
}

// AckJob acknowledges a job message.
func (q *Queue) AckJob(ctx context.Context, msgID string) error {
	return q.client.XAck(ctx, StreamJobs, GroupPredictors, msgID).Err()
}

// AckResult acknowledges a result message.
func (q *Queue) AckResult(ctx context.Context, msgID string) error {
	return q.client.XAck(ctx, StreamResults, GroupCollectors, msgID).Err()
}

// Status returns message counts for both streams.
func (q *Queue) Status(ctx context.Context) (jobs, results int64, err error) {
	jobsLen, err := q.client.XLen(ctx, StreamJobs).Result()
	if err != nil {
		return 0, 0, err
	}
	resultsLen, err := q.client.XLen(ctx, StreamResults).Result()
	if err != nil {
		return 0, 0, err
	}
	return jobsLen, resultsLen, nil
}

func getString(values map[string]any, key string) string {
	if v, ok := values[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
