package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"sportftv-backend/internal/metrics"
	"sportftv-backend/internal/models"
	"sportftv-backend/internal/services"
)

const (
	QueueName      = "queue:thumbnail-generation"
	UpdatesChannel = "video_updates"

	MessageThumbnailReady = "thumbnail_ready"

	statusKeyPrefix = "thumbnail_job:"
	lockKeyPrefix   = "job_lock:"
	statusTTL       = 24 * time.Hour
	lockTTL         = 10 * time.Minute
)

var ErrJobNotFound = errors.New("job not found")

// queueClient is the subset of *redis.Client the pool needs.
type queueClient interface {
	BLPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	LLen(ctx context.Context, key string) *redis.IntCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Processor runs the thumbnail pipeline for one object.
type Processor interface {
	Process(ctx context.Context, obj models.StorageObject) (*services.ThumbnailResult, error)
}

type Options struct {
	WorkerCount int
	MaxAttempts int
	Timeout     time.Duration
	// PollTimeout bounds each BLPOP so workers notice shutdown.
	PollTimeout time.Duration
}

type Pool struct {
	redis       queueClient
	processor   Processor
	metrics     *metrics.Metrics
	logger      *slog.Logger
	workerCount int
	maxAttempts int
	timeout     time.Duration
	pollTimeout time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup

	now   func() time.Time
	after func(d time.Duration, f func())
}

func NewPool(redisClient queueClient, processor Processor, m *metrics.Metrics, opts Options, logger *slog.Logger) *Pool {
	if opts.WorkerCount < 1 {
		opts.WorkerCount = 1
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Minute
	}
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = 30 * time.Second
	}
	return &Pool{
		redis:       redisClient,
		processor:   processor,
		metrics:     m,
		logger:      logger,
		workerCount: opts.WorkerCount,
		maxAttempts: opts.MaxAttempts,
		timeout:     opts.Timeout,
		pollTimeout: opts.PollTimeout,
		now:         time.Now,
		after: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			p.worker(ctx, id)
		}(i)
	}
	p.logger.Info("worker pool started", "workers", p.workerCount, "queue", QueueName)
}

// Stop cancels in-flight jobs and waits for every worker to return.
func (p *Pool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

// Enqueue records a queued status for obj and pushes the job.
func (p *Pool) Enqueue(ctx context.Context, obj models.StorageObject) (*models.ThumbnailJob, error) {
	job := &models.ThumbnailJob{
		ID:          uuid.New(),
		Object:      obj,
		MaxAttempts: p.maxAttempts,
		EnqueuedAt:  p.now().UTC(),
	}
	if err := p.setStatus(ctx, job, models.JobStatusQueued, nil, nil); err != nil {
		return nil, err
	}
	if err := p.push(ctx, job); err != nil {
		return nil, err
	}
	p.logger.Info("thumbnail job queued", "job_id", job.ID, "object", obj.Name)
	return job, nil
}

func (p *Pool) GetStatus(ctx context.Context, id uuid.UUID) (*models.JobStatus, error) {
	data, err := p.redis.Get(ctx, statusKeyPrefix+id.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load job status: %w", err)
	}
	var status models.JobStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("failed to decode job status: %w", err)
	}
	return &status, nil
}

func (p *Pool) push(ctx context.Context, job *models.ThumbnailJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}
	if err := p.redis.RPush(ctx, QueueName, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	p.reportDepth(ctx)
	return nil
}

func (p *Pool) reportDepth(ctx context.Context) {
	if p.metrics == nil {
		return
	}
	if n, err := p.redis.LLen(ctx, QueueName).Result(); err == nil {
		p.metrics.SetQueueDepth(n)
	}
}

func (p *Pool) worker(ctx context.Context, id int) {
	logger := p.logger.With("worker", id)
	for {
		if ctx.Err() != nil {
			logger.Debug("worker shutting down")
			return
		}

		result, err := p.redis.BLPop(ctx, p.pollTimeout, QueueName).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				logger.Warn("queue pop failed", "error", err)
				select {
				case <-ctx.Done():
				case <-time.After(time.Second):
				}
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		p.reportDepth(ctx)
		p.handle(ctx, logger, result[1])
	}
}

// handle runs one raw queue entry to completion.
func (p *Pool) handle(ctx context.Context, logger *slog.Logger, raw string) {
	var job models.ThumbnailJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		logger.Error("failed to parse job", "error", err)
		return
	}

	lockKey := lockKeyPrefix + job.ID.String()
	locked, err := p.redis.SetNX(ctx, lockKey, "1", lockTTL).Result()
	if err != nil {
		// The job was already popped; put it back rather than lose it.
		logger.Warn("failed to lock thumbnail job, re-queueing", "job_id", job.ID, "error", err)
		p.after(time.Second, func() {
			if err := p.push(context.Background(), &job); err != nil {
				p.logger.Error("failed to re-queue thumbnail job", "job_id", job.ID, "error", err)
			}
		})
		return
	}
	if !locked {
		return
	}
	defer p.redis.Del(context.WithoutCancel(ctx), lockKey)

	job.Attempt++
	logger = logger.With("job_id", job.ID, "object", job.Object.Name, "attempt", job.Attempt)
	logger.Info("processing thumbnail job")
	if err := p.setStatus(ctx, &job, models.JobStatusProcessing, nil, nil); err != nil {
		logger.Warn("failed to record job status", "error", err)
	}

	jobCtx, cancel := context.WithTimeout(ctx, p.timeout)
	start := p.now()
	res, err := p.processor.Process(jobCtx, job.Object)
	cancel()
	elapsed := p.now().Sub(start)

	// Status writes outlive a shutdown that interrupted the job.
	ctx = context.WithoutCancel(ctx)
	switch {
	case errors.Is(err, services.ErrSkipped):
		p.observe(models.JobStatusSkipped, elapsed)
		msg := err.Error()
		p.setStatus(ctx, &job, models.JobStatusSkipped, nil, &msg)
	case err != nil:
		p.handleFailure(ctx, logger, &job, err, elapsed)
	default:
		p.handleSuccess(ctx, logger, &job, res, elapsed)
	}
}

func (p *Pool) handleSuccess(ctx context.Context, logger *slog.Logger, job *models.ThumbnailJob, res *services.ThumbnailResult, elapsed time.Duration) {
	p.observe(models.JobStatusCompleted, elapsed)
	if err := p.setStatus(ctx, job, models.JobStatusCompleted, res, nil); err != nil {
		logger.Warn("failed to record job status", "error", err)
	}

	msg, err := json.Marshal(models.WSMessage{
		Type: MessageThumbnailReady,
		Payload: models.ThumbnailReadyEvent{
			VideoID:      res.VideoID,
			ThumbnailURL: res.ThumbnailURL,
		},
	})
	if err == nil {
		if err := p.redis.Publish(ctx, UpdatesChannel, msg).Err(); err != nil {
			logger.Warn("failed to publish thumbnail update", "error", err)
		}
	}

	logger.Info("thumbnail job completed", "video_id", res.VideoID, "duration", elapsed)
}

func (p *Pool) handleFailure(ctx context.Context, logger *slog.Logger, job *models.ThumbnailJob, err error, elapsed time.Duration) {
	errMsg := err.Error()
	delay, retry := retryDelay(job.Attempt, job.MaxAttempts)

	if !retry {
		p.observe(models.JobStatusFailed, elapsed)
		logger.Error("thumbnail job failed permanently", "error", errMsg)
		p.setStatus(ctx, job, models.JobStatusFailed, nil, &errMsg)
		return
	}

	p.observe("retried", elapsed)
	logger.Warn("thumbnail job failed, retrying", "error", errMsg, "backoff", delay)
	p.setStatus(ctx, job, models.JobStatusQueued, nil, &errMsg)

	retryJob := *job
	p.after(delay, func() {
		if err := p.push(context.Background(), &retryJob); err != nil {
			p.logger.Error("failed to re-queue thumbnail job", "job_id", retryJob.ID, "error", err)
		}
	})
}

// retryDelay reports whether a job that just failed its attempt-th try
// runs again, and after how long.
func retryDelay(attempt, maxAttempts int) (time.Duration, bool) {
	if attempt >= maxAttempts {
		return 0, false
	}
	return time.Duration(1<<uint(attempt)) * time.Second, true
}

func (p *Pool) observe(status string, d time.Duration) {
	if p.metrics != nil {
		p.metrics.ObserveThumbnail(status, d)
	}
}

func (p *Pool) setStatus(ctx context.Context, job *models.ThumbnailJob, state string, res *services.ThumbnailResult, errMsg *string) error {
	now := p.now().UTC()
	status := models.JobStatus{
		JobID:        job.ID,
		Object:       job.Object.Name,
		Status:       state,
		Attempt:      job.Attempt,
		ErrorMessage: errMsg,
		UpdatedAt:    now,
	}
	if res != nil {
		status.VideoID = res.VideoID
		status.ThumbnailURL = &res.ThumbnailURL
	}
	switch state {
	case models.JobStatusCompleted, models.JobStatusFailed, models.JobStatusSkipped:
		status.CompletedAt = &now
	}

	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to encode job status: %w", err)
	}
	if err := p.redis.Set(ctx, statusKeyPrefix+job.ID.String(), data, statusTTL).Err(); err != nil {
		return fmt.Errorf("failed to store job status: %w", err)
	}
	return nil
}
