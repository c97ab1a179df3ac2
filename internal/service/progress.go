package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"shopwise-web/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ImportTracker holds the per-owner import lock and the progress of
// background imports.
type ImportTracker interface {
	// AcquireLock returns a token identifying this holder; ok is false when
	// another run holds the lock.
	AcquireLock(ctx context.Context, owner string) (token string, ok bool, err error)
	// ReleaseLock frees the lock only while it is still held with token.
	ReleaseLock(ctx context.Context, owner, token string) error
	SetStatus(ctx context.Context, code, status string) error
	SetProgress(ctx context.Context, code string, fraction float64) error
	SaveOutcome(ctx context.Context, code string, outcome *models.ImportOutcome) error
	GetProgress(ctx context.Context, code string) (*models.ImportProgress, error)
}

// ErrProgressNotFound means no progress is known for a job code.
var ErrProgressNotFound = errors.New("import progress not found")

func progressKey(code string) string { return fmt.Sprintf("import:progress:%s", code) }
func statusKey(code string) string   { return fmt.Sprintf("import:status:%s", code) }
func outcomeKey(code string) string  { return fmt.Sprintf("import:outcome:%s", code) }
func lockKey(owner string) string    { return fmt.Sprintf("import:lock:%s", owner) }

// RedisImportTracker keeps tracker state in Redis so the web server and the
// worker see the same jobs.
type RedisImportTracker struct {
	redis   *redis.Client
	ttl     time.Duration
	lockTTL time.Duration
}

func NewRedisImportTracker(client *redis.Client, ttl time.Duration) *RedisImportTracker {
	return &RedisImportTracker{
		redis:   client,
		ttl:     ttl,
		lockTTL: 30 * time.Minute,
	}
}

// releaseLockScript deletes the lock only if it still holds the caller's token.
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (t *RedisImportTracker) AcquireLock(ctx context.Context, owner string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := t.redis.SetNX(ctx, lockKey(owner), token, t.lockTTL).Result()
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

func (t *RedisImportTracker) ReleaseLock(ctx context.Context, owner, token string) error {
	return releaseLockScript.Run(ctx, t.redis, []string{lockKey(owner)}, token).Err()
}

func (t *RedisImportTracker) SetStatus(ctx context.Context, code, status string) error {
	return t.redis.Set(ctx, statusKey(code), status, t.ttl).Err()
}

// SetProgress stores the percentage with two decimals.
func (t *RedisImportTracker) SetProgress(ctx context.Context, code string, fraction float64) error {
	return t.redis.Set(ctx, progressKey(code), fmt.Sprintf("%.2f", fraction*100), t.ttl).Err()
}

func (t *RedisImportTracker) SaveOutcome(ctx context.Context, code string, outcome *models.ImportOutcome) error {
	data, err := json.Marshal(outcome)
	if err != nil {
		return err
	}
	return t.redis.Set(ctx, outcomeKey(code), data, t.ttl).Err()
}

func (t *RedisImportTracker) GetProgress(ctx context.Context, code string) (*models.ImportProgress, error) {
	values, err := t.redis.MGet(ctx, statusKey(code), progressKey(code), outcomeKey(code)).Result()
	if err != nil {
		return nil, err
	}
	if values[0] == nil {
		return nil, ErrProgressNotFound
	}

	progress := &models.ImportProgress{JobCode: code, Status: values[0].(string)}
	if raw, ok := values[1].(string); ok {
		progress.Progress, _ = strconv.ParseFloat(raw, 64)
	}
	if raw, ok := values[2].(string); ok {
		var outcome models.ImportOutcome
		if err := json.Unmarshal([]byte(raw), &outcome); err == nil {
			progress.Outcome = &outcome
		}
	}
	return progress, nil
}

// MemoryImportTracker is the single process tracker used when Redis is not configured.
type MemoryImportTracker struct {
	mu       sync.Mutex
	locks    map[string]string
	progress map[string]*models.ImportProgress
}

func NewMemoryImportTracker() *MemoryImportTracker {
	return &MemoryImportTracker{
		locks:    make(map[string]string),
		progress: make(map[string]*models.ImportProgress),
	}
}

func (t *MemoryImportTracker) AcquireLock(_ context.Context, owner string) (string, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, held := t.locks[owner]; held {
		return "", false, nil
	}
	token := uuid.NewString()
	t.locks[owner] = token
	return token, true, nil
}

func (t *MemoryImportTracker) ReleaseLock(_ context.Context, owner, token string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.locks[owner] == token {
		delete(t.locks, owner)
	}
	return nil
}

func (t *MemoryImportTracker) SetStatus(_ context.Context, code, status string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entry(code).Status = status
	return nil
}

func (t *MemoryImportTracker) SetProgress(_ context.Context, code string, fraction float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entry(code).Progress = fraction * 100
	return nil
}

func (t *MemoryImportTracker) SaveOutcome(_ context.Context, code string, outcome *models.ImportOutcome) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	copied := *outcome
	copied.Errors = append([]string(nil), outcome.Errors...)
	t.entry(code).Outcome = &copied
	return nil
}

func (t *MemoryImportTracker) GetProgress(_ context.Context, code string) (*models.ImportProgress, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.progress[code]
	if !ok {
		return nil, ErrProgressNotFound
	}
	copied := *p
	return &copied, nil
}

func (t *MemoryImportTracker) entry(code string) *models.ImportProgress {
	p, ok := t.progress[code]
	if !ok {
		p = &models.ImportProgress{JobCode: code}
		t.progress[code] = p
	}
	return p
}
