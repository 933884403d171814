package redis

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/riskibarqy/weekly-pool/internal/domain/systemday"
	"github.com/riskibarqy/weekly-pool/internal/platform/resilience"
)

const systemDayKey = "weekly-pool:system-day"

// SystemDayRepository keeps the process-wide system day in a single Redis key
// so every API replica resolves availability against the same setting.
type SystemDayRepository struct {
	client  goredis.UniversalClient
	breaker *resilience.Breaker
	key     string
}

func NewSystemDayRepository(client goredis.UniversalClient, breaker *resilience.Breaker) *SystemDayRepository {
	return &SystemDayRepository{client: client, breaker: breaker, key: systemDayKey}
}

// NewClient parses a redis:// URL into a client. It does not dial.
func NewClient(rawURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(rawURL)
	if err != nil {
		return nil, crerr.Wrap(err, "parse redis url")
	}
	return goredis.NewClient(opts), nil
}

type systemDayRecord struct {
	Week        int       `json:"week"`
	DayOverride *int      `json:"day_override,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (r *SystemDayRepository) Get(ctx context.Context) (systemday.Setting, bool, error) {
	var raw []byte
	err := r.breaker.Do(ctx, func(ctx context.Context) error {
		value, err := r.client.Get(ctx, r.key).Bytes()
		if errors.Is(err, goredis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		raw = value
		return nil
	})
	if err != nil {
		return systemday.Setting{}, false, crerr.Wrap(err, "get system day from redis")
	}
	if raw == nil {
		return systemday.Setting{}, false, nil
	}

	setting, err := decodeSetting(raw)
	if err != nil {
		return systemday.Setting{}, false, err
	}
	return setting, true, nil
}

func (r *SystemDayRepository) Save(ctx context.Context, setting systemday.Setting) error {
	payload, err := encodeSetting(setting)
	if err != nil {
		return err
	}

	err = r.breaker.Do(ctx, func(ctx context.Context) error {
		return r.client.Set(ctx, r.key, payload, 0).Err()
	})
	if err != nil {
		return crerr.Wrap(err, "save system day to redis")
	}
	return nil
}

func encodeSetting(setting systemday.Setting) ([]byte, error) {
	record := systemDayRecord{Week: setting.Week, UpdatedAt: setting.UpdatedAt.UTC()}
	if setting.DayOverride != nil {
		day := int(*setting.DayOverride)
		record.DayOverride = &day
	}

	payload, err := sonic.Marshal(record)
	if err != nil {
		return nil, crerr.Wrap(err, "marshal system day")
	}
	return payload, nil
}

func decodeSetting(raw []byte) (systemday.Setting, error) {
	var record systemDayRecord
	if err := sonic.Unmarshal(raw, &record); err != nil {
		return systemday.Setting{}, crerr.Wrap(err, "unmarshal system day")
	}

	setting := systemday.Setting{Week: record.Week, UpdatedAt: record.UpdatedAt}
	if record.DayOverride != nil {
		day := time.Weekday(*record.DayOverride)
		setting.DayOverride = &day
	}
	if err := setting.Validate(); err != nil {
		return systemday.Setting{}, crerr.Wrap(err, "stored system day is invalid")
	}
	return setting, nil
}
