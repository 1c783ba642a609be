package targets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/dashboard_backend/config"
	"bitbucket.org/mmdatafocus/dashboard_backend/models"
	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// GormFlagStore persists achievement flags as append-only rows. The unique
// key on (business, flag_type, period_key) makes a duplicate insert mean
// "already achieved", which is the whole idempotency guard.
type GormFlagStore struct {
	db *gorm.DB
}

func NewGormFlagStore(db *gorm.DB) *GormFlagStore {
	return &GormFlagStore{db: db}
}

func DefaultGormFlagStore() *GormFlagStore {
	return &GormFlagStore{db: config.GetDB()}
}

func (s *GormFlagStore) Set(ctx context.Context, businessId, flagType, periodKey string) (bool, error) {
	flag := models.TargetFlag{
		BusinessId: businessId,
		FlagType:   flagType,
		PeriodKey:  periodKey,
	}
	err := s.db.WithContext(ctx).Create(&flag).Error
	if err != nil {
		if isDuplicateKeyErr(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func isDuplicateKeyErr(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

const sessionFlagTTL = 24 * time.Hour

// RedisSessionFlags keeps milestone guards in a per-session Redis set. The
// set expires on its own, so a new session starts with no milestones marked.
// With Redis absent the helpers degrade to no-ops and milestones simply
// re-fire; notifications still depend on the durable achievement flags.
type RedisSessionFlags struct {
	ttl time.Duration
}

func NewRedisSessionFlags() *RedisSessionFlags {
	return &RedisSessionFlags{ttl: sessionFlagTTL}
}

func (r *RedisSessionFlags) MarkOnce(ctx context.Context, businessId, sessionId, flag string) (bool, error) {
	key := fmt.Sprintf("milestones:%s:%s", businessId, sessionId)
	seen, err := config.IsRedisSetMember(key, flag)
	if err != nil {
		return false, err
	}
	if seen {
		return false, nil
	}
	if err := config.AddRedisSet(key, flag); err != nil {
		return false, err
	}
	if err := config.ExpireRedisKey(key, r.ttl); err != nil {
		return false, err
	}
	return true, nil
}
