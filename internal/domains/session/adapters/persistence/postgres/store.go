package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-storefront/internal/domains/session/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/session/ports"
)

// DefaultSessionTTL provides the fallback TTL when none is configured.
const DefaultSessionTTL = 24 * time.Hour

// Store persists storefront sessions in PostgreSQL.
type Store struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewStore wires a PostgreSQL-backed session store. Caller owns DB lifecycle.
func NewStore(db *gorm.DB, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Store{db: db, ttl: ttl, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (s *Store) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

type sessionRecord struct {
	ID        string         `gorm:"primaryKey;column:id;size:64"`
	Username  string         `gorm:"column:username;index"`
	Token     string         `gorm:"column:token;type:text"`
	IsAdmin   bool           `gorm:"column:is_admin"`
	Roles     pq.StringArray `gorm:"column:roles;type:text[]"`
	ExpiresAt *time.Time     `gorm:"column:expires_at;index"`
	CreatedAt time.Time      `gorm:"column:created_at;index"`
	UpdatedAt time.Time      `gorm:"column:updated_at;index"`
}

func (sessionRecord) TableName() string { return "storefront_sessions" }

// Load returns the stored session, or a logged-out session when missing or expired.
func (s *Store) Load(ctx context.Context, id string) (domain.Session, error) {
	if err := s.ensureDB(); err != nil {
		return domain.Session{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Session{}, ports.ErrInvalidSessionID
	}
	var rec sessionRecord
	err := s.db.WithContext(ctx).
		Where("id = ? AND (expires_at IS NULL OR expires_at > ?)", id, s.now()).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Session{}, nil
	}
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{
		LoggedIn: true,
		IsAdmin:  rec.IsAdmin,
		Token:    rec.Token,
		Username: rec.Username,
		Roles:    []string(rec.Roles),
	}, nil
}

// Save upserts the session and extends its expiry. Saving a logged-out
// session removes the row.
func (s *Store) Save(ctx context.Context, id string, session domain.Session) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return ports.ErrInvalidSessionID
	}
	if !session.LoggedIn {
		return s.Delete(ctx, id)
	}
	expiry := s.now().Add(s.ttl)
	rec := sessionRecord{
		ID:        id,
		Username:  session.Username,
		Token:     session.Token,
		IsAdmin:   session.IsAdmin,
		Roles:     pq.StringArray(session.Roles),
		ExpiresAt: &expiry,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "token", "is_admin", "roles", "expires_at", "updated_at"}),
		}).
		Create(&rec).Error
}

// Delete removes a session by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&sessionRecord{}, "id = ?", id).Error
}

// PurgeExpired removes all expired sessions. Use for housekeeping or cron.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	res := s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", s.now()).
		Delete(&sessionRecord{})
	return res.RowsAffected, res.Error
}

func (s *Store) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres session store not configured")
	}
	return nil
}

var _ ports.Store = (*Store)(nil)
