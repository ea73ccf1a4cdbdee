package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema owned by the storefront. The Commerce API owns
// products, addresses and orders; only browser sessions live here.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(&sessionRecord{})
}

// Session schema mirrors the postgres session store.
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
