package models

import "time"

// Snapshot holds one named JSON state record. The in-memory components stay
// authoritative; these rows are best-effort copies rewritten after each
// mutation.
type Snapshot struct {
	Name      string    `gorm:"column:name;primaryKey"`
	Payload   []byte    `gorm:"column:payload;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Snapshot) TableName() string {
	return "snapshots"
}
