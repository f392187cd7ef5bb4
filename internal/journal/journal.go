package journal

import (
	"time"

	"github.com/yanun0323/errors"
	"gorm.io/gorm"

	"main/internal/schema"
	"main/pkg/exception"
)

// Direction marks which way an envelope crossed the wire.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Record is one journaled envelope.
type Record struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	Direction Direction `gorm:"size:3;index"`
	Type      string    `gorm:"size:64;index"`
	MessageID string    `gorm:"size:64"`
	Timestamp int64
	Payload   []byte
	CreatedAt time.Time
}

// TableName keeps the table name stable across gorm naming strategies.
func (Record) TableName() string {
	return "envelope_journal"
}

// Journal persists envelope traffic for operator inspection and replay.
type Journal struct {
	db *gorm.DB
}

// New migrates the journal table and returns a journal over db.
func New(db *gorm.DB) (*Journal, error) {
	if db == nil {
		return nil, exception.ErrNilInstance
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, errors.Wrap(err, "migrate envelope journal")
	}
	return &Journal{db: db}, nil
}

// RecordOutbound journals one client-originated envelope.
func (j *Journal) RecordOutbound(env schema.Envelope) error {
	return j.record(DirectionOut, env)
}

// RecordInbound journals one server-originated envelope.
func (j *Journal) RecordInbound(env schema.Envelope) error {
	return j.record(DirectionIn, env)
}

func (j *Journal) record(dir Direction, env schema.Envelope) error {
	if j == nil || j.db == nil {
		return exception.ErrNilInstance
	}
	rec := Record{
		Direction: dir,
		Type:      env.Type,
		MessageID: env.MessageID,
		Timestamp: env.Timestamp,
		Payload:   []byte(env.Payload),
	}
	if err := j.db.Create(&rec).Error; err != nil {
		return errors.Wrapf(err, "journal %s %s", dir, env.Type)
	}
	return nil
}

// Recent returns the latest records, newest first.
func (j *Journal) Recent(limit int) ([]Record, error) {
	if j == nil || j.db == nil {
		return nil, exception.ErrNilInstance
	}
	if limit <= 0 {
		limit = 50
	}
	var records []Record
	if err := j.db.Order("id desc").Limit(limit).Find(&records).Error; err != nil {
		return nil, errors.Wrap(err, "load journal records")
	}
	return records, nil
}

// CountByType returns how many records of the given type and direction exist.
func (j *Journal) CountByType(dir Direction, msgType string) (int64, error) {
	if j == nil || j.db == nil {
		return 0, exception.ErrNilInstance
	}
	var count int64
	err := j.db.Model(&Record{}).
		Where("direction = ? AND type = ?", dir, msgType).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrapf(err, "count journal %s %s", dir, msgType)
	}
	return count, nil
}
