package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StateRecord is the single table behind the Postgres backend: one jsonb
// document per logical key, mirroring the key-value contract exactly.
type StateRecord struct {
	Key   string `gorm:"primaryKey;size:64"`
	Value string `gorm:"type:jsonb;not null"`
}

func (StateRecord) TableName() string { return "state_records" }

// GormStore persists state documents through gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore migrates the state table and returns the store.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&StateRecord{}); err != nil {
		return nil, fmt.Errorf("storage: migrate state table: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Load(key string) (json.RawMessage, bool, error) {
	var rec StateRecord
	err := s.db.First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: db load %q: %w", key, err)
	}
	return json.RawMessage(rec.Value), true, nil
}

func (s *GormStore) Save(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("storage: encode %q: %w", key, err)
	}
	rec := StateRecord{Key: key, Value: string(data)}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("storage: db save %q: %w", key, err)
	}
	return nil
}

func (s *GormStore) Clear(key string) error {
	// Idempotent delete: an absent key still clears successfully.
	if err := s.db.Delete(&StateRecord{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("storage: db clear %q: %w", key, err)
	}
	return nil
}
