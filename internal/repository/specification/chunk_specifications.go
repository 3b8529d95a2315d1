package specification

import (
	"strings"

	"gorm.io/gorm"
)

type BySourceKey struct {
	Source   string
	SourceId string
}

func (s BySourceKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("source = ? AND source_id = ?", s.Source, s.SourceId)
}

type BySource struct {
	Source string
}

func (s BySource) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("source = ?", s.Source)
}

// BySourceIdPrefix matches chunk keys derived from one ingested record.
type BySourceIdPrefix struct {
	Prefix string
}

func (s BySourceIdPrefix) Apply(db *gorm.DB) *gorm.DB {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s.Prefix)
	return db.Where("source_id LIKE ?", escaped+"%")
}

type HasEmbedding struct{}

func (s HasEmbedding) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("embedding_value IS NOT NULL")
}
