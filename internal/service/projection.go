package service

import (
	"github.com/lenslog/internal/db"
	"gorm.io/gorm"
)

// PublicReader is the read-only capability handed to the public site.
// It exposes the two public projections and nothing else; the admin
// services never pass through it, so the public path cannot mutate.
type PublicReader struct {
	db *gorm.DB
}

// NewPublicReader creates a PublicReader over the shared store.
func NewPublicReader(gdb *gorm.DB) *PublicReader {
	return &PublicReader{db: gdb}
}

// PublishedPhotos returns published photos ordered by display_order then id.
func (r *PublicReader) PublishedPhotos() ([]db.Photo, error) {
	var items []db.Photo
	if err := r.db.Model(&db.Photo{}).
		Where("status = ?", PhotoStatusPublished).
		Order("display_order asc").Order("id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ComponentFeed returns a slot's assignments joined with their current
// photo records, ordered by sort_order then id.
func (r *PublicReader) ComponentFeed(componentName string) ([]AssignmentView, error) {
	return listComponentViews(r.db, componentName)
}
