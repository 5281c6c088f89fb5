package db

import "time"

// Photo 定义摄影作品记录模型
type Photo struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	ImageURL     string    `gorm:"size:500;not null" json:"imageUrl"`
	ThumbnailURL string    `gorm:"size:500" json:"thumbnailUrl"`
	Category     string    `gorm:"size:50" json:"category"`
	Location     string    `gorm:"size:200" json:"location"`
	IsFeatured   bool      `gorm:"default:false" json:"isFeatured"`
	DisplayOrder int       `gorm:"default:0;index" json:"displayOrder"`
	Status       string    `gorm:"size:20;default:draft;index" json:"status"` // draft, published
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
