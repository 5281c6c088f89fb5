package handler

import (
	"github.com/lenslog/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db          *gorm.DB
	photos      *service.PhotoService
	assignments *service.AssignmentService
	reader      *service.PublicReader
	uploadDir   string
	uploadURL   string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, uploadDir, uploadURL string) *API {
	return &API{
		db:          db,
		photos:      service.NewPhotoService(db),
		assignments: service.NewAssignmentService(db),
		reader:      service.NewPublicReader(db),
		uploadDir:   uploadDir,
		uploadURL:   uploadURL,
	}
}
