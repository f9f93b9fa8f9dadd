package repositoryImp

import (
	"gorm.io/gorm"

	"sheetchat/entities"
	"sheetchat/pkg/document/repository"
)

type repo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.DocumentRepository { return &repo{db} }

func (r *repo) Create(d *entities.Document) error { return r.db.Create(d).Error }
func (r *repo) List() ([]entities.Document, error) {
	ds := []entities.Document{}
	return ds, r.db.Order("created_at DESC").Find(&ds).Error
}
func (r *repo) ByID(id string) (*entities.Document, error) {
	var d entities.Document
	if err := r.db.First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}
func (r *repo) Delete(id string) error {
	return r.db.Delete(&entities.Document{}, "id = ?", id).Error
}
