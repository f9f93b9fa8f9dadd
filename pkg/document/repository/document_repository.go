package repository

import "sheetchat/entities"

type DocumentRepository interface {
	Create(*entities.Document) error
	List() ([]entities.Document, error)
	ByID(id string) (*entities.Document, error)
	Delete(id string) error
}
