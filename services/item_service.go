package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/kendall-kelly/shop-api/logger"
	"github.com/kendall-kelly/shop-api/models"
	"github.com/kendall-kelly/shop-api/repository"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// ItemService manages the catalog: items, their stock and their images
type ItemService struct {
	uow    *repository.UnitOfWorkFactory
	items  *repository.ItemRepository
	images ImageService
	log    *log.Entry
}

var itemServiceInstance *ItemService

// NewItemService creates an item service. images may be nil when no storage is configured.
func NewItemService(uow *repository.UnitOfWorkFactory, images ImageService) *ItemService {
	return &ItemService{
		uow:    uow,
		items:  repository.NewItemRepository(),
		images: images,
		log:    logger.Component("item_service"),
	}
}

// InitItemService creates the process-wide item service
func InitItemService(uow *repository.UnitOfWorkFactory, images ImageService) *ItemService {
	itemServiceInstance = NewItemService(uow, images)
	return itemServiceInstance
}

// GetItemService returns the initialized item service instance
func GetItemService() *ItemService {
	return itemServiceInstance
}

// SetItemService sets the item service instance (primarily for testing)
func SetItemService(service *ItemService) {
	itemServiceInstance = service
}

// SaveItem adds a new catalog item and returns its id
func (s *ItemService) SaveItem(ctx context.Context, item *models.Item) (id uint, err error) {
	ctx, span := startSpan(ctx, "ItemService.SaveItem", attribute.String("item.kind", item.DType.String()))
	defer func() { endSpan(span, err) }()

	if _, ok := models.ParseItemKind(string(item.DType)); !ok {
		return 0, fmt.Errorf("unknown item kind %q: %w", item.DType, models.ErrInvalidKind)
	}
	if err := item.Validate(); err != nil {
		return 0, err
	}

	uow, err := s.uow.Begin(ctx, false)
	if err != nil {
		return 0, err
	}
	defer uow.Rollback()

	if err := s.items.Save(uow, item); err != nil {
		return 0, err
	}
	if err := uow.Commit(); err != nil {
		return 0, err
	}

	s.log.WithFields(log.Fields{"item_id": item.ID, "kind": item.DType.String()}).Info("Item saved")
	return item.ID, nil
}

// UpdateItem changes name, price and stock of a stored item
func (s *ItemService) UpdateItem(ctx context.Context, id uint, name string, price, stockQuantity int) (item *models.Item, err error) {
	ctx, span := startSpan(ctx, "ItemService.UpdateItem", attribute.Int64("item.id", int64(id)))
	defer func() { endSpan(span, err) }()

	uow, err := s.uow.Begin(ctx, false)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	item, err = s.items.FindOne(uow, id)
	if err != nil {
		return nil, err
	}
	if err := item.Change(name, price, stockQuantity); err != nil {
		return nil, err
	}
	if err := s.items.Save(uow, item); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.resolveImageURL(ctx, item)
	return item, nil
}

// FindItems lists the catalog with image URLs resolved
func (s *ItemService) FindItems(ctx context.Context) (items []models.Item, err error) {
	ctx, span := startSpan(ctx, "ItemService.FindItems")
	defer func() { endSpan(span, err) }()

	uow, err := s.uow.Begin(ctx, true)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	items, err = s.items.FindAll(uow)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	for i := range items {
		s.resolveImageURL(ctx, &items[i])
	}
	return items, nil
}

// FindOne returns models.ErrNotFound for an unknown id
func (s *ItemService) FindOne(ctx context.Context, id uint) (item *models.Item, err error) {
	ctx, span := startSpan(ctx, "ItemService.FindOne", attribute.Int64("item.id", int64(id)))
	defer func() { endSpan(span, err) }()

	uow, err := s.uow.Begin(ctx, true)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	item, err = s.items.FindOne(uow, id)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.resolveImageURL(ctx, item)
	return item, nil
}

// AttachImage stores a new image for the item and replaces the previous one
func (s *ItemService) AttachImage(ctx context.Context, id uint, fileHeader *multipart.FileHeader) (item *models.Item, err error) {
	ctx, span := startSpan(ctx, "ItemService.AttachImage", attribute.Int64("item.id", int64(id)))
	defer func() { endSpan(span, err) }()

	if s.images == nil {
		return nil, ErrImageStorageDisabled
	}

	// fail fast on unknown items before uploading anything
	if _, err := s.FindOne(ctx, id); err != nil {
		return nil, err
	}

	key, err := s.images.UploadImage(ctx, id, fileHeader)
	if err != nil {
		return nil, err
	}

	item, previous, err := s.storeImageKey(ctx, id, key)
	if err != nil {
		if delErr := s.images.DeleteImage(ctx, key); delErr != nil {
			s.log.WithError(delErr).WithField("key", key).Warn("Failed to remove orphaned image")
		}
		return nil, err
	}

	if previous != "" {
		if err := s.images.DeleteImage(ctx, previous); err != nil {
			s.log.WithError(err).WithField("key", previous).Warn("Failed to remove replaced image")
		}
	}

	s.log.WithFields(log.Fields{"item_id": id, "key": key}).Info("Item image attached")
	s.resolveImageURL(ctx, item)
	return item, nil
}

func (s *ItemService) storeImageKey(ctx context.Context, id uint, key string) (*models.Item, string, error) {
	uow, err := s.uow.Begin(ctx, false)
	if err != nil {
		return nil, "", err
	}
	defer uow.Rollback()

	item, err := s.items.FindOne(uow, id)
	if err != nil {
		return nil, "", err
	}
	var previous string
	if item.ImageKey != nil {
		previous = *item.ImageKey
	}
	item.ImageKey = &key
	if err := s.items.Save(uow, item); err != nil {
		return nil, "", err
	}
	if err := uow.Commit(); err != nil {
		return nil, "", err
	}
	return item, previous, nil
}

// ImageURL returns the public URL of the item image, empty when it has none
func (s *ItemService) ImageURL(ctx context.Context, item *models.Item) (string, error) {
	if s.images == nil || item.ImageKey == nil || *item.ImageKey == "" {
		return "", nil
	}
	return s.images.GetImageURL(ctx, *item.ImageKey)
}

// resolveImageURL fills item.ImageURL; a storage failure only drops the URL
func (s *ItemService) resolveImageURL(ctx context.Context, item *models.Item) {
	url, err := s.ImageURL(ctx, item)
	if err != nil {
		s.log.WithError(err).WithField("item_id", item.ID).Warn("Failed to resolve image URL")
		return
	}
	if url != "" {
		item.ImageURL = &url
	}
}
