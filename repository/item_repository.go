package repository

import (
	"github.com/kendall-kelly/shop-api/models"
	"gorm.io/gorm/clause"
)

var itemIDColumn = clause.Column{Name: "item_id"}

// ItemRepository stores catalog items of every kind in the single item table
type ItemRepository struct{}

func NewItemRepository() *ItemRepository {
	return &ItemRepository{}
}

// Save inserts the item when its id is 0 and merges it into the stored row otherwise
func (r *ItemRepository) Save(uow *UnitOfWork, item *models.Item) error {
	db := uow.DB()
	if item.ID == 0 {
		return translate(db.Create(item).Error, "save item")
	}
	return translate(db.Save(item).Error, "save item")
}

func (r *ItemRepository) FindOne(uow *UnitOfWork, id uint) (*models.Item, error) {
	var item models.Item
	if err := uow.DB().Where(clause.Eq{Column: itemIDColumn, Value: id}).Take(&item).Error; err != nil {
		return nil, translate(err, "find item")
	}
	return &item, nil
}

func (r *ItemRepository) FindAll(uow *UnitOfWork) ([]models.Item, error) {
	var items []models.Item
	if err := uow.DB().Order(clause.OrderByColumn{Column: itemIDColumn}).Find(&items).Error; err != nil {
		return nil, translate(err, "find items")
	}
	return items, nil
}

// FindByIDs returns the items with the given ids keyed by id.
// Ids without a stored item are absent from the map.
func (r *ItemRepository) FindByIDs(uow *UnitOfWork, ids []uint) (map[uint]*models.Item, error) {
	found := make(map[uint]*models.Item, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	values := make([]interface{}, len(ids))
	for i, id := range ids {
		values[i] = id
	}

	var items []models.Item
	if err := uow.DB().Where(clause.IN{Column: itemIDColumn, Values: values}).Find(&items).Error; err != nil {
		return nil, translate(err, "find items by id")
	}
	for i := range items {
		found[items[i].ID] = &items[i]
	}
	return found, nil
}
