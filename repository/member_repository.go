package repository

import (
	"github.com/kendall-kelly/shop-api/models"
	"gorm.io/gorm/clause"
)

var (
	memberIDColumn   = clause.Column{Name: "member_id"}
	memberNameColumn = clause.Column{Name: "name"}
)

// MemberRepository stores members
type MemberRepository struct{}

func NewMemberRepository() *MemberRepository {
	return &MemberRepository{}
}

// Save inserts a new member (id 0) or updates an existing one
func (r *MemberRepository) Save(uow *UnitOfWork, member *models.Member) error {
	db := uow.DB()
	if member.ID == 0 {
		return translate(db.Create(member).Error, "save member")
	}
	return translate(db.Save(member).Error, "save member")
}

// FindOne returns models.ErrNotFound when no member has the id
func (r *MemberRepository) FindOne(uow *UnitOfWork, id uint) (*models.Member, error) {
	var member models.Member
	if err := uow.DB().Where(clause.Eq{Column: memberIDColumn, Value: id}).Take(&member).Error; err != nil {
		return nil, translate(err, "find member")
	}
	return &member, nil
}

func (r *MemberRepository) FindAll(uow *UnitOfWork) ([]models.Member, error) {
	var members []models.Member
	err := uow.DB().Order(clause.OrderByColumn{Column: memberIDColumn}).Find(&members).Error
	if err != nil {
		return nil, translate(err, "find members")
	}
	return members, nil
}

// FindByName returns every member whose name is exactly name
func (r *MemberRepository) FindByName(uow *UnitOfWork, name string) ([]models.Member, error) {
	var members []models.Member
	err := uow.DB().
		Where(clause.Eq{Column: memberNameColumn, Value: name}).
		Order(clause.OrderByColumn{Column: memberIDColumn}).
		Find(&members).Error
	if err != nil {
		return nil, translate(err, "find members by name")
	}
	return members, nil
}
