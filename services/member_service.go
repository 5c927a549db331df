package services

import (
	"context"
	"fmt"

	"github.com/kendall-kelly/shop-api/logger"
	"github.com/kendall-kelly/shop-api/metrics"
	"github.com/kendall-kelly/shop-api/models"
	"github.com/kendall-kelly/shop-api/repository"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// MemberService registers and looks up members
type MemberService struct {
	uow     *repository.UnitOfWorkFactory
	members *repository.MemberRepository
	log     *log.Entry
}

var memberServiceInstance *MemberService

// NewMemberService creates a member service on top of the unit of work factory
func NewMemberService(uow *repository.UnitOfWorkFactory) *MemberService {
	return &MemberService{
		uow:     uow,
		members: repository.NewMemberRepository(),
		log:     logger.Component("member_service"),
	}
}

// InitMemberService creates the process-wide member service
func InitMemberService(uow *repository.UnitOfWorkFactory) *MemberService {
	memberServiceInstance = NewMemberService(uow)
	return memberServiceInstance
}

// GetMemberService returns the initialized member service instance
func GetMemberService() *MemberService {
	return memberServiceInstance
}

// SetMemberService sets the member service instance (primarily for testing)
func SetMemberService(service *MemberService) {
	memberServiceInstance = service
}

// Join registers a new member and returns its id.
// It fails with a *models.DuplicateMemberError when the name is already taken.
func (s *MemberService) Join(ctx context.Context, member *models.Member) (id uint, err error) {
	ctx, span := startSpan(ctx, "MemberService.Join", attribute.String("member.name", member.Name))
	defer func() { endSpan(span, err) }()

	if err := member.Validate(); err != nil {
		return 0, err
	}

	uow, err := s.uow.Begin(ctx, false)
	if err != nil {
		return 0, err
	}
	defer uow.Rollback()

	if err := s.validateDuplicateMember(uow, member.Name); err != nil {
		metrics.JoinRejected.Inc()
		return 0, err
	}
	if err := s.members.Save(uow, member); err != nil {
		return 0, err
	}
	if err := uow.Commit(); err != nil {
		return 0, err
	}

	metrics.MembersJoined.Inc()
	s.log.WithField("member_id", member.ID).Info("Member joined")
	return member.ID, nil
}

// validateDuplicateMember is a read-then-write check; two concurrent joins with
// the same name can both pass it.
func (s *MemberService) validateDuplicateMember(uow *repository.UnitOfWork, name string) error {
	existing, err := s.members.FindByName(uow, name)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return &models.DuplicateMemberError{Name: name}
	}
	return nil
}

// FindMembers lists every member
func (s *MemberService) FindMembers(ctx context.Context) (members []models.Member, err error) {
	ctx, span := startSpan(ctx, "MemberService.FindMembers")
	defer func() { endSpan(span, err) }()

	uow, err := s.uow.Begin(ctx, true)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	members, err = s.members.FindAll(uow)
	if err != nil {
		return nil, err
	}
	return members, uow.Commit()
}

// FindOne returns models.ErrNotFound for an unknown id
func (s *MemberService) FindOne(ctx context.Context, id uint) (member *models.Member, err error) {
	ctx, span := startSpan(ctx, "MemberService.FindOne", attribute.Int64("member.id", int64(id)))
	defer func() { endSpan(span, err) }()

	uow, err := s.uow.Begin(ctx, true)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	member, err = s.members.FindOne(uow, id)
	if err != nil {
		return nil, err
	}
	return member, uow.Commit()
}

// Update renames a member. The new name is not checked for duplicates.
func (s *MemberService) Update(ctx context.Context, id uint, name string) (err error) {
	ctx, span := startSpan(ctx, "MemberService.Update", attribute.Int64("member.id", int64(id)))
	defer func() { endSpan(span, err) }()

	uow, err := s.uow.Begin(ctx, false)
	if err != nil {
		return err
	}
	defer uow.Rollback()

	member, err := s.members.FindOne(uow, id)
	if err != nil {
		return err
	}
	if err := member.Rename(name); err != nil {
		return err
	}
	if err := s.members.Save(uow, member); err != nil {
		return fmt.Errorf("update member %d: %w", id, err)
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.log.WithField("member_id", id).Info("Member updated")
	return nil
}
