package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/domain/models"
	"taskboard/domain/repositories"
)

type ProjectRepositoryImpl struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) repositories.ProjectRepository {
	return &ProjectRepositoryImpl{db: db}
}

func (r *ProjectRepositoryImpl) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *ProjectRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Preload("Members").Preload("Members.User").
		Where("id = ?", id).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepositoryImpl) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Preload("Members").Preload("Members.User").
		Where("slug = ?", slug).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepositoryImpl) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *ProjectRepositoryImpl) ListByMember(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.Project, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Project{}).
		Joins("JOIN project_members pm ON pm.project_id = projects.id").
		Where("pm.user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []*models.Project
	err := base.
		Preload("Members").Preload("Members.User").
		Order("projects.updated_at DESC").
		Offset(offset).Limit(limit).
		Find(&projects).Error
	return projects, total, err
}

func (r *ProjectRepositoryImpl) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Omit("Members").Save(project).Error
}

func (r *ProjectRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Project{}).Error
	})
}

func (r *ProjectRepositoryImpl) AddMember(ctx context.Context, member *models.ProjectMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *ProjectRepositoryImpl) UpdateMemberRole(ctx context.Context, projectID, userID uuid.UUID, role models.MemberRole) error {
	return r.db.WithContext(ctx).Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Update("role", role).Error
}

func (r *ProjectRepositoryImpl) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{}).Error
}
