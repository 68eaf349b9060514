package repositories

import (
	"errors"

	"jobconnect_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrApplicationExists   = errors.New("application already exists")
)

type ApplicationRepository interface {
	Create(app *models.Application) error
	FindByID(id string) (*models.Application, error)
	FindByUser(userID string) ([]models.Application, error)
	FindByJob(jobID string) ([]models.Application, error)
	UpdateStatus(id string, status models.ApplicationStatus, employerMessage string) error
}

type ApplicationRepositoryImpl struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &ApplicationRepositoryImpl{db: db}
}

func (r *ApplicationRepositoryImpl) Create(app *models.Application) error {
	// Уникальный индекс (user_id, job_id) запрещает повторные отклики
	var count int64
	if err := r.db.Model(&models.Application{}).
		Where("user_id = ? AND job_id = ?", app.UserID, app.JobID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrApplicationExists
	}

	if err := r.db.Create(app).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrApplicationExists
		}
		return err
	}
	return nil
}

func (r *ApplicationRepositoryImpl) FindByID(id string) (*models.Application, error) {
	var app models.Application
	err := r.db.Preload("Job").First(&app, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) FindByUser(userID string) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.Preload("Job").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepositoryImpl) FindByJob(jobID string) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.Where("job_id = ?", jobID).Order("created_at DESC").Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepositoryImpl) UpdateStatus(id string, status models.ApplicationStatus, employerMessage string) error {
	result := r.db.Model(&models.Application{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           status,
			"employer_message": employerMessage,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}
