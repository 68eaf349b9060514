package repositories

import (
	"errors"

	"jobconnect_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrJobNotFound = errors.New("job not found")
)

type JobFilter struct {
	Industry string
	Location string
	JobType  models.JobType
	Search   string
	Page     int
	PageSize int
}

type JobRepository interface {
	Create(job *models.Job) error
	FindByID(id string) (*models.Job, error)
	FindWithFilter(criteria JobFilter) ([]models.Job, int64, error)
	FindByEmployer(employerID string) ([]models.Job, error)
	IncrementApplications(jobID string) error
	Delete(jobID string) error
}

type JobRepositoryImpl struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &JobRepositoryImpl{db: db}
}

func (r *JobRepositoryImpl) Create(job *models.Job) error {
	return r.db.Create(job).Error
}

func (r *JobRepositoryImpl) FindByID(id string) (*models.Job, error) {
	var job models.Job
	err := r.db.First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) FindWithFilter(criteria JobFilter) ([]models.Job, int64, error) {
	var jobs []models.Job
	query := r.db.Model(&models.Job{})

	if criteria.Industry != "" {
		query = query.Where("industry = ?", criteria.Industry)
	}
	if criteria.Location != "" {
		query = query.Where("location = ?", criteria.Location)
	}
	if criteria.JobType != "" {
		query = query.Where("job_type = ?", criteria.JobType)
	}
	if criteria.Search != "" {
		search := "%" + criteria.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((criteria.Page - 1) * criteria.PageSize).
		Limit(criteria.PageSize).
		Find(&jobs).Error

	return jobs, total, err
}

func (r *JobRepositoryImpl) FindByEmployer(employerID string) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.Where("employer_id = ?", employerID).Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}

func (r *JobRepositoryImpl) IncrementApplications(jobID string) error {
	result := r.db.Model(&models.Job{}).Where("id = ?", jobID).
		UpdateColumn("applications", gorm.Expr("applications + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) Delete(jobID string) error {
	result := r.db.Where("id = ?", jobID).Delete(&models.Job{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}
