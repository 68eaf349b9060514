package services

import (
	"errors"

	"jobconnect_backend/internal/models"
	"jobconnect_backend/internal/repositories"
	"jobconnect_backend/internal/services/dto"
	"jobconnect_backend/pkg/apperrors"
)

type JobService interface {
	Create(employerID string, req *dto.CreateJobRequest) (*models.Job, error)
	GetByID(jobID string) (*models.Job, error)
	List(filter *dto.JobFilterRequest, page, pageSize int) ([]models.Job, int64, error)
	ListByEmployer(employerID string) ([]models.Job, error)
	Delete(jobID, employerID string) error
}

type JobServiceImpl struct {
	jobRepo  repositories.JobRepository
	userRepo repositories.UserRepository
}

func NewJobService(jobRepo repositories.JobRepository, userRepo repositories.UserRepository) JobService {
	return &JobServiceImpl{jobRepo: jobRepo, userRepo: userRepo}
}

func (s *JobServiceImpl) Create(employerID string, req *dto.CreateJobRequest) (*models.Job, error) {
	employer, err := s.userRepo.FindByID(employerID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if employer.Role == nil || *employer.Role != models.UserRoleEmployer {
		return nil, apperrors.ErrNotEmployer
	}

	jobType := models.JobType(req.JobType)
	if !models.ValidJobType(jobType) {
		return nil, apperrors.NewBadRequestError("Invalid job type")
	}

	job := &models.Job{
		Title:       req.Title,
		Description: req.Description,
		Salary:      req.Salary,
		Location:    req.Location,
		JobType:     jobType,
		Industry:    req.Industry,
		ImageURL:    req.ImageURL,
		EmployerID:  employerID,
	}
	if err := s.jobRepo.Create(job); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return job, nil
}

func (s *JobServiceImpl) GetByID(jobID string) (*models.Job, error) {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return job, nil
}

func (s *JobServiceImpl) List(filter *dto.JobFilterRequest, page, pageSize int) ([]models.Job, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	jobs, total, err := s.jobRepo.FindWithFilter(repositories.JobFilter{
		Industry: filter.Industry,
		Location: filter.Location,
		JobType:  models.JobType(filter.JobType),
		Search:   filter.Search,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return jobs, total, nil
}

func (s *JobServiceImpl) ListByEmployer(employerID string) ([]models.Job, error) {
	jobs, err := s.jobRepo.FindByEmployer(employerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return jobs, nil
}

// Delete удаляет вакансию. Разрешено только ее автору.
func (s *JobServiceImpl) Delete(jobID, employerID string) error {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return apperrors.ErrJobNotFound
		}
		return apperrors.InternalError(err)
	}
	if job.EmployerID != employerID {
		return apperrors.NewForbiddenError("You can only delete your own jobs")
	}

	if err := s.jobRepo.Delete(jobID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
