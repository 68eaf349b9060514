package services

import (
	"errors"

	"jobconnect_backend/internal/email"
	"jobconnect_backend/internal/logger"
	"jobconnect_backend/internal/models"
	"jobconnect_backend/internal/repositories"
	"jobconnect_backend/internal/services/dto"
	"jobconnect_backend/pkg/apperrors"
)

type ApplicationService interface {
	Apply(userID string, req *dto.ApplyJobRequest) (*models.Application, error)
	ListByUser(userID string) ([]models.Application, error)
	ListByJob(jobID, employerID string) ([]models.Application, error)
	Review(applicationID, employerID string, req *dto.ReviewApplicationRequest) error
}

type ApplicationServiceImpl struct {
	appRepo  repositories.ApplicationRepository
	jobRepo  repositories.JobRepository
	userRepo repositories.UserRepository
	email    email.Provider
}

func NewApplicationService(
	appRepo repositories.ApplicationRepository,
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	emailProvider email.Provider,
) ApplicationService {
	return &ApplicationServiceImpl{
		appRepo:  appRepo,
		jobRepo:  jobRepo,
		userRepo: userRepo,
		email:    emailProvider,
	}
}

func (s *ApplicationServiceImpl) Apply(userID string, req *dto.ApplyJobRequest) (*models.Application, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	job, err := s.jobRepo.FindByID(req.JobID)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	fullName := req.FullName
	if fullName == "" {
		fullName = user.FullName
	}

	app := &models.Application{
		FullName: fullName,
		UserID:   userID,
		JobID:    job.ID,
		Status:   models.ApplicationStatusPending,
	}
	if err := s.appRepo.Create(app); err != nil {
		if errors.Is(err, repositories.ErrApplicationExists) {
			return nil, apperrors.ErrDuplicateApplication
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.jobRepo.IncrementApplications(job.ID); err != nil {
		logger.WithError(err).Error("failed to bump application counter", "job_id", job.ID)
	}

	return app, nil
}

func (s *ApplicationServiceImpl) ListByUser(userID string) ([]models.Application, error) {
	apps, err := s.appRepo.FindByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return apps, nil
}

// ListByJob возвращает отклики на вакансию. Доступно только ее автору.
func (s *ApplicationServiceImpl) ListByJob(jobID, employerID string) ([]models.Application, error) {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if job.EmployerID != employerID {
		return nil, apperrors.NewForbiddenError("You can only view applications to your own jobs")
	}

	apps, err := s.appRepo.FindByJob(jobID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return apps, nil
}

func (s *ApplicationServiceImpl) Review(applicationID, employerID string, req *dto.ReviewApplicationRequest) error {
	app, err := s.appRepo.FindByID(applicationID)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	if app.Job == nil || app.Job.EmployerID != employerID {
		return apperrors.NewForbiddenError("You can only review applications to your own jobs")
	}

	status := models.ApplicationStatus(req.Status)
	if status != models.ApplicationStatusAccepted && status != models.ApplicationStatusRejected {
		return apperrors.NewBadRequestError("Status must be accepted or rejected")
	}

	if err := s.appRepo.UpdateStatus(applicationID, status, req.EmployerMessage); err != nil {
		return apperrors.InternalError(err)
	}

	// Уведомление соискателю best-effort
	applicant, err := s.userRepo.FindByID(app.UserID)
	if err == nil {
		subject := "Your application was " + string(status)
		body := "Your application for \"" + app.Job.Title + "\" was " + string(status) + "."
		if req.EmployerMessage != "" {
			body += "\n\nMessage from the employer:\n" + req.EmployerMessage
		}
		if err := s.email.Send(applicant.Email, subject, body); err != nil {
			logger.WithError(err).Warn("failed to notify applicant", "application_id", applicationID)
		}
	}

	return nil
}
