package models

type UserRole string
type ApplicationStatus string
type JobType string

const (
	UserRoleJobseeker UserRole = "jobseeker"
	UserRoleEmployer  UserRole = "employer"
	UserRoleAdmin     UserRole = "admin"

	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusReviewed ApplicationStatus = "reviewed"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"

	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeContract   JobType = "Contract"
	JobTypeTemporary  JobType = "Temporary"
	JobTypeInternship JobType = "Internship"
)

// ValidUserRole проверяет, что роль входит в допустимый перечень
func ValidUserRole(role UserRole) bool {
	switch role {
	case UserRoleJobseeker, UserRoleEmployer, UserRoleAdmin:
		return true
	default:
		return false
	}
}
