package models

type Application struct {
	BaseModel
	FullName string `gorm:"not null" json:"full_name"`
	UserID   string `gorm:"index:idx_applications_user_job,unique;not null" json:"user_id"`
	JobID    string `gorm:"index:idx_applications_user_job,unique;not null" json:"job_id"`

	Status          ApplicationStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	EmployerMessage string            `gorm:"default:''" json:"employer_message"`

	Job *Job `gorm:"foreignKey:JobID" json:"job,omitempty"`
}
