package models

type Job struct {
	BaseModel
	Title        string  `gorm:"not null" json:"title"`
	Description  string  `gorm:"type:text;not null" json:"description"`
	Salary       string  `gorm:"not null" json:"salary"`
	Location     string  `gorm:"not null" json:"location"`
	JobType      JobType `gorm:"type:varchar(20);not null" json:"job_type"`
	Industry     string  `gorm:"not null" json:"industry"`
	ImageURL     string  `json:"image_url,omitempty"`
	EmployerID   string  `gorm:"index;not null" json:"employer_id"`
	Applications int     `gorm:"default:0" json:"applications"`
}

// ValidJobType проверяет тип занятости
func ValidJobType(t JobType) bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeTemporary, JobTypeInternship:
		return true
	default:
		return false
	}
}
