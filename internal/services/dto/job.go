package dto

type CreateJobRequest struct {
	Title       string `json:"title" binding:"required" validate:"required"`
	Description string `json:"description" binding:"required" validate:"required"`
	Salary      string `json:"salary" binding:"required" validate:"required"`
	Location    string `json:"location" binding:"required" validate:"required"`
	JobType     string `json:"job_type" binding:"required" validate:"required,is-job-type"`
	Industry    string `json:"industry" binding:"required" validate:"required"`
	ImageURL    string `json:"image_url"`
}

type JobFilterRequest struct {
	Industry string `form:"industry"`
	Location string `form:"location"`
	JobType  string `form:"job_type" validate:"omitempty,is-job-type"`
	Search   string `form:"search"`
}

type ApplyJobRequest struct {
	JobID    string `json:"job_id" binding:"required" validate:"required"`
	FullName string `json:"full_name"`
	Message  string `json:"message"`
}

type ReviewApplicationRequest struct {
	Status          string `json:"status" binding:"required" validate:"required,oneof=accepted rejected"`
	EmployerMessage string `json:"employer_message"`
}

type CreateItemRequest struct {
	Name        string  `json:"name" binding:"required" validate:"required"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	Price       float64 `json:"price" validate:"omitempty,gte=0"`
	Phone       string  `json:"phone" validate:"omitempty,is-cm-phone"`
	Image       string  `json:"image"`
	Video       string  `json:"video"`
}
