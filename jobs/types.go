package jobs

import "time"

// JobStatus is the lifecycle of a job listing. New listings start as
// DRAFT and go ACTIVE once the listing payment is confirmed.
type JobStatus string

const (
	JobStatusDraft   JobStatus = "DRAFT"
	JobStatusActive  JobStatus = "ACTIVE"
	JobStatusExpired JobStatus = "EXPIRED"
)

// ApplicationStatus tracks a submitted application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationReviewed ApplicationStatus = "reviewed"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// CompanyDetails is the company summary embedded in job listings.
type CompanyDetails struct {
	Name     string  `json:"name"`
	Logo     *string `json:"logo,omitempty"`
	About    string  `json:"about,omitempty"`
	Location string  `json:"location"`
	Website  string  `json:"website,omitempty"`
	XAccount *string `json:"x_account,omitempty"`
}

// JobPost is a job listing as served by the backend.
type JobPost struct {
	ID              string          `json:"id"`
	JobTitle        string          `json:"job_title"`
	EmploymentType  string          `json:"employment_type"`
	Location        string          `json:"location"`
	SalaryFrom      int             `json:"salary_from"`
	SalaryTo        int             `json:"salary_to"`
	JobDescription  string          `json:"job_description"`
	ListingDuration int             `json:"listing_duration"`
	Benefits        []string        `json:"benefits"`
	Status          JobStatus       `json:"status"`
	Applications    int             `json:"applications"`
	CompanyDetails  *CompanyDetails `json:"company_details,omitempty"`
	CreatedAt       time.Time       `json:"created_at,omitzero"`
}

// JobData is the payload for creating or updating a listing.
type JobData struct {
	JobTitle        string   `json:"job_title"`
	EmploymentType  string   `json:"employment_type"`
	Location        string   `json:"location"`
	SalaryFrom      int      `json:"salary_from"`
	SalaryTo        int      `json:"salary_to"`
	JobDescription  string   `json:"job_description"`
	ListingDuration int      `json:"listing_duration"`
	Benefits        []string `json:"benefits"`
}

// ListParams filters the public job listing endpoint.
type ListParams struct {
	Search         string
	EmploymentType string
	Location       string
	Page           int
}

// Page is the DRF pagination envelope.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next,omitempty"`
	Previous *string `json:"previous,omitempty"`
	Results  []T     `json:"results"`
}

// SavedJob links a user to a saved listing.
type SavedJob struct {
	ID         string    `json:"id"`
	Job        string    `json:"job"`
	JobDetails JobPost   `json:"job_details"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
}

// Application is a submitted job application.
type Application struct {
	ID          string            `json:"id"`
	Status      ApplicationStatus `json:"status"`
	CoverLetter string            `json:"cover_letter,omitempty"`
	JobDetails  *JobPost          `json:"job_details,omitempty"`
	Applicant   *Applicant        `json:"applicant,omitempty"`
	AppliedAt   time.Time         `json:"applied_at,omitzero"`
}

// Applicant is the job-seeker summary a company sees on applications.
type Applicant struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	About  string `json:"about,omitempty"`
	Resume string `json:"resume,omitempty"`
}

// JobApplications is the per-listing application view for companies.
type JobApplications struct {
	Count    int           `json:"count"`
	JobTitle string        `json:"job_title"`
	Results  []Application `json:"results"`
}

// CompanyData is the company onboarding profile.
type CompanyData struct {
	Name     string  `json:"name"`
	Location string  `json:"location"`
	Website  string  `json:"website"`
	XAccount *string `json:"x_account,omitempty"`
	About    string  `json:"about"`
	Logo     *string `json:"logo,omitempty"`
}

// JobSeekerData is the job-seeker onboarding profile. Resume must be a
// URL to an uploaded document.
type JobSeekerData struct {
	Name   string `json:"name"`
	About  string `json:"about"`
	Resume string `json:"resume"`
}
