// Package jobs is the typed client for listings, saved jobs,
// applications and the onboarding profiles.
//
// Every authenticated call runs through the auth client's retry policy:
// a 401 triggers one coordinated token refresh and a single rerun.
package jobs

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/worknest/worknest-go/api"
	"github.com/worknest/worknest-go/auth"
)

// Client issues job-board API calls.
type Client struct {
	api  *api.Client
	auth *auth.Client
}

// NewClient creates a jobs client.
func NewClient(apiClient *api.Client, authClient *auth.Client) *Client {
	return &Client{api: apiClient, auth: authClient}
}

// List fetches the public job listing. No authentication and no retry:
// the endpoint is open.
func (c *Client) List(ctx context.Context, params ListParams) (*Page[JobPost], error) {
	query := url.Values{}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.EmploymentType != "" {
		query.Set("employment_type", params.EmploymentType)
	}
	if params.Location != "" {
		query.Set("location", params.Location)
	}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}

	path := "/api/jobs/"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var page Page[JobPost]
	if err := c.api.Get(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get fetches a single listing.
func (c *Client) Get(ctx context.Context, jobID string) (*JobPost, error) {
	var job JobPost
	if err := c.api.Get(ctx, "/api/jobs/"+jobID+"/", &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Create posts a new listing. The listing starts as DRAFT until the
// payment flow activates it.
func (c *Client) Create(ctx context.Context, data JobData) (*JobPost, error) {
	var job JobPost
	err := c.auth.Do(ctx, func(ctx context.Context) error {
		job = JobPost{}
		return c.api.Post(ctx, "/api/jobs/", data, &job)
	})
	if err != nil {
		return nil, err
	}
	if job.ID == "" {
		return nil, errors.New("[jobs.Create] response carried no job ID")
	}
	return &job, nil
}

// Update rewrites a listing.
func (c *Client) Update(ctx context.Context, jobID string, data JobData) error {
	return c.auth.Do(ctx, func(ctx context.Context) error {
		return c.api.Put(ctx, "/api/jobs/"+jobID+"/", data, nil)
	})
}

// Delete removes a listing.
func (c *Client) Delete(ctx context.Context, jobID string) error {
	return c.auth.Do(ctx, func(ctx context.Context) error {
		return c.api.Delete(ctx, "/api/jobs/"+jobID+"/", nil)
	})
}

// MyJobs lists the company's own listings.
func (c *Client) MyJobs(ctx context.Context) ([]JobPost, error) {
	var page Page[JobPost]
	err := c.auth.Do(ctx, func(ctx context.Context) error {
		page = Page[JobPost]{}
		return c.api.Get(ctx, "/api/my-jobs/", &page)
	})
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

// Save bookmarks a listing for the current user.
func (c *Client) Save(ctx context.Context, jobID string) error {
	return c.auth.Do(ctx, func(ctx context.Context) error {
		return c.api.Post(ctx, "/api/jobs/"+jobID+"/save/", nil, nil)
	})
}

// Unsave removes a bookmark by its saved-job ID.
func (c *Client) Unsave(ctx context.Context, savedJobID string) error {
	return c.auth.Do(ctx, func(ctx context.Context) error {
		return c.api.Delete(ctx, "/api/saved-jobs/"+savedJobID+"/remove/", nil)
	})
}

// SavedJobs lists the user's bookmarked listings.
func (c *Client) SavedJobs(ctx context.Context) ([]SavedJob, error) {
	var page Page[SavedJob]
	err := c.auth.Do(ctx, func(ctx context.Context) error {
		page = Page[SavedJob]{}
		return c.api.Get(ctx, "/api/saved-jobs/", &page)
	})
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

// Apply submits an application with an optional cover letter.
func (c *Client) Apply(ctx context.Context, jobID, coverLetter string) error {
	payload := map[string]string{}
	if coverLetter != "" {
		payload["cover_letter"] = coverLetter
	}
	return c.auth.Do(ctx, func(ctx context.Context) error {
		return c.api.Post(ctx, "/api/jobs/"+jobID+"/apply/", payload, nil)
	})
}

// MyApplications lists the current user's applications.
func (c *Client) MyApplications(ctx context.Context) ([]Application, error) {
	var page Page[Application]
	err := c.auth.Do(ctx, func(ctx context.Context) error {
		page = Page[Application]{}
		return c.api.Get(ctx, "/api/my-applications/", &page)
	})
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

// ApplicationsForJob lists the applications one listing received.
func (c *Client) ApplicationsForJob(ctx context.Context, jobID string) (*JobApplications, error) {
	var apps JobApplications
	err := c.auth.Do(ctx, func(ctx context.Context) error {
		apps = JobApplications{}
		return c.api.Get(ctx, "/api/jobs/"+jobID+"/applications/", &apps)
	})
	if err != nil {
		return nil, err
	}
	return &apps, nil
}

// CompanyApplications lists applications across all the company's
// listings.
func (c *Client) CompanyApplications(ctx context.Context) (*Page[Application], error) {
	var page Page[Application]
	err := c.auth.Do(ctx, func(ctx context.Context) error {
		page = Page[Application]{}
		return c.api.Get(ctx, "/api/company-applications/", &page)
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// UpdateApplicationStatus moves an application through review.
func (c *Client) UpdateApplicationStatus(ctx context.Context, applicationID string, status ApplicationStatus) error {
	return c.auth.Do(ctx, func(ctx context.Context) error {
		return c.api.Patch(ctx, "/api/applications/"+applicationID+"/status/", map[string]string{
			"status": string(status),
		}, nil)
	})
}

// CreateCompany submits the company onboarding profile and completes
// onboarding.
func (c *Client) CreateCompany(ctx context.Context, data CompanyData) error {
	err := c.auth.Do(ctx, func(ctx context.Context) error {
		return c.api.Post(ctx, "/api/auth/create-company/", data, nil)
	})
	if err != nil {
		return err
	}
	_, err = c.auth.CompleteOnboarding(ctx)
	return err
}

// CreateJobSeeker submits the job-seeker onboarding profile and
// completes onboarding.
func (c *Client) CreateJobSeeker(ctx context.Context, data JobSeekerData) error {
	if data.Resume == "" {
		return errors.New("[jobs.CreateJobSeeker] resume is required")
	}
	if _, err := url.ParseRequestURI(data.Resume); err != nil {
		return errors.Wrap(err, "[jobs.CreateJobSeeker] resume must be a valid URL")
	}
	err := c.auth.Do(ctx, func(ctx context.Context) error {
		return c.api.Post(ctx, "/api/auth/create-jobseeker/", data, nil)
	})
	if err != nil {
		return err
	}
	_, err = c.auth.CompleteOnboarding(ctx)
	return err
}
