package jobs_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/worknest/worknest-go/api"
	"github.com/worknest/worknest-go/auth"
	"github.com/worknest/worknest-go/internal/utils"
	"github.com/worknest/worknest-go/jobs"
	"github.com/worknest/worknest-go/tokenstore"
)

const (
	staleToken = "stale-access-token"
	freshToken = "refreshed-access-token"
)

func newJobsClient(t *testing.T, handler http.Handler) *jobs.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := tokenstore.NewMemoryStore()
	store.SetToken(staleToken)
	apiClient := api.New(srv.URL)
	return jobs.NewClient(apiClient, auth.New(apiClient, store))
}

func TestListBuildsQuery(t *testing.T) {
	var gotQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":1,"results":[{"id":"j-1","job_title":"Backend Engineer"}]}`))
	})
	client := newJobsClient(t, mux)

	page, err := client.List(context.Background(), jobs.ListParams{
		Search:         "golang",
		EmploymentType: "full-time",
		Location:       "Remote",
		Page:           2,
	})
	require.NoError(t, err)
	require.Equal(t, 1, page.Count)
	require.Equal(t, "j-1", page.Results[0].ID)
	require.Equal(t, "employment_type=full-time&location=Remote&page=2&search=golang", gotQuery)
}

func TestListOmitsEmptyParams(t *testing.T) {
	var gotQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":0,"results":[]}`))
	})
	client := newJobsClient(t, mux)

	_, err := client.List(context.Background(), jobs.ListParams{})
	require.NoError(t, err)
	require.Empty(t, gotQuery)
}

func TestCreateRequiresJobID(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"job_title":"Backend Engineer"}`)) // no id
	})
	client := newJobsClient(t, mux)

	_, err := client.Create(context.Background(), jobs.JobData{JobTitle: "Backend Engineer"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "no job ID")
}

func TestCreateRetriesAfterRefresh(t *testing.T) {
	var createCalls, refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		createCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer "+freshToken {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Token is invalid or expired"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"j-1","job_title":"Backend Engineer","status":"DRAFT"}`))
	})
	mux.HandleFunc("/api/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"` + freshToken + `"}`))
	})
	client := newJobsClient(t, mux)

	job, err := client.Create(context.Background(), jobs.JobData{JobTitle: "Backend Engineer"})
	require.NoError(t, err)
	require.Equal(t, "j-1", job.ID)
	require.Equal(t, jobs.JobStatusDraft, job.Status)
	require.Equal(t, int32(2), createCalls.Load())
	require.Equal(t, int32(1), refreshCalls.Load())
}

func TestSaveAndUnsavePaths(t *testing.T) {
	var gotSave, gotUnsave string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/jobs/j-1/save/", func(w http.ResponseWriter, r *http.Request) {
		gotSave = r.Method
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/api/saved-jobs/s-1/remove/", func(w http.ResponseWriter, r *http.Request) {
		gotUnsave = r.Method
		w.WriteHeader(http.StatusNoContent)
	})
	client := newJobsClient(t, mux)

	require.NoError(t, client.Save(context.Background(), "j-1"))
	require.NoError(t, client.Unsave(context.Background(), "s-1"))
	require.Equal(t, http.MethodPost, gotSave)
	require.Equal(t, http.MethodDelete, gotUnsave)
}

func TestApplySendsCoverLetter(t *testing.T) {
	var gotBody map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/jobs/j-1/apply/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	})
	client := newJobsClient(t, mux)

	require.NoError(t, client.Apply(context.Background(), "j-1", "I would be a great fit."))
	require.Equal(t, "I would be a great fit.", gotBody["cover_letter"])
}

func TestUpdateApplicationStatus(t *testing.T) {
	var gotBody map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/applications/a-1/status/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	})
	client := newJobsClient(t, mux)

	require.NoError(t, client.UpdateApplicationStatus(context.Background(), "a-1", jobs.ApplicationAccepted))
	require.Equal(t, "accepted", gotBody["status"])
}

func TestCreateJobSeekerValidatesResume(t *testing.T) {
	client := newJobsClient(t, http.NewServeMux())

	err := client.CreateJobSeeker(context.Background(), jobs.JobSeekerData{Name: "John"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "resume is required")

	err = client.CreateJobSeeker(context.Background(), jobs.JobSeekerData{Name: "John", Resume: "not a url"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "valid URL")
}

func TestCreateCompanyCompletesOnboarding(t *testing.T) {
	var companyCalls, onboardingCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/create-company/", func(w http.ResponseWriter, r *http.Request) {
		companyCalls.Add(1)
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/api/auth/onboarding/complete/", func(w http.ResponseWriter, r *http.Request) {
		onboardingCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"id":"u-1","onboarding_completed":true}}`))
	})
	client := newJobsClient(t, mux)

	require.NoError(t, client.CreateCompany(context.Background(), jobs.CompanyData{
		Name:     "Acme",
		Location: "Remote",
		Website:  "https://acme.example.com",
		XAccount: utils.Ptr("@acme"),
		About:    "We make everything.",
	}))
	require.Equal(t, int32(1), companyCalls.Load())
	require.Equal(t, int32(1), onboardingCalls.Load())
}
