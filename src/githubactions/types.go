package githubactions

import "time"

// App is the GitHub App that created a check run
type App struct {
	Slug string `json:"slug"`
}

// CheckRun represents a check run attached to a commit
type CheckRun struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	Conclusion  string    `json:"conclusion"`
	HTMLURL     string    `json:"html_url"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	App         App       `json:"app"`
}

// CheckRunsResponse is the API response for listing check runs
type CheckRunsResponse struct {
	TotalCount int        `json:"total_count"`
	CheckRuns  []CheckRun `json:"check_runs"`
}

// CommitStatus represents a status reported on a commit by an external CI.
// GitHub keeps one entry per state transition, newest first.
type CommitStatus struct {
	ID        int64     `json:"id"`
	Context   string    `json:"context"`
	State     string    `json:"state"`
	TargetURL string    `json:"target_url"`
	CreatedAt time.Time `json:"created_at"`
}

// User is the authenticated user returned by /user
type User struct {
	Login string `json:"login"`
}
