package circleci

// Job is a CircleCI v1.1 single job response. Only the fields needed to
// locate log output are decoded.
type Job struct {
	BuildNum int    `json:"build_num"`
	Status   string `json:"status"`
	Steps    []Step `json:"steps"`
}

// Step is one configured step of a job.
type Step struct {
	Name    string   `json:"name"`
	Actions []Action `json:"actions"`
}

// Action is one execution of a step. Jobs running with parallelism have one
// action per container.
type Action struct {
	Name      string `json:"name"`
	Index     int    `json:"index"`
	HasOutput bool   `json:"has_output"`
	OutputURL string `json:"output_url"`
	Failed    bool   `json:"failed"`
}

// OutputMessage is an entry of an action output file.
type OutputMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
