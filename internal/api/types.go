package api

// Pod describes one running workload container as reported by the platform.
type Pod struct {
	Name       string `json:"name"`
	Namespace  string `json:"namespace"`
	Phase      string `json:"phase"`
	Node       string `json:"node"`
	GPUProfile string `json:"gpuProfile"`
	GPUCount   int    `json:"gpuCount"`
	JobName    string `json:"jobName"`
	StartedAt  string `json:"startedAt"`
}

// PodListResponse mirrors /api/pods.
type PodListResponse struct {
	Pods []Pod `json:"pods"`
}

// JobRun describes a submitted job and its current state.
type JobRun struct {
	Name         string `json:"name"`
	Image        string `json:"image"`
	Status       string `json:"status"`
	GPUProfile   string `json:"gpuProfile"`
	GPUCount     int    `json:"gpuCount"`
	Node         string `json:"node"`
	ErrorMessage string `json:"errorMessage"`
	CreatedAt    string `json:"createdAt"`
	FinishedAt   string `json:"finishedAt"`
}

// JobListResponse mirrors /api/jobs.
type JobListResponse struct {
	Jobs []JobRun `json:"jobs"`
}
