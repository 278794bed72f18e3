package response

type HealthResponse struct {
	Status  string          `json:"status"`
	Sources map[string]bool `json:"sources"`
}

type SourcesResponse struct {
	Sources []string `json:"sources"`
}
