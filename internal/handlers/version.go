package handlers

import (
	"net/http"
)

// Build information, set via -ldflags at build time
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// VersionResponse represents the version endpoint response
type VersionResponse struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
}

// VersionHandler handles the /version endpoint
func VersionHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, VersionResponse{
		Version:   Version,
		GitCommit: GitCommit,
	})
}
