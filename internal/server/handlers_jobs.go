package server

import (
	"net/http"

	"github.com/jonathan/candidate-matcher/internal/types"
)

// handleInsertJob accepts a job and returns its id with the processing task.
func (s *Server) handleInsertJob(w http.ResponseWriter, r *http.Request) {
	var in types.JobInput
	if !s.decodeBody(w, r, &in) {
		return
	}

	receipt, err := s.pipeline.SubmitJob(r.Context(), in)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusAccepted, receipt)
}

// handleUpdateJob replaces the active job previous_job_id with a new version.
func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	previousID, ok := s.pathUUID(w, r, "previous_job_id")
	if !ok {
		return
	}
	var in types.JobInput
	if !s.decodeBody(w, r, &in) {
		return
	}

	receipt, err := s.pipeline.SubmitJobUpdate(r.Context(), previousID, in)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusAccepted, receipt)
}

// handleCheckJob returns the version history of a job and its latest task.
func (s *Server) handleCheckJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := s.pathUUID(w, r, "job_id")
	if !ok {
		return
	}

	status, err := s.pipeline.GetJobStatus(r.Context(), jobID)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, status)
}
