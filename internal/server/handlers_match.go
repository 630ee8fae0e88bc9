package server

import (
	"net/http"
	"strconv"
)

// handleMatchCandidates ranks candidates for an active job. The optional
// total_candidate query parameter sets how many are returned.
func (s *Server) handleMatchCandidates(w http.ResponseWriter, r *http.Request) {
	jobID, ok := s.pathUUID(w, r, "job_id")
	if !ok {
		return
	}

	var topK *int
	if raw := r.URL.Query().Get("total_candidate"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "total_candidate must be an integer")
			return
		}
		topK = &n
	}

	resp, err := s.matcher.Match(r.Context(), jobID, topK)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleGetTask returns the state of a background task.
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := s.pathUUID(w, r, "task_id")
	if !ok {
		return
	}

	task, err := s.pipeline.GetTask(r.Context(), taskID)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, task)
}
