package server

import (
	"net/http"

	"github.com/jonathan/candidate-matcher/internal/types"
)

func (s *Server) handleInsertCandidate(w http.ResponseWriter, r *http.Request) {
	var in types.CandidateInput
	if !s.decodeBody(w, r, &in) {
		return
	}

	receipt, err := s.pipeline.SubmitCandidate(r.Context(), in)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusAccepted, receipt)
}

// handleUpdateCandidate merges the supplied fields into a stored candidate.
func (s *Server) handleUpdateCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := s.pathUUID(w, r, "candidate_id")
	if !ok {
		return
	}
	var update types.CandidateInput
	if !s.decodeBody(w, r, &update) {
		return
	}

	receipt, err := s.pipeline.SubmitCandidateUpdate(r.Context(), candidateID, update)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusAccepted, receipt)
}

func (s *Server) handleCheckCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := s.pathUUID(w, r, "candidate_id")
	if !ok {
		return
	}

	status, err := s.pipeline.GetCandidateStatus(r.Context(), candidateID)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, status)
}
