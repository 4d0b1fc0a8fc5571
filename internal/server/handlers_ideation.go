package server

import (
	"net/http"
)

func (s *Server) handleGenerateConcepts(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ProductID string `json:"productId"`
		ICPID     string `json:"icpId"`
		Count     int    `json:"count"`
	}
	if err := decodeBody(r, &payload); err != nil {
		s.writeServiceError(w, err)
		return
	}
	concepts, err := s.ideation.GenerateConcepts(r.Context(), payload.ProductID, payload.ICPID, payload.Count)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"concepts": toConceptDTOs(concepts)})
}

func (s *Server) handleGenerateScript(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ConceptID    string   `json:"conceptId"`
		Duration     int      `json:"duration"`
		AspectRatios []string `json:"aspectRatios"`
	}
	if err := decodeBody(r, &payload); err != nil {
		s.writeServiceError(w, err)
		return
	}
	script, err := s.ideation.GenerateScript(r.Context(), payload.ConceptID, payload.Duration, payload.AspectRatios)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toScriptDTO(script))
}

func (s *Server) handleDeriveRequirement(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ScriptID string `json:"scriptId"`
	}
	if err := decodeBody(r, &payload); err != nil {
		s.writeServiceError(w, err)
		return
	}
	req, err := s.ideation.DeriveRequirement(r.Context(), payload.ScriptID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toRequirementDTO(req))
}
