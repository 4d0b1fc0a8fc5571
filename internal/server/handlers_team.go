package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"adflow/internal/api"
)

type teamMemberPayload struct {
	Email         string   `json:"email"`
	Name          string   `json:"name"`
	Role          string   `json:"role"`
	CapacityHours *float64 `json:"capacityHours"`
}

func (p teamMemberPayload) toRequest() api.TeamMemberRequest {
	return api.TeamMemberRequest{
		Email:         p.Email,
		Name:          p.Name,
		Role:          p.Role,
		CapacityHours: p.CapacityHours,
	}
}

func (s *Server) handleListTeamMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.team.List(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	out := make([]teamMemberDTO, 0, len(members))
	for _, member := range members {
		out = append(out, toTeamMemberDTO(member))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"teamMembers": out})
}

func (s *Server) handleCreateTeamMember(w http.ResponseWriter, r *http.Request) {
	var payload teamMemberPayload
	if err := decodeBody(r, &payload); err != nil {
		s.writeServiceError(w, err)
		return
	}
	member, err := s.team.Create(r.Context(), payload.toRequest())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toTeamMemberDTO(member))
}

func (s *Server) handleGetTeamMember(w http.ResponseWriter, r *http.Request) {
	member, err := s.team.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toTeamMemberDTO(member))
}

func (s *Server) handleUpdateTeamMember(w http.ResponseWriter, r *http.Request) {
	var payload teamMemberPayload
	if err := decodeBody(r, &payload); err != nil {
		s.writeServiceError(w, err)
		return
	}
	member, err := s.team.Update(r.Context(), mux.Vars(r)["id"], payload.toRequest())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toTeamMemberDTO(member))
}

func (s *Server) handleDeleteTeamMember(w http.ResponseWriter, r *http.Request) {
	if err := s.team.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}
