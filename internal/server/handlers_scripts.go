package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"adflow/internal/api"
	"adflow/internal/production"
	"adflow/internal/store"
)

type createScriptPayload struct {
	ConceptID    string          `json:"conceptId"`
	Content      json.RawMessage `json:"content"`
	Duration     int             `json:"duration"`
	AspectRatios json.RawMessage `json:"aspectRatios"`
	TextOverlays json.RawMessage `json:"textOverlays"`
}

func (s *Server) handleListScripts(w http.ResponseWriter, r *http.Request) {
	scripts, err := s.scripts.List(r.Context(), r.URL.Query().Get("conceptId"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"scripts": toScriptDTOs(scripts)})
}

func (s *Server) handleCreateScript(w http.ResponseWriter, r *http.Request) {
	var payload createScriptPayload
	if err := decodeBody(r, &payload); err != nil {
		s.writeServiceError(w, err)
		return
	}
	script, err := s.scripts.Create(r.Context(), api.CreateScriptRequest{
		ConceptID:    payload.ConceptID,
		Content:      string(payload.Content),
		Duration:     payload.Duration,
		AspectRatios: string(payload.AspectRatios),
		TextOverlays: string(payload.TextOverlays),
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toScriptDTO(script))
}

func (s *Server) handleGetScript(w http.ResponseWriter, r *http.Request) {
	detail, err := s.scripts.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toScriptDetailDTO(detail))
}

type updateScriptPayload struct {
	Content      json.RawMessage `json:"content"`
	Duration     *int            `json:"duration"`
	AspectRatios json.RawMessage `json:"aspectRatios"`
	TextOverlays json.RawMessage `json:"textOverlays"`
	Status       *string         `json:"status"`
}

func (p updateScriptPayload) toRequest() api.UpdateScriptRequest {
	req := api.UpdateScriptRequest{
		Duration: p.Duration,
		Status:   p.Status,
	}
	if p.Content != nil {
		content := string(p.Content)
		req.Content = &content
	}
	if p.AspectRatios != nil {
		ratios := string(p.AspectRatios)
		req.AspectRatios = &ratios
	}
	if p.TextOverlays != nil {
		overlays := string(p.TextOverlays)
		req.TextOverlays = &overlays
	}
	return req
}

func (s *Server) handleUpdateScript(w http.ResponseWriter, r *http.Request) {
	var payload updateScriptPayload
	if err := decodeBody(r, &payload); err != nil {
		s.writeServiceError(w, err)
		return
	}
	script, err := s.scripts.Update(r.Context(), mux.Vars(r)["id"], payload.toRequest())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toScriptDTO(script))
}

func (s *Server) handleDeleteScript(w http.ResponseWriter, r *http.Request) {
	if err := s.scripts.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleCreateScriptVersion(w http.ResponseWriter, r *http.Request) {
	var payload updateScriptPayload
	if err := decodeBody(r, &payload); err != nil {
		s.writeServiceError(w, err)
		return
	}
	next, err := s.scripts.CreateVersion(r.Context(), mux.Vars(r)["id"], payload.toRequest())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toScriptDTO(next))
}

type taskConfigPayload struct {
	Type          string     `json:"type"`
	EstimatedTime float64    `json:"estimatedTime"`
	AssigneeID    string     `json:"assigneeId"`
	Notes         string     `json:"notes"`
	DueDate       *time.Time `json:"dueDate"`
}

func (s *Server) handleCreateProductionTasks(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Tasks []taskConfigPayload `json:"tasks"`
	}
	if err := decodeBody(r, &payload); err != nil {
		s.writeServiceError(w, err)
		return
	}
	configs := make([]api.TaskConfig, 0, len(payload.Tasks))
	for _, task := range payload.Tasks {
		configs = append(configs, api.TaskConfig{
			Type:          task.Type,
			EstimatedTime: task.EstimatedTime,
			AssigneeID:    task.AssigneeID,
			Notes:         task.Notes,
			DueDate:       task.DueDate,
		})
	}
	tasks, err := s.scripts.CreateProductionTasks(r.Context(), mux.Vars(r)["id"], configs)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	out := make([]taskDTO, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, toTaskDTO(task, production.IsStageUnblocked(tasks, task.Type)))
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"tasks": out})
}

type requirementPayload struct {
	LocationType   string          `json:"locationType"`
	TalentNeeded   string          `json:"talentNeeded"`
	PropsRequired  json.RawMessage `json:"propsRequired"`
	ProductSamples bool            `json:"productSamples"`
	SampleQuantity *int            `json:"sampleQuantity"`
	EquipmentNotes string          `json:"equipmentNotes"`
	AudioType      string          `json:"audioType"`
	StyleReference string          `json:"styleReference"`
	Transitions    string          `json:"transitions"`
	ColorGrade     string          `json:"colorGrade"`
	MusicStyle     string          `json:"musicStyle"`
	Deliverables   json.RawMessage `json:"deliverables"`
}

func (s *Server) handleCreateRequirement(w http.ResponseWriter, r *http.Request) {
	var payload requirementPayload
	if err := decodeBody(r, &payload); err != nil {
		s.writeServiceError(w, err)
		return
	}
	req := &store.ProductionRequirement{
		LocationType:   payload.LocationType,
		TalentNeeded:   payload.TalentNeeded,
		PropsRequired:  string(payload.PropsRequired),
		ProductSamples: payload.ProductSamples,
		SampleQuantity: payload.SampleQuantity,
		EquipmentNotes: payload.EquipmentNotes,
		AudioType:      payload.AudioType,
		StyleReference: payload.StyleReference,
		Transitions:    payload.Transitions,
		ColorGrade:     payload.ColorGrade,
		MusicStyle:     payload.MusicStyle,
		Deliverables:   string(payload.Deliverables),
	}
	created, err := s.scripts.CreateRequirement(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toRequirementDTO(created))
}
