package server

import (
	"encoding/json"
	"time"

	"adflow/internal/api"
	"adflow/internal/store"
)

// rawJSON embeds stored JSON text directly into responses, falling back to a
// JSON string when the stored value is not valid JSON.
func rawJSON(value string) json.RawMessage {
	if value == "" {
		return json.RawMessage("null")
	}
	if json.Valid([]byte(value)) {
		return json.RawMessage(value)
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return json.RawMessage("null")
	}
	return encoded
}

type scriptDTO struct {
	ID           string          `json:"id"`
	ConceptID    string          `json:"conceptId"`
	Version      int             `json:"version"`
	Content      json.RawMessage `json:"content"`
	Duration     int             `json:"duration"`
	AspectRatios json.RawMessage `json:"aspectRatios"`
	TextOverlays json.RawMessage `json:"textOverlays"`
	Status       string          `json:"status"`
	ApprovedAt   *time.Time      `json:"approvedAt"`
	ParentID     string          `json:"parentId,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func toScriptDTO(script *store.Script) scriptDTO {
	return scriptDTO{
		ID:           script.ID,
		ConceptID:    script.ConceptID,
		Version:      script.Version,
		Content:      rawJSON(script.Content),
		Duration:     script.Duration,
		AspectRatios: rawJSON(script.AspectRatios),
		TextOverlays: rawJSON(script.TextOverlays),
		Status:       string(script.Status),
		ApprovedAt:   script.ApprovedAt,
		ParentID:     script.ParentID,
		CreatedAt:    script.CreatedAt,
		UpdatedAt:    script.UpdatedAt,
	}
}

func toScriptDTOs(scripts []*store.Script) []scriptDTO {
	out := make([]scriptDTO, 0, len(scripts))
	for _, script := range scripts {
		out = append(out, toScriptDTO(script))
	}
	return out
}

type taskDTO struct {
	ID             string     `json:"id"`
	Type           string     `json:"type"`
	TypeLabel      string     `json:"typeLabel"`
	Status         string     `json:"status"`
	ScriptID       string     `json:"scriptId"`
	AssigneeID     string     `json:"assigneeId,omitempty"`
	EstimatedTime  float64    `json:"estimatedTime"`
	ActualTime     *float64   `json:"actualTime"`
	DueDate        *time.Time `json:"dueDate"`
	ScheduledFor   *time.Time `json:"scheduledFor"`
	Notes          string     `json:"notes"`
	Blockers       string     `json:"blockers"`
	CompletedAt    *time.Time `json:"completedAt"`
	StageUnblocked bool       `json:"stageUnblocked"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func toTaskDTO(task *store.Task, stageUnblocked bool) taskDTO {
	return taskDTO{
		ID:             task.ID,
		Type:           string(task.Type),
		TypeLabel:      task.Type.Label(),
		Status:         string(task.Status),
		ScriptID:       task.ScriptID,
		AssigneeID:     task.AssigneeID,
		EstimatedTime:  task.EstimatedTime,
		ActualTime:     task.ActualTime,
		DueDate:        task.DueDate,
		ScheduledFor:   task.ScheduledFor,
		Notes:          task.Notes,
		Blockers:       task.Blockers,
		CompletedAt:    task.CompletedAt,
		StageUnblocked: stageUnblocked,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}
}

func toTaskViewDTOs(views []api.TaskView) []taskDTO {
	out := make([]taskDTO, 0, len(views))
	for _, view := range views {
		out = append(out, toTaskDTO(view.Task, view.StageUnblocked))
	}
	return out
}

type requirementDTO struct {
	ID             string          `json:"id"`
	ScriptID       string          `json:"scriptId"`
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
	CreatedAt      time.Time       `json:"createdAt"`
}

func toRequirementDTO(req *store.ProductionRequirement) *requirementDTO {
	if req == nil {
		return nil
	}
	return &requirementDTO{
		ID:             req.ID,
		ScriptID:       req.ScriptID,
		LocationType:   req.LocationType,
		TalentNeeded:   req.TalentNeeded,
		PropsRequired:  rawJSON(req.PropsRequired),
		ProductSamples: req.ProductSamples,
		SampleQuantity: req.SampleQuantity,
		EquipmentNotes: req.EquipmentNotes,
		AudioType:      req.AudioType,
		StyleReference: req.StyleReference,
		Transitions:    req.Transitions,
		ColorGrade:     req.ColorGrade,
		MusicStyle:     req.MusicStyle,
		Deliverables:   rawJSON(req.Deliverables),
		CreatedAt:      req.CreatedAt,
	}
}

type scriptDetailDTO struct {
	scriptDTO
	Tasks        []taskDTO       `json:"tasks"`
	Requirement  *requirementDTO `json:"productionRequirement"`
	Versions     []scriptDTO     `json:"versions"`
	CurrentStage string          `json:"currentStage,omitempty"`
}

func toScriptDetailDTO(detail *api.ScriptDetail) scriptDetailDTO {
	return scriptDetailDTO{
		scriptDTO:    toScriptDTO(detail.Script),
		Tasks:        toTaskViewDTOs(detail.Tasks),
		Requirement:  toRequirementDTO(detail.Requirement),
		Versions:     toScriptDTOs(detail.Versions),
		CurrentStage: string(detail.CurrentStage),
	}
}

type teamMemberDTO struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	CapacityHours float64   `json:"capacityHours"`
	AssignedHours float64   `json:"assignedHours"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toTeamMemberDTO(member *store.TeamMember) teamMemberDTO {
	return teamMemberDTO{
		ID:            member.ID,
		Email:         member.Email,
		Name:          member.Name,
		Role:          member.Role,
		CapacityHours: member.CapacityHours,
		AssignedHours: member.AssignedHours,
		CreatedAt:     member.CreatedAt,
		UpdatedAt:     member.UpdatedAt,
	}
}

type productDTO struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Features    json.RawMessage `json:"features"`
	USPs        json.RawMessage `json:"usps"`
	PricePoint  string          `json:"pricePoint"`
	Offers      string          `json:"offers"`
	ImageURLs   json.RawMessage `json:"imageUrls"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func toProductDTO(product *store.Product) productDTO {
	return productDTO{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Features:    rawJSON(product.Features),
		USPs:        rawJSON(product.USPs),
		PricePoint:  product.PricePoint,
		Offers:      product.Offers,
		ImageURLs:   rawJSON(product.ImageURLs),
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

type icpDTO struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Demographics   json.RawMessage `json:"demographics"`
	Psychographics json.RawMessage `json:"psychographics"`
	PainPoints     json.RawMessage `json:"painPoints"`
	Aspirations    json.RawMessage `json:"aspirations"`
	BuyingTriggers json.RawMessage `json:"buyingTriggers"`
	Platforms      json.RawMessage `json:"platforms"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func toICPDTO(icp *store.ICP) icpDTO {
	return icpDTO{
		ID:             icp.ID,
		Name:           icp.Name,
		Demographics:   rawJSON(icp.Demographics),
		Psychographics: rawJSON(icp.Psychographics),
		PainPoints:     rawJSON(icp.PainPoints),
		Aspirations:    rawJSON(icp.Aspirations),
		BuyingTriggers: rawJSON(icp.BuyingTriggers),
		Platforms:      rawJSON(icp.Platforms),
		CreatedAt:      icp.CreatedAt,
		UpdatedAt:      icp.UpdatedAt,
	}
}

type conceptDTO struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"productId"`
	ICPID       string    `json:"icpId"`
	Title       string    `json:"title"`
	HookType    string    `json:"hookType"`
	HookText    string    `json:"hookText"`
	Angle       string    `json:"angle"`
	Format      string    `json:"format"`
	Platform    string    `json:"platform"`
	CoreMessage string    `json:"coreMessage"`
	Rationale   string    `json:"rationale"`
	Complexity  string    `json:"complexity"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toConceptDTO(concept *store.Concept) conceptDTO {
	return conceptDTO{
		ID:          concept.ID,
		ProductID:   concept.ProductID,
		ICPID:       concept.ICPID,
		Title:       concept.Title,
		HookType:    concept.HookType,
		HookText:    concept.HookText,
		Angle:       concept.Angle,
		Format:      concept.Format,
		Platform:    concept.Platform,
		CoreMessage: concept.CoreMessage,
		Rationale:   concept.Rationale,
		Complexity:  concept.Complexity,
		Status:      string(concept.Status),
		CreatedAt:   concept.CreatedAt,
		UpdatedAt:   concept.UpdatedAt,
	}
}

func toConceptDTOs(concepts []*store.Concept) []conceptDTO {
	out := make([]conceptDTO, 0, len(concepts))
	for _, concept := range concepts {
		out = append(out, toConceptDTO(concept))
	}
	return out
}
