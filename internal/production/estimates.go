package production

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"adflow/internal/store"
)

// GenerateTasks derives the four default production tasks for an approved
// script. The result is a pure draft set; persistence happens in one
// transaction at the store layer.
func GenerateTasks(script *store.Script, req *store.ProductionRequirement) []*store.Task {
	aspectRatios := decodeStringList(script.AspectRatios)
	deliverables := decodeObject(requirementDeliverables(req))

	tasks := make([]*store.Task, 0, 4)
	tasks = append(tasks, filmingTask(script, req))
	tasks = append(tasks, editingTask(script, req, aspectRatios))
	tasks = append(tasks, reviewTask(script))
	tasks = append(tasks, deliveryTask(script, aspectRatios, deliverables))
	return tasks
}

func requirementDeliverables(req *store.ProductionRequirement) string {
	if req == nil {
		return ""
	}
	return req.Deliverables
}

func decodeStringList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil
	}
	return values
}

func decodeObject(raw string) map[string]any {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var values map[string]any
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil
	}
	return values
}

func filmingTask(script *store.Script, req *store.ProductionRequirement) *store.Task {
	var notes []string
	if req != nil {
		notes = append(notes, fmt.Sprintf("Location: %s", req.LocationType))
		notes = append(notes, fmt.Sprintf("Talent: %s", req.TalentNeeded))
		if props := decodeStringList(req.PropsRequired); len(props) > 0 {
			notes = append(notes, fmt.Sprintf("Props: %s", strings.Join(props, ", ")))
		}
		if req.ProductSamples {
			quantity := "TBD"
			if req.SampleQuantity != nil {
				quantity = fmt.Sprintf("%d", *req.SampleQuantity)
			}
			notes = append(notes, fmt.Sprintf("Product samples needed: %s", quantity))
		}
		if req.EquipmentNotes != "" {
			notes = append(notes, fmt.Sprintf("Equipment: %s", req.EquipmentNotes))
		}
	}

	// Base 2 hours plus an hour per 30 seconds of content.
	estimate := math.Max(2, math.Ceil(float64(script.Duration)/30)+1)

	noteText := "Filming task for approved script"
	if len(notes) > 0 {
		noteText = strings.Join(notes, "\n")
	}
	return &store.Task{
		Type:          store.TaskTypeFilming,
		Status:        store.TaskStatusQueued,
		ScriptID:      script.ID,
		EstimatedTime: estimate,
		Notes:         noteText,
	}
}

func editingTask(script *store.Script, req *store.ProductionRequirement, aspectRatios []string) *store.Task {
	notes := []string{fmt.Sprintf("Duration: %d seconds", script.Duration)}
	if req != nil {
		if req.ColorGrade != "" {
			notes = append(notes, fmt.Sprintf("Color grade: %s", req.ColorGrade))
		}
		if req.Transitions != "" {
			notes = append(notes, fmt.Sprintf("Transitions: %s", req.Transitions))
		}
		if req.MusicStyle != "" {
			notes = append(notes, fmt.Sprintf("Music style: %s", req.MusicStyle))
		}
		if req.StyleReference != "" {
			notes = append(notes, fmt.Sprintf("Style reference: %s", req.StyleReference))
		}
	}
	if len(aspectRatios) > 0 {
		notes = append(notes, fmt.Sprintf("Aspect ratios: %s", strings.Join(aspectRatios, ", ")))
	}

	// 3x the video duration in hours with a 2 hour floor, scaled up for
	// additional aspect ratios.
	base := math.Max(2, math.Ceil(float64(script.Duration)/60*3))
	multiplier := math.Max(1, float64(len(aspectRatios))*0.5)
	estimate := math.Ceil(base * multiplier)

	return &store.Task{
		Type:          store.TaskTypeEditing,
		Status:        store.TaskStatusQueued,
		ScriptID:      script.ID,
		EstimatedTime: estimate,
		Notes:         strings.Join(notes, "\n"),
	}
}

func reviewTask(script *store.Script) *store.Task {
	return &store.Task{
		Type:          store.TaskTypeReview,
		Status:        store.TaskStatusQueued,
		ScriptID:      script.ID,
		EstimatedTime: 1,
		Notes:         "Review edited video for quality, brand alignment, and script accuracy",
	}
}

func deliveryTask(script *store.Script, aspectRatios []string, deliverables map[string]any) *store.Task {
	notes := []string{"Export final videos for all platforms"}
	if len(aspectRatios) > 0 {
		notes = append(notes, fmt.Sprintf("Formats: %s", strings.Join(aspectRatios, ", ")))
	}
	if len(deliverables) > 0 {
		if encoded, err := json.Marshal(deliverables); err == nil {
			notes = append(notes, fmt.Sprintf("Deliverables: %s", encoded))
		}
	}

	estimate := math.Max(1, math.Ceil(float64(len(aspectRatios))*0.5))

	return &store.Task{
		Type:          store.TaskTypeDelivery,
		Status:        store.TaskStatusQueued,
		ScriptID:      script.ID,
		EstimatedTime: estimate,
		Notes:         strings.Join(notes, "\n"),
	}
}
