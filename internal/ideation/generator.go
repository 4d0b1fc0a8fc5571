package ideation

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"adflow/internal/logging"
	"adflow/internal/services"
	"adflow/internal/services/llm"
	"adflow/internal/store"
)

// Completer is the slice of the LLM client the generator needs.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Generator turns products, ICPs, and concepts into drafts via the LLM.
type Generator struct {
	client Completer
	logger *slog.Logger
}

// NewGenerator constructs a Generator. A nil logger falls back to a no-op.
func NewGenerator(client Completer, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Generator{
		client: client,
		logger: logging.WithComponent(logger, "ideation"),
	}
}

// ConceptDraft is one generated ad concept before persistence.
type ConceptDraft struct {
	Title       string `json:"title"`
	HookType    string `json:"hookType"`
	HookText    string `json:"hookText"`
	Angle       string `json:"angle"`
	Format      string `json:"format"`
	Platform    string `json:"platform"`
	CoreMessage string `json:"coreMessage"`
	Rationale   string `json:"rationale"`
	Complexity  string `json:"complexity"`
}

func (d *ConceptDraft) normalize() {
	if d.Title == "" {
		d.Title = "Untitled Concept"
	}
	if d.HookType == "" {
		d.HookType = "Statement"
	}
	if d.Angle == "" {
		d.Angle = "Benefit-focused"
	}
	if d.Format == "" {
		d.Format = "Product Demo"
	}
	if d.Platform == "" {
		d.Platform = "Meta"
	}
	switch strings.ToUpper(d.Complexity) {
	case "LOW", "MEDIUM", "HIGH":
		d.Complexity = strings.ToUpper(d.Complexity)
	default:
		d.Complexity = "MEDIUM"
	}
}

// GenerateConcepts produces count ad concepts for a product and audience.
func (g *Generator) GenerateConcepts(ctx context.Context, product *store.Product, icp *store.ICP, count int) ([]ConceptDraft, error) {
	if count <= 0 {
		count = 3
	}
	content, err := g.client.CompleteJSON(ctx, conceptSystemPrompt, buildConceptPrompt(product, icp, count))
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "concept", "generate", "llm request failed", err)
	}

	var payload struct {
		Concepts []ConceptDraft `json:"concepts"`
	}
	if err := llm.DecodeJSON(content, &payload); err != nil {
		// Some models return a bare array.
		var bare []ConceptDraft
		if arrErr := llm.DecodeJSON(content, &bare); arrErr != nil {
			return nil, services.Wrap(services.ErrTransient, "concept", "generate", "parse llm payload", err)
		}
		payload.Concepts = bare
	}
	if len(payload.Concepts) == 0 {
		return nil, services.Wrap(services.ErrTransient, "concept", "generate", "llm returned no concepts", nil)
	}
	for i := range payload.Concepts {
		payload.Concepts[i].normalize()
	}
	g.logger.Info("concepts generated",
		logging.String("product_id", product.ID),
		logging.String("icp_id", icp.ID),
		logging.Int("count", len(payload.Concepts)))
	return payload.Concepts, nil
}

// ScriptDraft is a generated script with its raw JSON sections and the
// production notes the model proposed alongside them.
type ScriptDraft struct {
	Content      string
	TextOverlays string
}

// GenerateScript writes a full timed script for an approved concept.
func (g *Generator) GenerateScript(ctx context.Context, concept *store.Concept, product *store.Product, icp *store.ICP, duration int, aspectRatios []string) (*ScriptDraft, error) {
	if duration <= 0 {
		duration = 30
	}
	content, err := g.client.CompleteJSON(ctx, scriptSystemPrompt,
		buildScriptPrompt(concept, product, icp, duration, aspectRatios))
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "script", "generate", "llm request failed", err)
	}

	var payload struct {
		Content      json.RawMessage `json:"content"`
		TextOverlays json.RawMessage `json:"textOverlays"`
	}
	if err := llm.DecodeJSON(content, &payload); err != nil {
		return nil, services.Wrap(services.ErrTransient, "script", "generate", "parse llm payload", err)
	}
	if len(payload.Content) == 0 {
		return nil, services.Wrap(services.ErrTransient, "script", "generate", "llm returned no script content", nil)
	}
	draft := &ScriptDraft{
		Content:      string(payload.Content),
		TextOverlays: string(payload.TextOverlays),
	}
	if draft.TextOverlays == "" {
		draft.TextOverlays = "[]"
	}
	g.logger.Info("script generated",
		logging.String("concept_id", concept.ID),
		logging.Int("duration", duration))
	return draft, nil
}

type requirementPayload struct {
	LocationType   string          `json:"locationType"`
	TalentNeeded   string          `json:"talentNeeded"`
	PropsRequired  []string        `json:"propsRequired"`
	ProductSamples bool            `json:"productSamples"`
	SampleQuantity *int            `json:"sampleQuantity"`
	EquipmentNotes string          `json:"equipmentNotes"`
	AudioType      []string        `json:"audioType"`
	StyleReference string          `json:"styleReference"`
	Transitions    string          `json:"transitions"`
	ColorGrade     string          `json:"colorGrade"`
	MusicStyle     string          `json:"musicStyle"`
	Deliverables   json.RawMessage `json:"deliverables"`
}

// DeriveRequirement analyzes a script and proposes its production requirement.
func (g *Generator) DeriveRequirement(ctx context.Context, script *store.Script, concept *store.Concept, product *store.Product) (*store.ProductionRequirement, error) {
	content, err := g.client.CompleteJSON(ctx, requirementSystemPrompt,
		buildRequirementPrompt(script, concept, product))
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "requirement", "derive", "llm request failed", err)
	}

	var payload requirementPayload
	if err := llm.DecodeJSON(content, &payload); err != nil {
		return nil, services.Wrap(services.ErrTransient, "requirement", "derive", "parse llm payload", err)
	}

	req := &store.ProductionRequirement{
		ScriptID:       script.ID,
		LocationType:   defaultString(payload.LocationType, "Studio"),
		TalentNeeded:   defaultString(payload.TalentNeeded, "None"),
		PropsRequired:  encodeList(payload.PropsRequired),
		ProductSamples: payload.ProductSamples,
		SampleQuantity: payload.SampleQuantity,
		EquipmentNotes: payload.EquipmentNotes,
		AudioType:      strings.Join(payload.AudioType, ", "),
		StyleReference: payload.StyleReference,
		Transitions:    defaultString(payload.Transitions, "cut"),
		ColorGrade:     defaultString(payload.ColorGrade, "Natural"),
		MusicStyle:     payload.MusicStyle,
		Deliverables:   string(payload.Deliverables),
	}
	if req.Deliverables == "" || req.Deliverables == "null" {
		req.Deliverables = "{}"
	}
	g.logger.Info("requirement derived", logging.String("script_id", script.ID))
	return req, nil
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func encodeList(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}
