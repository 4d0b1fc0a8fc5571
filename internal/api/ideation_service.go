package api

import (
	"context"
	"encoding/json"
	"log/slog"

	"adflow/internal/ideation"
	"adflow/internal/logging"
	"adflow/internal/services"
	"adflow/internal/store"
)

// IdeationService persists what the LLM generator produces.
type IdeationService struct {
	store     *store.Store
	generator *ideation.Generator
	logger    *slog.Logger
}

// NewIdeationService constructs an IdeationService.
func NewIdeationService(st *store.Store, generator *ideation.Generator, logger *slog.Logger) *IdeationService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &IdeationService{
		store:     st,
		generator: generator,
		logger:    logging.WithComponent(logger, "ideation-service"),
	}
}

func (s *IdeationService) available() error {
	if s.generator == nil {
		return services.Wrap(services.ErrValidation, "ideation", "generate",
			"llm is not configured; set llm.api_key", nil)
	}
	return nil
}

// GenerateConcepts produces and stores count concepts for a product and ICP.
func (s *IdeationService) GenerateConcepts(ctx context.Context, productID, icpID string, count int) ([]*store.Concept, error) {
	if err := s.available(); err != nil {
		return nil, err
	}
	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, storeError("product", "lookup", err)
	}
	icp, err := s.store.GetICP(ctx, icpID)
	if err != nil {
		return nil, storeError("icp", "lookup", err)
	}

	drafts, err := s.generator.GenerateConcepts(ctx, product, icp, count)
	if err != nil {
		return nil, err
	}

	concepts := make([]*store.Concept, 0, len(drafts))
	for _, draft := range drafts {
		concept := &store.Concept{
			ProductID:   productID,
			ICPID:       icpID,
			Title:       draft.Title,
			HookType:    draft.HookType,
			HookText:    draft.HookText,
			Angle:       draft.Angle,
			Format:      draft.Format,
			Platform:    draft.Platform,
			CoreMessage: draft.CoreMessage,
			Rationale:   draft.Rationale,
			Complexity:  draft.Complexity,
			Status:      store.ConceptStatusGenerated,
		}
		if err := s.store.CreateConcept(ctx, concept); err != nil {
			return nil, storeError("concept", "create", err)
		}
		concepts = append(concepts, concept)
	}
	return concepts, nil
}

// GenerateScript writes a version-1 DRAFT script for a concept.
func (s *IdeationService) GenerateScript(ctx context.Context, conceptID string, duration int, aspectRatios []string) (*store.Script, error) {
	if err := s.available(); err != nil {
		return nil, err
	}
	concept, err := s.store.GetConcept(ctx, conceptID)
	if err != nil {
		return nil, storeError("concept", "lookup", err)
	}
	product, err := s.store.GetProduct(ctx, concept.ProductID)
	if err != nil {
		return nil, storeError("product", "lookup", err)
	}
	icp, err := s.store.GetICP(ctx, concept.ICPID)
	if err != nil {
		return nil, storeError("icp", "lookup", err)
	}
	if duration <= 0 {
		duration = 30
	}
	if len(aspectRatios) == 0 {
		aspectRatios = []string{"9:16"}
	}

	draft, err := s.generator.GenerateScript(ctx, concept, product, icp, duration, aspectRatios)
	if err != nil {
		return nil, err
	}

	ratios, err := json.Marshal(aspectRatios)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "script", "generate", "encode aspect ratios", err)
	}
	script := &store.Script{
		ConceptID:    conceptID,
		Content:      draft.Content,
		Duration:     duration,
		AspectRatios: string(ratios),
		TextOverlays: draft.TextOverlays,
		Status:       store.ScriptStatusDraft,
	}
	if err := s.store.CreateScript(ctx, script); err != nil {
		return nil, storeError("script", "create", err)
	}
	return script, nil
}

// DeriveRequirement analyzes a script and stores its production requirement.
// Scripts that already have one surface a conflict.
func (s *IdeationService) DeriveRequirement(ctx context.Context, scriptID string) (*store.ProductionRequirement, error) {
	if err := s.available(); err != nil {
		return nil, err
	}
	script, err := s.store.GetScript(ctx, scriptID)
	if err != nil {
		return nil, storeError("script", "lookup", err)
	}
	concept, err := s.store.GetConcept(ctx, script.ConceptID)
	if err != nil {
		return nil, storeError("concept", "lookup", err)
	}
	product, err := s.store.GetProduct(ctx, concept.ProductID)
	if err != nil {
		return nil, storeError("product", "lookup", err)
	}

	req, err := s.generator.DeriveRequirement(ctx, script, concept, product)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateRequirement(ctx, req); err != nil {
		return nil, storeError("requirement", "create", err)
	}
	return req, nil
}
