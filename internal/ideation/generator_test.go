package ideation

import (
	"context"
	"errors"
	"testing"

	"adflow/internal/services"
	"adflow/internal/store"
)

type fakeCompleter struct {
	response string
	err      error
	system   string
	user     string
}

func (f *fakeCompleter) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.system = systemPrompt
	f.user = userPrompt
	return f.response, f.err
}

func TestGenerateConceptsParsesPayload(t *testing.T) {
	fake := &fakeCompleter{response: `{"concepts":[
		{"title":"Morning glow","hookType":"Question","hookText":"Tired skin?","angle":"Problem-solution","format":"UGC Testimonial","platform":"TikTok","coreMessage":"Serum fixes dull skin.","rationale":"Targets the pain point.","complexity":"low"},
		{"title":"","complexity":"EXTREME"}
	]}`}
	gen := NewGenerator(fake, nil)

	drafts, err := gen.GenerateConcepts(context.Background(),
		&store.Product{ID: "p1", Name: "Glow Serum"},
		&store.ICP{ID: "i1", Name: "Skincare fans"}, 2)
	if err != nil {
		t.Fatalf("GenerateConcepts: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(drafts))
	}
	if drafts[0].Complexity != "LOW" {
		t.Fatalf("complexity not normalized: %q", drafts[0].Complexity)
	}
	if drafts[1].Title != "Untitled Concept" || drafts[1].Complexity != "MEDIUM" {
		t.Fatalf("defaults not applied: %+v", drafts[1])
	}
}

func TestGenerateConceptsAcceptsBareArray(t *testing.T) {
	fake := &fakeCompleter{response: `[{"title":"Solo concept"}]`}
	gen := NewGenerator(fake, nil)

	drafts, err := gen.GenerateConcepts(context.Background(),
		&store.Product{Name: "Glow Serum"}, &store.ICP{Name: "Fans"}, 1)
	if err != nil {
		t.Fatalf("GenerateConcepts: %v", err)
	}
	if len(drafts) != 1 || drafts[0].Title != "Solo concept" {
		t.Fatalf("unexpected drafts: %+v", drafts)
	}
}

func TestGenerateConceptsWrapsTransportError(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("boom")}
	gen := NewGenerator(fake, nil)

	_, err := gen.GenerateConcepts(context.Background(),
		&store.Product{Name: "Glow Serum"}, &store.ICP{Name: "Fans"}, 1)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
}

func TestGenerateScriptKeepsRawSections(t *testing.T) {
	fake := &fakeCompleter{response: `{"content":{"hook":{"name":"Hook","startTime":0,"endTime":3}},"textOverlays":[{"timing":"0-3s","text":"Hi","position":"center"}]}`}
	gen := NewGenerator(fake, nil)

	draft, err := gen.GenerateScript(context.Background(),
		&store.Concept{ID: "c1", Title: "Hook first", Platform: "TikTok"},
		&store.Product{Name: "Glow Serum"},
		&store.ICP{Name: "Fans"},
		30, []string{"9:16"})
	if err != nil {
		t.Fatalf("GenerateScript: %v", err)
	}
	if draft.Content == "" || draft.TextOverlays == "" {
		t.Fatalf("empty draft: %+v", draft)
	}
}

func TestDeriveRequirementAppliesDefaults(t *testing.T) {
	fake := &fakeCompleter{response: `{"propsRequired":["tripod"],"productSamples":true,"audioType":["VO","Music"]}`}
	gen := NewGenerator(fake, nil)

	req, err := gen.DeriveRequirement(context.Background(),
		&store.Script{ID: "s1", Duration: 30, AspectRatios: `["9:16"]`},
		&store.Concept{Format: "Product Demo", Complexity: "MEDIUM"},
		&store.Product{Name: "Glow Serum"})
	if err != nil {
		t.Fatalf("DeriveRequirement: %v", err)
	}
	if req.ScriptID != "s1" {
		t.Fatalf("script binding lost: %+v", req)
	}
	if req.LocationType != "Studio" || req.TalentNeeded != "None" || req.ColorGrade != "Natural" {
		t.Fatalf("defaults not applied: %+v", req)
	}
	if req.PropsRequired != `["tripod"]` {
		t.Fatalf("props not encoded: %q", req.PropsRequired)
	}
	if !req.ProductSamples || req.AudioType != "VO, Music" {
		t.Fatalf("fields not mapped: %+v", req)
	}
	if req.Deliverables != "{}" {
		t.Fatalf("deliverables default missing: %q", req.Deliverables)
	}
}
