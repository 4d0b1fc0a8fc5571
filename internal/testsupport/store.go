package testsupport

import (
	"context"
	"testing"

	"adflow/internal/config"
	"adflow/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SeedConcept creates a product, an ICP, and a concept linking them.
func SeedConcept(t testing.TB, st *store.Store) *store.Concept {
	t.Helper()

	ctx := context.Background()
	product := &store.Product{Name: "Glow Serum"}
	if err := st.CreateProduct(ctx, product); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	icp := &store.ICP{Name: "Skincare enthusiasts"}
	if err := st.CreateICP(ctx, icp); err != nil {
		t.Fatalf("CreateICP: %v", err)
	}
	concept := &store.Concept{
		ProductID: product.ID,
		ICPID:     icp.ID,
		Title:     "Morning routine hook",
	}
	if err := st.CreateConcept(ctx, concept); err != nil {
		t.Fatalf("CreateConcept: %v", err)
	}
	return concept
}

// SeedScript creates a concept chain and a script attached to it.
func SeedScript(t testing.TB, st *store.Store, status store.ScriptStatus) *store.Script {
	t.Helper()

	concept := SeedConcept(t, st)
	script := &store.Script{
		ConceptID:    concept.ID,
		Duration:     30,
		AspectRatios: `["9:16","1:1"]`,
		Status:       status,
	}
	if err := st.CreateScript(context.Background(), script); err != nil {
		t.Fatalf("CreateScript: %v", err)
	}
	return script
}

// SeedTeamMember creates a team member with the given email.
func SeedTeamMember(t testing.TB, st *store.Store, email string) *store.TeamMember {
	t.Helper()

	member := &store.TeamMember{
		Email: email,
		Name:  "Test Member",
		Role:  "Editor",
	}
	if err := st.CreateTeamMember(context.Background(), member); err != nil {
		t.Fatalf("CreateTeamMember: %v", err)
	}
	return member
}
