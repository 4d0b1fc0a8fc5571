package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"adflow/internal/store"
)

type productPayload struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Features    json.RawMessage `json:"features"`
	USPs        json.RawMessage `json:"usps"`
	PricePoint  *string         `json:"pricePoint"`
	Offers      *string         `json:"offers"`
	ImageURLs   json.RawMessage `json:"imageUrls"`
}

func (p productPayload) apply(product *store.Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Features != nil {
		product.Features = string(p.Features)
	}
	if p.USPs != nil {
		product.USPs = string(p.USPs)
	}
	if p.PricePoint != nil {
		product.PricePoint = *p.PricePoint
	}
	if p.Offers != nil {
		product.Offers = *p.Offers
	}
	if p.ImageURLs != nil {
		product.ImageURLs = string(p.ImageURLs)
	}
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.ListProducts(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	out := make([]productDTO, 0, len(products))
	for _, product := range products {
		out = append(out, toProductDTO(product))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"products": out})
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var payload productPayload
	if err := decodeBody(r, &payload); err != nil {
		s.writeServiceError(w, err)
		return
	}
	product := &store.Product{}
	payload.apply(product)
	created, err := s.catalog.CreateProduct(r.Context(), product)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toProductDTO(created))
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := s.catalog.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toProductDTO(product))
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var payload productPayload
	if err := decodeBody(r, &payload); err != nil {
		s.writeServiceError(w, err)
		return
	}
	product, err := s.catalog.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	payload.apply(product)
	updated, err := s.catalog.UpdateProduct(r.Context(), product)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toProductDTO(updated))
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteProduct(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

type icpPayload struct {
	Name           *string         `json:"name"`
	Demographics   json.RawMessage `json:"demographics"`
	Psychographics json.RawMessage `json:"psychographics"`
	PainPoints     json.RawMessage `json:"painPoints"`
	Aspirations    json.RawMessage `json:"aspirations"`
	BuyingTriggers json.RawMessage `json:"buyingTriggers"`
	Platforms      json.RawMessage `json:"platforms"`
}

func (p icpPayload) apply(icp *store.ICP) {
	if p.Name != nil {
		icp.Name = *p.Name
	}
	if p.Demographics != nil {
		icp.Demographics = string(p.Demographics)
	}
	if p.Psychographics != nil {
		icp.Psychographics = string(p.Psychographics)
	}
	if p.PainPoints != nil {
		icp.PainPoints = string(p.PainPoints)
	}
	if p.Aspirations != nil {
		icp.Aspirations = string(p.Aspirations)
	}
	if p.BuyingTriggers != nil {
		icp.BuyingTriggers = string(p.BuyingTriggers)
	}
	if p.Platforms != nil {
		icp.Platforms = string(p.Platforms)
	}
}

func (s *Server) handleListICPs(w http.ResponseWriter, r *http.Request) {
	icps, err := s.catalog.ListICPs(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	out := make([]icpDTO, 0, len(icps))
	for _, icp := range icps {
		out = append(out, toICPDTO(icp))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"icps": out})
}

func (s *Server) handleCreateICP(w http.ResponseWriter, r *http.Request) {
	var payload icpPayload
	if err := decodeBody(r, &payload); err != nil {
		s.writeServiceError(w, err)
		return
	}
	icp := &store.ICP{}
	payload.apply(icp)
	created, err := s.catalog.CreateICP(r.Context(), icp)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toICPDTO(created))
}

func (s *Server) handleGetICP(w http.ResponseWriter, r *http.Request) {
	icp, err := s.catalog.GetICP(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toICPDTO(icp))
}

func (s *Server) handleUpdateICP(w http.ResponseWriter, r *http.Request) {
	var payload icpPayload
	if err := decodeBody(r, &payload); err != nil {
		s.writeServiceError(w, err)
		return
	}
	icp, err := s.catalog.GetICP(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	payload.apply(icp)
	updated, err := s.catalog.UpdateICP(r.Context(), icp)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toICPDTO(updated))
}

func (s *Server) handleDeleteICP(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteICP(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

type conceptPayload struct {
	ProductID   *string `json:"productId"`
	ICPID       *string `json:"icpId"`
	Title       *string `json:"title"`
	HookType    *string `json:"hookType"`
	HookText    *string `json:"hookText"`
	Angle       *string `json:"angle"`
	Format      *string `json:"format"`
	Platform    *string `json:"platform"`
	CoreMessage *string `json:"coreMessage"`
	Rationale   *string `json:"rationale"`
	Complexity  *string `json:"complexity"`
	Status      *string `json:"status"`
}

func (p conceptPayload) apply(concept *store.Concept) {
	if p.ProductID != nil {
		concept.ProductID = *p.ProductID
	}
	if p.ICPID != nil {
		concept.ICPID = *p.ICPID
	}
	if p.Title != nil {
		concept.Title = *p.Title
	}
	if p.HookType != nil {
		concept.HookType = *p.HookType
	}
	if p.HookText != nil {
		concept.HookText = *p.HookText
	}
	if p.Angle != nil {
		concept.Angle = *p.Angle
	}
	if p.Format != nil {
		concept.Format = *p.Format
	}
	if p.Platform != nil {
		concept.Platform = *p.Platform
	}
	if p.CoreMessage != nil {
		concept.CoreMessage = *p.CoreMessage
	}
	if p.Rationale != nil {
		concept.Rationale = *p.Rationale
	}
	if p.Complexity != nil {
		concept.Complexity = *p.Complexity
	}
	if p.Status != nil {
		concept.Status = store.ConceptStatus(*p.Status)
	}
}

func (s *Server) handleListConcepts(w http.ResponseWriter, r *http.Request) {
	concepts, err := s.catalog.ListConcepts(r.Context(), r.URL.Query().Get("productId"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"concepts": toConceptDTOs(concepts)})
}

func (s *Server) handleCreateConcept(w http.ResponseWriter, r *http.Request) {
	var payload conceptPayload
	if err := decodeBody(r, &payload); err != nil {
		s.writeServiceError(w, err)
		return
	}
	concept := &store.Concept{}
	payload.apply(concept)
	created, err := s.catalog.CreateConcept(r.Context(), concept)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toConceptDTO(created))
}

func (s *Server) handleGetConcept(w http.ResponseWriter, r *http.Request) {
	concept, err := s.catalog.GetConcept(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toConceptDTO(concept))
}

func (s *Server) handleUpdateConcept(w http.ResponseWriter, r *http.Request) {
	var payload conceptPayload
	if err := decodeBody(r, &payload); err != nil {
		s.writeServiceError(w, err)
		return
	}
	concept, err := s.catalog.GetConcept(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	payload.apply(concept)
	updated, err := s.catalog.UpdateConcept(r.Context(), concept)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toConceptDTO(updated))
}

func (s *Server) handleDeleteConcept(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteConcept(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}
