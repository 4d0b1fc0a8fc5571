package api

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"adflow/internal/logging"
	"adflow/internal/services"
	"adflow/internal/store"
)

// TeamService owns team member CRUD and capacity reporting.
type TeamService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewTeamService constructs a TeamService.
func NewTeamService(st *store.Store, logger *slog.Logger) *TeamService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &TeamService{store: st, logger: logging.WithComponent(logger, "team-service")}
}

// TeamMemberRequest carries member fields for create and update.
type TeamMemberRequest struct {
	Email         string
	Name          string
	Role          string
	CapacityHours *float64
}

func validateMember(req TeamMemberRequest, operation string) error {
	if strings.TrimSpace(req.Email) == "" || !strings.Contains(req.Email, "@") {
		return services.Wrap(services.ErrValidation, "team member", operation, "a valid email is required", nil)
	}
	if strings.TrimSpace(req.Name) == "" {
		return services.Wrap(services.ErrValidation, "team member", operation, "name is required", nil)
	}
	if req.CapacityHours != nil && (*req.CapacityHours < 0 || *req.CapacityHours > 24) {
		return services.Wrap(services.ErrValidation, "team member", operation,
			fmt.Sprintf("capacity hours must be between 0 and 24, got %v", *req.CapacityHours), nil)
	}
	return nil
}

// Create inserts a new team member. Duplicate emails surface as conflicts.
func (s *TeamService) Create(ctx context.Context, req TeamMemberRequest) (*store.TeamMember, error) {
	if err := validateMember(req, "create"); err != nil {
		return nil, err
	}
	member := &store.TeamMember{
		Email: req.Email,
		Name:  req.Name,
		Role:  req.Role,
	}
	if req.CapacityHours != nil {
		member.CapacityHours = *req.CapacityHours
	}
	if err := s.store.CreateTeamMember(ctx, member); err != nil {
		return nil, storeError("team member", "create", err)
	}
	s.logger.Info("team member created",
		logging.String("member_id", member.ID),
		logging.String("email", member.Email))
	return member, nil
}

// Get fetches a member with their derived assigned hours.
func (s *TeamService) Get(ctx context.Context, id string) (*store.TeamMember, error) {
	member, err := s.store.GetTeamMember(ctx, id)
	if err != nil {
		return nil, storeError("team member", "get", err)
	}
	hours, err := s.store.AssignedHours(ctx, id)
	if err != nil {
		return nil, storeError("team member", "assigned hours", err)
	}
	member.AssignedHours = hours
	return member, nil
}

// List returns all members with assigned hours included.
func (s *TeamService) List(ctx context.Context) ([]*store.TeamMember, error) {
	members, err := s.store.ListTeamMembers(ctx)
	if err != nil {
		return nil, storeError("team member", "list", err)
	}
	return members, nil
}

// Update modifies member fields; the email stays unique across members.
func (s *TeamService) Update(ctx context.Context, id string, req TeamMemberRequest) (*store.TeamMember, error) {
	member, err := s.store.GetTeamMember(ctx, id)
	if err != nil {
		return nil, storeError("team member", "update", err)
	}
	if req.Email != "" {
		member.Email = req.Email
	}
	if req.Name != "" {
		member.Name = req.Name
	}
	if req.Role != "" {
		member.Role = req.Role
	}
	if req.CapacityHours != nil {
		member.CapacityHours = *req.CapacityHours
	}
	check := TeamMemberRequest{
		Email:         member.Email,
		Name:          member.Name,
		CapacityHours: &member.CapacityHours,
	}
	if err := validateMember(check, "update"); err != nil {
		return nil, err
	}
	if err := s.store.UpdateTeamMember(ctx, member); err != nil {
		return nil, storeError("team member", "update", err)
	}
	return member, nil
}

// Delete removes a member; their open tasks become unassigned.
func (s *TeamService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteTeamMember(ctx, id); err != nil {
		return storeError("team member", "delete", err)
	}
	s.logger.Info("team member deleted", logging.String("member_id", id))
	return nil
}
