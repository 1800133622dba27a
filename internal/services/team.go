package services

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/taskflowhq/taskflow/internal/models"
	"github.com/taskflowhq/taskflow/internal/repository"
	"github.com/taskflowhq/taskflow/internal/views"
	"github.com/taskflowhq/taskflow/pkg/response"
)

// memberFetchLimit bounds the per-team member fan-out on listings.
const memberFetchLimit = 8

type TeamService struct {
	db       *gorm.DB
	repo     *repository.Repo[models.Team, models.Team]
	members  *repository.Repo[models.TeamMember, views.TeamMember]
	activity *ActivityService
}

func NewTeamService(db *gorm.DB, activity *ActivityService) *TeamService {
	return &TeamService{
		db: db,
		repo: repository.New(db, func(rec models.Team) models.Team {
			return rec
		}),
		members:  repository.New(db, views.NewTeamMember),
		activity: activity,
	}
}

type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description"`
	CompanyID   string `json:"companyId"`
}

type UpdateTeamRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	CompanyID   *string `json:"companyId"`
}

type MemberRequest struct {
	Name   string `json:"name" binding:"required,max=200"`
	Role   string `json:"role"`
	Email  string `json:"email" binding:"omitempty,email"`
	Avatar string `json:"avatar"`
	UserID string `json:"userId"`
}

// List returns the caller's visible teams with their members and company
// names joined on. Members are fetched per team with a bounded fan-out.
func (s *TeamService) List(ctx context.Context, who Identity) ([]views.Team, error) {
	recs, err := s.repo.List(ctx, who.scope()...)
	if err != nil {
		return nil, err
	}

	names, err := s.companyNames(ctx, recs)
	if err != nil {
		return nil, err
	}

	out := make([]views.Team, len(recs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(memberFetchLimit)
	for i, rec := range recs {
		g.Go(func() error {
			members, err := s.members.List(gctx, repository.ByTeam(rec.ID))
			if err != nil {
				return err
			}
			companyName := ""
			if rec.CompanyID != nil {
				companyName = names[*rec.CompanyID]
			}
			out[i] = views.NewTeam(rec, companyName, members)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

func (s *TeamService) Get(ctx context.Context, who Identity, id string) (views.Team, error) {
	var zero views.Team

	rec, err := s.loadTeam(ctx, who, id)
	if err != nil {
		return zero, err
	}

	members, err := s.members.List(ctx, repository.ByTeam(id))
	if err != nil {
		return zero, err
	}

	names, err := s.companyNames(ctx, []models.Team{rec})
	if err != nil {
		return zero, err
	}
	companyName := ""
	if rec.CompanyID != nil {
		companyName = names[*rec.CompanyID]
	}

	return views.NewTeam(rec, companyName, members), nil
}

func (s *TeamService) Create(ctx context.Context, who Identity, req *CreateTeamRequest) (views.Team, error) {
	var zero views.Team

	rec := models.Team{Name: req.Name}
	if req.Description != "" {
		rec.Description = &req.Description
	}

	companyID := req.CompanyID
	if !who.IsSuperadmin() && who.CompanyID != "" {
		companyID = who.CompanyID
	}
	if companyID != "" {
		rec.CompanyID = &companyID
	}

	if _, err := s.repo.Create(ctx, &rec); err != nil {
		return zero, err
	}

	s.activity.Record(ctx, who, "team", rec.ID, "created", summarize("created", "team", rec.Name))
	return s.Get(ctx, who, rec.ID)
}

func (s *TeamService) Update(ctx context.Context, who Identity, id string, req *UpdateTeamRequest) (views.Team, error) {
	var zero views.Team

	if _, err := s.loadTeam(ctx, who, id); err != nil {
		return zero, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil && *req.Name != "" {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = nullable(*req.Description)
	}
	if req.CompanyID != nil && who.IsSuperadmin() {
		updates["company_id"] = nullable(*req.CompanyID)
	}

	if _, err := s.repo.Update(ctx, id, updates); err != nil {
		return zero, err
	}

	team, err := s.Get(ctx, who, id)
	if err != nil {
		return zero, err
	}

	s.activity.Record(ctx, who, "team", id, "updated", summarize("updated", "team", team.Name))
	return team, nil
}

// Delete removes a team together with its membership rows.
func (s *TeamService) Delete(ctx context.Context, who Identity, id string) error {
	rec, err := s.loadTeam(ctx, who, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Team{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}

	s.activity.Record(ctx, who, "team", id, "deleted", summarize("deleted", "team", rec.Name))
	return nil
}

// ListMembers returns a team's membership rows.
func (s *TeamService) ListMembers(ctx context.Context, who Identity, teamID string) ([]views.TeamMember, error) {
	if _, err := s.loadTeam(ctx, who, teamID); err != nil {
		return nil, err
	}
	return s.members.List(ctx, repository.ByTeam(teamID))
}

// AddMember adds a person to a team.
func (s *TeamService) AddMember(ctx context.Context, who Identity, teamID string, req *MemberRequest) (views.TeamMember, error) {
	var zero views.TeamMember

	if _, err := s.loadTeam(ctx, who, teamID); err != nil {
		return zero, err
	}

	rec := models.TeamMember{
		Name:   req.Name,
		TeamID: teamID,
		UserID: req.UserID,
	}
	if req.Role != "" {
		rec.Role = &req.Role
	}
	if req.Email != "" {
		rec.Email = &req.Email
	}
	if req.Avatar != "" {
		rec.Avatar = &req.Avatar
	}

	return s.members.Create(ctx, &rec)
}

// UpdateMember updates a membership row.
func (s *TeamService) UpdateMember(ctx context.Context, who Identity, teamID, memberID string, req *MemberRequest) (views.TeamMember, error) {
	var zero views.TeamMember

	if err := s.memberInTeam(ctx, who, teamID, memberID); err != nil {
		return zero, err
	}

	updates := map[string]interface{}{
		"name":   req.Name,
		"role":   nullable(req.Role),
		"email":  nullable(req.Email),
		"avatar": nullable(req.Avatar),
	}
	return s.members.Update(ctx, memberID, updates)
}

// RemoveMember removes a person from a team.
func (s *TeamService) RemoveMember(ctx context.Context, who Identity, teamID, memberID string) error {
	if err := s.memberInTeam(ctx, who, teamID, memberID); err != nil {
		return err
	}
	return s.members.Delete(ctx, memberID)
}

func (s *TeamService) loadTeam(ctx context.Context, who Identity, id string) (models.Team, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Team{}, response.NewNotFound("team not found")
		}
		return models.Team{}, err
	}

	companyID := ""
	if rec.CompanyID != nil {
		companyID = *rec.CompanyID
	}
	if !who.canSee(companyID) {
		return models.Team{}, response.NewNotFound("team not found")
	}
	return rec, nil
}

func (s *TeamService) memberInTeam(ctx context.Context, who Identity, teamID, memberID string) error {
	if _, err := s.loadTeam(ctx, who, teamID); err != nil {
		return err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.TeamMember{}).
		Where("id = ? AND team_id = ?", memberID, teamID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return response.NewNotFound("team member not found")
	}
	return nil
}

// companyNames batch-resolves the company name for each team's company id.
func (s *TeamService) companyNames(ctx context.Context, recs []models.Team) (map[string]string, error) {
	ids := make([]string, 0, len(recs))
	seen := make(map[string]bool)
	for _, rec := range recs {
		if rec.CompanyID != nil && !seen[*rec.CompanyID] {
			seen[*rec.CompanyID] = true
			ids = append(ids, *rec.CompanyID)
		}
	}

	names := make(map[string]string)
	if len(ids) == 0 {
		return names, nil
	}

	var companies []models.Company
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&companies).Error; err != nil {
		return nil, err
	}
	for _, company := range companies {
		names[company.ID] = company.Name
	}
	return names, nil
}
