package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"evdash/internal/apperr"
	"evdash/internal/models"
	"evdash/internal/repo"
	"evdash/internal/scope"
	"evdash/internal/security"
)

// Defaults for generated owner logins.
const (
	defaultOwnerPassword = "Admin@2026"
	ownerPermissionTier  = 2
)

// OwnersService manages owner records and their login accounts. All
// mutations are admin-only.
type OwnersService struct {
	owners   *repo.OwnersRepo
	accounts *repo.AccountsRepo
	log      *zap.Logger
}

func NewOwnersService(owners *repo.OwnersRepo, accounts *repo.AccountsRepo, log *zap.Logger) *OwnersService {
	return &OwnersService{owners: owners, accounts: accounts, log: log}
}

type OwnerInput struct {
	Name    string  `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Status  *int    `json:"status"`
}

func (s *OwnersService) List(ctx context.Context, sc scope.Scope, pr models.PageRequest) ([]models.OwnerRow, int, error) {
	return s.owners.List(ctx, sc, pr)
}

func (s *OwnersService) Create(ctx context.Context, sc scope.Scope, in OwnerInput) (*models.Owner, error) {
	if sc.Restricted() {
		return nil, apperr.Forbidden("administrator access required")
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, apperr.Validation("owner name is required")
	}
	o := models.Owner{Name: in.Name, Address: in.Address, Phone: in.Phone, Email: in.Email, Status: 1}
	if in.Status != nil {
		o.Status = *in.Status
	}
	id, err := s.owners.Create(ctx, o)
	if err != nil {
		return nil, err
	}
	s.log.Info("owner created", zap.Int64("ownerId", id))
	return s.owners.Get(ctx, id)
}

func (s *OwnersService) Update(ctx context.Context, sc scope.Scope, id int64, in OwnerInput) (*models.Owner, error) {
	if sc.Restricted() {
		return nil, apperr.Forbidden("administrator access required")
	}
	existing, err := s.owners.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFound("owner not found")
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name != "" {
		existing.Name = in.Name
	}
	if in.Address != nil {
		existing.Address = in.Address
	}
	if in.Phone != nil {
		existing.Phone = in.Phone
	}
	if in.Email != nil {
		existing.Email = in.Email
	}
	if in.Status != nil {
		existing.Status = *in.Status
	}
	if err := s.owners.Update(ctx, *existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete refuses to remove an owner that still holds stations or login
// accounts, with a distinct message for each.
func (s *OwnersService) Delete(ctx context.Context, sc scope.Scope, id int64) error {
	if sc.Restricted() {
		return apperr.Forbidden("administrator access required")
	}
	existing, err := s.owners.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.NotFound("owner not found")
	}
	stations, err := s.owners.StationCount(ctx, id)
	if err != nil {
		return err
	}
	if stations > 0 {
		return apperr.Conflictf("owner still has %d stations", stations)
	}
	accounts, err := s.owners.AccountCount(ctx, id)
	if err != nil {
		return err
	}
	if accounts > 0 {
		return apperr.Conflictf("owner still has %d login accounts", accounts)
	}
	if err := s.owners.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("owner deleted", zap.Int64("ownerId", id))
	return nil
}

// LoginResult reports what EnsureLogin did: "created" a fresh account or
// "reset" the password on an existing one.
type LoginResult struct {
	Action   string `json:"action"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// EnsureLogin guarantees the owner has a usable login account. Existing
// accounts get their password reset to the default; otherwise a new account
// is created under a generated owner<id> username.
func (s *OwnersService) EnsureLogin(ctx context.Context, sc scope.Scope, ownerID int64) (*LoginResult, error) {
	if sc.Restricted() {
		return nil, apperr.Forbidden("administrator access required")
	}
	owner, err := s.owners.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, apperr.NotFound("owner not found")
	}

	hash, err := security.HashPassword(defaultOwnerPassword)
	if err != nil {
		return nil, err
	}

	existing, err := s.accounts.FirstForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := s.accounts.UpdatePassword(ctx, existing.AccountID, hash); err != nil {
			return nil, err
		}
		s.log.Info("owner login reset", zap.Int64("ownerId", ownerID), zap.String("username", existing.Username))
		return &LoginResult{Action: "reset", Username: existing.Username, Password: defaultOwnerPassword}, nil
	}

	base := fmt.Sprintf("owner%d", ownerID)
	username := base
	if taken, err := s.accounts.CountUsernamesLike(ctx, base); err != nil {
		return nil, err
	} else if taken > 0 {
		username = fmt.Sprintf("%s_%d", base, taken+1)
	}

	account := models.Account{
		Name:         owner.Name,
		Username:     username,
		PasswordHash: hash,
		OwnerID:      &ownerID,
		PermissionID: ownerPermissionTier,
	}
	if _, err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	s.log.Info("owner login created", zap.Int64("ownerId", ownerID), zap.String("username", username))
	return &LoginResult{Action: "created", Username: username, Password: defaultOwnerPassword}, nil
}
