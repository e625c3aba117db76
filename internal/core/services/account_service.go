package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/pagination"
)

// ErrInvalidAccountType indicates an unknown account type on creation.
var ErrInvalidAccountType = fmt.Errorf("%w: account type must be one of ASSET, LIABILITY, EQUITY, INCOME, EXPENSE", apperrors.ErrValidation)

type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accountType := domain.AccountType(strings.ToUpper(strings.TrimSpace(req.AccountType)))
	if !accountType.IsValid() {
		return nil, ErrInvalidAccountType
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		Code:          strings.TrimSpace(req.Code),
		Name:          strings.TrimSpace(req.Name),
		AccountType:   accountType,
		NormalBalance: domain.NormalBalanceFor(accountType),
		Description:   req.Description,
		IsActive:      true,
	}
	account.CreatedAt = now
	account.CreatedBy = creatorUserID
	account.LastUpdatedAt = now
	account.LastUpdatedBy = creatorUserID

	if account.Code == "" || account.Name == "" {
		return nil, fmt.Errorf("%w: account code and name are required", apperrors.ErrValidation)
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("failed to save account", "error", err, "code", account.Code)
		return nil, err
	}

	logger.Info("created account", "account_id", account.AccountID, "code", account.Code)
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

func (s *accountService) FindActiveByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	return s.accountRepo.FindActiveAccountsByIDs(ctx, accountIDs)
}

func (s *accountService) ListAccounts(ctx context.Context, page, limit int) ([]domain.Account, pagination.Meta, error) {
	page, limit = pagination.Normalize(page, limit)
	accounts, total, err := s.accountRepo.ListAccounts(ctx, limit, pagination.Offset(page, limit))
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return accounts, pagination.NewMeta(page, limit, total), nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID); err != nil {
		return err
	}
	logger.Info("deactivated account", "account_id", accountID)
	return nil
}
