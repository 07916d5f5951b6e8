package services

import (
	"context"
	"strings"

	"voyago/internal/models/db_models"
	"voyago/internal/models/request_models"
	"voyago/internal/models/response_models"
	"voyago/internal/repositories"
	"voyago/pkg/logger"
	"voyago/pkg/utils"
)

type AccountServiceInterface interface {
	Login(ctx context.Context, req request_models.LoginRequest) (*response_models.LoginResponse, error)
	CreateAccount(ctx context.Context, req request_models.SignUpRequest) error
	GetProfile(ctx context.Context, id string) (*response_models.AccountProfileResponse, error)
}

type AccountService struct {
	accountRepo repositories.AccountRepository
	log         *logger.Logger
}

func NewAccountService(accountRepo repositories.AccountRepository, log *logger.Logger) AccountServiceInterface {
	return &AccountService{
		accountRepo: accountRepo,
		log:         log.With("service", "account"),
	}
}

func (s *AccountService) Login(ctx context.Context, req request_models.LoginRequest) (*response_models.LoginResponse, error) {
	account, err := s.accountRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(account.PasswordHash, req.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	token, err := utils.CreateToken(account.ID, account.Role)
	if err != nil {
		s.log.Error("token creation failed", "account_id", account.ID, "error", err)
		return nil, err
	}

	return &response_models.LoginResponse{Token: token}, nil
}

func (s *AccountService) CreateAccount(ctx context.Context, req request_models.SignUpRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if existing != nil {
		return utils.ErrEmailAlreadyUsed
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("password hashing failed", "error", err)
		return err
	}

	account := &db_models.Account{
		Name:         strings.TrimSpace(req.DisplayName),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.accountRepo.InsertTx(account, ctx); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *AccountService) GetProfile(ctx context.Context, id string) (*response_models.AccountProfileResponse, error) {
	account, err := s.accountRepo.FindById(ctx, id)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	return &response_models.AccountProfileResponse{
		ID:      account.ID.String(),
		Name:    account.Name,
		Email:   account.Email,
		Role:    account.Role,
		Credits: account.Credits,
	}, nil
}
