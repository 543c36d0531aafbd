package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joonggo/market-services/auctiongateway/internal/constants"
	"github.com/joonggo/market-services/auctiongateway/internal/model"
	"github.com/joonggo/market-services/auctiongateway/internal/repository"
	"go.uber.org/zap"
)

type AccountService interface {
	CreateAccount(ctx context.Context, cmd CreateAccountCommand) (BalanceResult, error)
	Charge(ctx context.Context, cmd ChargeCommand) (BalanceResult, error)
	GetBalance(accountID string) (BalanceResult, []model.LedgerEntry, error)
}

type accountService struct {
	accountRepo repository.AccountRepository
	ledgerRepo  repository.LedgerRepository
	ledger      LedgerService
	txManager   repository.TxManager
	logger      *zap.Logger
}

func NewAccountService(accountRepo repository.AccountRepository, ledgerRepo repository.LedgerRepository,
	ledger LedgerService, txManager repository.TxManager, logger *zap.Logger) AccountService {
	return &accountService{accountRepo: accountRepo, ledgerRepo: ledgerRepo, ledger: ledger,
		txManager: txManager, logger: logger}
}

func (s *accountService) CreateAccount(ctx context.Context, cmd CreateAccountCommand) (BalanceResult, error) {
	if cmd.AccountID == "" || cmd.InitialBalance < 0 {
		return BalanceResult{}, NewServiceError(constants.ErrCodeValidationFailed, ErrInvalidAmount)
	}

	acc := model.Account{
		AccountID: cmd.AccountID,
		Balance:   0,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.accountRepo.Create(ctx, &acc); err != nil {
			if errors.Is(err, repository.ErrAccountExists) {
				return NewServiceError(constants.ErrCodeAccountExists, err)
			}
			return NewServiceError(constants.ErrCodeInternalError, err)
		}

		if cmd.InitialBalance > 0 {
			entry, err := s.ledger.Credit(ctx, cmd.AccountID, cmd.InitialBalance,
				model.EntryTypeCharge, "initial balance")
			if err != nil {
				return NewServiceError(constants.ErrCodeInternalError, err)
			}
			acc.Balance = entry.Balance
		}

		return nil
	})

	if err != nil {
		s.logger.Error("Failed to create account",
			zap.String("accountID", cmd.AccountID),
			zap.Error(err))
		return BalanceResult{}, err
	}

	s.logger.Info("Account created",
		zap.String("accountID", cmd.AccountID),
		zap.Int64("initialBalance", cmd.InitialBalance))

	return BalanceResult{AccountID: acc.AccountID, Balance: acc.Balance}, nil
}

// Charge is the opaque funding event: an external top-up credited onto the
// points balance.
func (s *accountService) Charge(ctx context.Context, cmd ChargeCommand) (BalanceResult, error) {
	if cmd.Amount <= 0 {
		return BalanceResult{}, NewServiceError(constants.ErrCodeValidationFailed, ErrInvalidAmount)
	}

	var entry model.LedgerEntry
	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.ledger.Credit(ctx, cmd.AccountID, cmd.Amount,
			model.EntryTypeCharge, fmt.Sprintf("charge %d points", cmd.Amount))
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return NewServiceError(constants.ErrCodeAccountNotFound, err)
			}
			return NewServiceError(constants.ErrCodeInternalError, err)
		}
		return nil
	})

	if err != nil {
		s.logger.Error("Failed to charge account",
			zap.String("accountID", cmd.AccountID),
			zap.Int64("amount", cmd.Amount),
			zap.Error(err))
		return BalanceResult{}, err
	}

	s.logger.Info("Account charged",
		zap.String("accountID", cmd.AccountID),
		zap.Int64("amount", cmd.Amount),
		zap.Int64("balance", entry.Balance))

	return BalanceResult{AccountID: cmd.AccountID, Balance: entry.Balance}, nil
}

func (s *accountService) GetBalance(accountID string) (BalanceResult, []model.LedgerEntry, error) {
	acc, err := s.accountRepo.FindByID(accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return BalanceResult{}, nil, NewServiceError(constants.ErrCodeAccountNotFound, err)
		}
		return BalanceResult{}, nil, NewServiceError(constants.ErrCodeInternalError, err)
	}

	entries, err := s.ledgerRepo.FindByAccountID(accountID, 20, 0)
	if err != nil {
		s.logger.Error("Failed to load ledger entries",
			zap.String("accountID", accountID),
			zap.Error(err))
		return BalanceResult{}, nil, NewServiceError(constants.ErrCodeInternalError, err)
	}

	return BalanceResult{AccountID: acc.AccountID, Balance: acc.Balance}, entries, nil
}
