package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/betslip-analyzer/internal/domain/account"
	"github.com/riskibarqy/betslip-analyzer/internal/domain/user"
	"github.com/riskibarqy/betslip-analyzer/internal/platform/logging"
)

const DefaultStartingCredits = 5

type AccountService struct {
	repo            account.Repository
	snapshots       account.SnapshotBus
	startingCredits int
	logger          *logging.Logger
	now             func() time.Time
}

func NewAccountService(repo account.Repository, snapshots account.SnapshotBus, startingCredits int, logger *logging.Logger) *AccountService {
	if logger == nil {
		logger = logging.Default()
	}
	if startingCredits < 0 {
		startingCredits = DefaultStartingCredits
	}

	return &AccountService{
		repo:            repo,
		snapshots:       snapshots,
		startingCredits: startingCredits,
		logger:          logger,
		now:             time.Now,
	}
}

// Register creates the account with the starting balance on first sign-in.
// Calling it again returns the existing account unchanged.
func (s *AccountService) Register(ctx context.Context, principal user.Principal) (account.Account, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.Register")
	defer span.End()

	principal.UserID = strings.TrimSpace(principal.UserID)
	if principal.UserID == "" {
		return account.Account{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	email := account.NormalizeEmail(principal.Email)
	if email == "" {
		return account.Account{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	now := s.now().UTC()
	acc, created, err := s.repo.Create(ctx, account.Account{
		UserID:    principal.UserID,
		Email:     email,
		Credits:   s.startingCredits,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return account.Account{}, fmt.Errorf("create account: %w", err)
	}
	if created {
		s.logger.InfoContext(ctx, "account registered", "user_id", acc.UserID, "credits", acc.Credits)
	}
	return acc, nil
}

func (s *AccountService) Get(ctx context.Context, userID string) (account.Account, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.Get")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return account.Account{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	acc, ok, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return account.Account{}, fmt.Errorf("get account: %w", err)
	}
	if !ok {
		return account.Account{}, fmt.Errorf("%w: account %s", ErrNotFound, userID)
	}
	return acc, nil
}

// Subscribe emits the current snapshot first and then every published change
// until ctx ends.
func (s *AccountService) Subscribe(ctx context.Context, userID string) (<-chan account.Account, error) {
	subCtx, cancel := context.WithCancel(ctx)

	// Subscribe before reading so no change between the two is lost.
	updates, err := s.snapshots.Subscribe(subCtx, strings.TrimSpace(userID))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: subscribe account: %v", ErrDependencyUnavailable, err)
	}

	current, err := s.Get(subCtx, userID)
	if err != nil {
		cancel()
		return nil, err
	}

	out := make(chan account.Account, 1)
	out <- current
	go func() {
		defer close(out)
		defer cancel()
		for {
			select {
			case <-subCtx.Done():
				return
			case snapshot, ok := <-updates:
				if !ok {
					return
				}
				select {
				case out <- snapshot:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
