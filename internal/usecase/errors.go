package usecase

import (
	"errors"

	"github.com/riskibarqy/betslip-analyzer/internal/domain/account"
	"github.com/riskibarqy/betslip-analyzer/internal/domain/purchase"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrInsufficientCredit is returned before any provider is contacted.
	ErrInsufficientCredit = account.ErrInsufficientCredit

	ErrNoMatchesFound       = errors.New("no readable matches on slip")
	ErrNoLiveData           = errors.New("no statistics for any match")
	ErrAnalysisFailed       = errors.New("analysis failed")
	ErrPurchaseNotCompleted = errors.New("purchase not completed")
	ErrAlreadyRedeemed      = purchase.ErrAlreadyRedeemed
)
