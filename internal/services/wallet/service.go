package wallet

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"math/big"
	"strconv"
	"time"

	domainerrors "ledger/internal/errors"
	"ledger/internal/models"
	"ledger/internal/repositories"
	"ledger/internal/repositories/cache"
	"ledger/internal/telemetry"
)

type service struct {
	repo    repositories.LedgerRepository
	cache   cache.Cache
	config  Config
	metrics telemetry.MetricsCollector
	log     *slog.Logger

	// randomNumber draws a candidate wallet number.
	randomNumber func() (int64, error)
}

// NewService creates a new wallet service
func NewService(
	repo repositories.LedgerRepository,
	c cache.Cache,
	config Config,
	metrics telemetry.MetricsCollector,
	log *slog.Logger,
) Service {
	return newService(repo, c, config, metrics, log)
}

func newService(
	repo repositories.LedgerRepository,
	c cache.Cache,
	config Config,
	metrics telemetry.MetricsCollector,
	log *slog.Logger,
) *service {
	if repo == nil {
		panic("repo is required")
	}
	if c == nil {
		panic("cache is required")
	}

	if config.DefaultCurrency == "" {
		config.DefaultCurrency = DefaultCurrency
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = CacheDuration
	}

	// Metrics is optional, create no-op collector if nil
	if metrics == nil {
		metrics = telemetry.NoopMetricsCollector{}
	}
	if log == nil {
		log = slog.Default()
	}

	return &service{
		repo:         repo,
		cache:        c,
		config:       config,
		metrics:      metrics,
		log:          log.With("component", "wallet"),
		randomNumber: cryptoWalletNumber,
	}
}

func cryptoWalletNumber() (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(WalletNumberMax-WalletNumberMin))
	if err != nil {
		return 0, err
	}
	return WalletNumberMin + n.Int64(), nil
}

func (s *service) GenerateWalletNumber(ctx context.Context) (string, error) {
	for attempt := 0; attempt < MaxWalletNumberAttempts; attempt++ {
		n, err := s.randomNumber()
		if err != nil {
			return "", domainerrors.Internal("failed to generate wallet number", err)
		}
		number := strconv.FormatInt(n, 10)

		exists, err := s.repo.WalletNumberExists(ctx, number)
		if err != nil {
			return "", domainerrors.Internal("failed to check wallet number", err)
		}
		if !exists {
			return number, nil
		}
		s.log.Debug("wallet number collision", "attempt", attempt+1)
	}
	return "", domainerrors.Internal("could not allocate a unique wallet number", nil)
}

func (s *service) CreateWallet(ctx context.Context, ownerID string) (*models.Wallet, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("create_wallet", time.Since(start)) }()

	if _, err := s.repo.GetWalletByOwner(ctx, ownerID); err == nil {
		return nil, domainerrors.ErrWalletExists
	} else if !errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, domainerrors.Internal("failed to look up wallet", err)
	}

	for attempt := 0; attempt < MaxWalletNumberAttempts; attempt++ {
		number, err := s.GenerateWalletNumber(ctx)
		if err != nil {
			return nil, err
		}

		wallet := &models.Wallet{
			OwnerID:      ownerID,
			Balance:      0,
			Currency:     s.config.DefaultCurrency,
			WalletNumber: number,
		}
		err = s.repo.CreateWallet(ctx, wallet)
		if err == nil {
			s.metrics.RecordOperationResult("create_wallet", "success")
			s.log.Info("wallet created", "owner_id", ownerID, "wallet_number", number)
			return wallet, nil
		}
		if !errors.Is(err, repositories.ErrDuplicateKey) {
			s.metrics.RecordError("create_wallet", "storage")
			return nil, domainerrors.Internal("failed to create wallet", err)
		}

		// The unique violation is either a concurrent create for the same
		// owner or a wallet number taken since it was checked.
		if _, lookupErr := s.repo.GetWalletByOwner(ctx, ownerID); lookupErr == nil {
			return nil, domainerrors.ErrWalletExists
		}
	}

	s.metrics.RecordError("create_wallet", "wallet_number_exhausted")
	return nil, domainerrors.Internal("could not allocate a unique wallet number", nil)
}

func (s *service) GetWallet(ctx context.Context, ownerID string) (*models.Wallet, error) {
	wallet, err := s.repo.GetWalletByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, domainerrors.ErrWalletNotFound
		}
		return nil, domainerrors.Internal("failed to get wallet", err)
	}
	return wallet, nil
}

// GetBalance never fails for a missing wallet; it reports zero in the default
// currency instead.
//
// A cached balance is tagged with the owner's balance generation at the time
// it was read and is only served while that generation is current, so a
// write racing with InvalidateBalance can never be served afterwards.
func (s *service) GetBalance(ctx context.Context, ownerID string) (*Balance, error) {
	key := cache.BalanceKey(ownerID)

	var generation int64
	if _, err := s.cache.Get(ctx, cache.BalanceGenerationKey(ownerID), &generation); err != nil {
		s.log.Warn("balance generation read failed", "owner_id", ownerID, "error", err)
		return s.loadBalance(ctx, ownerID)
	}

	var cached cachedBalance
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("balance cache read failed", "owner_id", ownerID, "error", err)
	}
	if found && cached.Generation == generation {
		s.metrics.RecordCacheHit(key)
		return &cached.Balance, nil
	}
	s.metrics.RecordCacheMiss(key)

	balance, err := s.loadBalance(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	entry := cachedBalance{Generation: generation, Balance: *balance}
	if err := s.cache.SetWithTTL(ctx, key, entry, s.config.CacheTTL); err != nil {
		s.log.Warn("balance cache write failed", "owner_id", ownerID, "error", err)
	}
	return balance, nil
}

func (s *service) loadBalance(ctx context.Context, ownerID string) (*Balance, error) {
	wallet, err := s.repo.GetWalletByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return &Balance{Balance: 0, Currency: s.config.DefaultCurrency}, nil
		}
		return nil, domainerrors.Internal("failed to get balance", err)
	}
	return &Balance{Balance: wallet.Balance, Currency: wallet.Currency}, nil
}

// InvalidateBalance must be called after the change has committed. Bumping
// the generation retires every cached copy, including one being written by a
// reader that loaded the old row.
func (s *service) InvalidateBalance(ctx context.Context, ownerIDs ...string) {
	keys := make([]string, 0, len(ownerIDs))
	for _, id := range ownerIDs {
		if _, err := s.cache.Incr(ctx, cache.BalanceGenerationKey(id)); err != nil {
			s.log.Warn("balance generation bump failed", "owner_id", id, "error", err)
		}
		keys = append(keys, cache.BalanceKey(id))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.Warn("balance cache invalidation failed", "owners", ownerIDs, "error", err)
	}
}
