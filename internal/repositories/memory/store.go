// Package memory provides an in-process implementation of the ledger
// repositories. It honours the same unit-of-work and row-lock contract as the
// postgres store and is used to exercise the services without a database.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"ledger/internal/models"
	"ledger/internal/repositories"
)

var errNotLocked = errors.New("wallet row is not locked by this transaction")

// Store keeps wallets, transactions and API keys in maps. Writes made inside
// ExecuteInTransaction are staged and applied together at commit.
type Store struct {
	mu  sync.Mutex
	now func() time.Time
	seq int64

	wallets map[uuid.UUID]models.Wallet
	owners  map[string]uuid.UUID
	numbers map[string]uuid.UUID

	txs  map[uuid.UUID]storedTransaction
	refs map[string]uuid.UUID

	apiKeys map[string]models.APIKey

	// one buffered channel per wallet row; holding the token is holding the lock
	rowLocks map[uuid.UUID]chan struct{}

	pingErr error
}

type storedTransaction struct {
	tx  models.Transaction
	seq int64
}

var (
	_ repositories.LedgerRepository = (*Store)(nil)
	_ repositories.APIKeyRepository = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		now:      time.Now,
		wallets:  make(map[uuid.UUID]models.Wallet),
		owners:   make(map[string]uuid.UUID),
		numbers:  make(map[string]uuid.UUID),
		txs:      make(map[uuid.UUID]storedTransaction),
		refs:     make(map[string]uuid.UUID),
		apiKeys:  make(map[string]models.APIKey),
		rowLocks: make(map[uuid.UUID]chan struct{}),
	}
}

// WithPingError forces Ping to return err.
func (s *Store) WithPingError(err error) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pingErr = err
	return s
}

// AddAPIKey registers an issued key under its hash.
func (s *Store) AddAPIKey(key models.APIKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key.ID == uuid.Nil {
		key.ID = uuid.New()
	}
	s.apiKeys[key.KeyHash] = key
}

func (s *Store) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pingErr
}

func (s *Store) GetWalletByOwner(_ context.Context, ownerID string) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.owners[ownerID]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	w := s.wallets[id]
	return &w, nil
}

func (s *Store) GetWalletByNumber(_ context.Context, walletNumber string) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.numbers[walletNumber]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	w := s.wallets[id]
	return &w, nil
}

func (s *Store) WalletNumberExists(_ context.Context, walletNumber string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.numbers[walletNumber]
	return ok, nil
}

func (s *Store) CreateWallet(_ context.Context, wallet *models.Wallet) error {
	if wallet.Balance < 0 {
		return repositories.ErrNegativeAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.owners[wallet.OwnerID]; ok {
		return fmt.Errorf("failed to create wallet: %w", repositories.ErrDuplicateKey)
	}
	if _, ok := s.numbers[wallet.WalletNumber]; ok {
		return fmt.Errorf("failed to create wallet: %w", repositories.ErrDuplicateKey)
	}
	if wallet.ID == uuid.Nil {
		wallet.ID = uuid.New()
	}
	now := s.now()
	wallet.CreatedAt, wallet.UpdatedAt = now, now
	s.wallets[wallet.ID] = *wallet
	s.owners[wallet.OwnerID] = wallet.ID
	s.numbers[wallet.WalletNumber] = wallet.ID
	return nil
}

func (s *Store) GetTransactionByReference(_ context.Context, reference string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactionByReferenceLocked(reference)
}

func (s *Store) CreateTransaction(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkInsertLocked(tx); err != nil {
		return err
	}
	s.prepareLocked(tx)
	s.insertLocked(*tx)
	return nil
}

func (s *Store) ListTransactionsByWallet(_ context.Context, walletID uuid.UUID) ([]models.Transaction, error) {
	s.mu.Lock()
	var rows []storedTransaction
	for _, st := range s.txs {
		if st.tx.WalletID == walletID {
			rows = append(rows, st)
		}
	}
	s.mu.Unlock()

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].tx.CreatedAt.Equal(rows[j].tx.CreatedAt) {
			return rows[i].tx.CreatedAt.After(rows[j].tx.CreatedAt)
		}
		return rows[i].seq > rows[j].seq
	})
	out := make([]models.Transaction, 0, len(rows))
	for _, st := range rows {
		out = append(out, st.tx)
	}
	return out, nil
}

func (s *Store) GetAPIKeyByHash(_ context.Context, keyHash string) (*models.APIKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.apiKeys[keyHash]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	return &key, nil
}

func (s *Store) ExecuteInTransaction(ctx context.Context, fn func(repositories.LedgerTx) error) error {
	t := &unitOfWork{
		store:    s,
		held:     make(map[uuid.UUID]chan struct{}),
		balances: make(map[uuid.UUID]int64),
		statuses: make(map[uuid.UUID]models.TransactionStatus),
	}
	// Locks are released on every exit path, panics included.
	defer t.release()

	if err := fn(t); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.commit(t)
}

func (s *Store) rowLock(id uuid.UUID) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.rowLocks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.rowLocks[id] = ch
	}
	return ch
}

func (s *Store) commit(t *unitOfWork) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tx := range t.creates {
		if _, ok := s.refs[tx.Reference]; ok {
			return fmt.Errorf("failed to commit: %w", repositories.ErrDuplicateKey)
		}
	}

	now := s.now()
	for id, balance := range t.balances {
		w := s.wallets[id]
		w.Balance = balance
		w.UpdatedAt = now
		s.wallets[id] = w
	}
	for id, status := range t.statuses {
		if st, ok := s.txs[id]; ok {
			st.tx.Status = status
			st.tx.UpdatedAt = now
			s.txs[id] = st
		}
	}
	for _, tx := range t.creates {
		if status, ok := t.statuses[tx.ID]; ok {
			tx.Status = status
		}
		s.insertLocked(tx)
	}
	return nil
}

func (s *Store) transactionByReferenceLocked(reference string) (*models.Transaction, error) {
	id, ok := s.refs[reference]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	tx := s.txs[id].tx
	return &tx, nil
}

func (s *Store) checkInsertLocked(tx *models.Transaction) error {
	if tx.Amount <= 0 {
		return fmt.Errorf("failed to create transaction: amount must be positive")
	}
	if _, ok := s.wallets[tx.WalletID]; !ok {
		return fmt.Errorf("failed to create transaction: unknown wallet %s", tx.WalletID)
	}
	if _, ok := s.refs[tx.Reference]; ok {
		return fmt.Errorf("failed to create transaction: %w", repositories.ErrDuplicateKey)
	}
	return nil
}

func (s *Store) prepareLocked(tx *models.Transaction) {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	if tx.Status == "" {
		tx.Status = models.TransactionStatusPending
	}
	now := s.now()
	tx.CreatedAt, tx.UpdatedAt = now, now
}

func (s *Store) insertLocked(tx models.Transaction) {
	s.seq++
	s.txs[tx.ID] = storedTransaction{tx: tx, seq: s.seq}
	s.refs[tx.Reference] = tx.ID
}

type unitOfWork struct {
	store    *Store
	held     map[uuid.UUID]chan struct{}
	balances map[uuid.UUID]int64
	statuses map[uuid.UUID]models.TransactionStatus
	creates  []models.Transaction
}

func (t *unitOfWork) LockWallet(ctx context.Context, id uuid.UUID) (*models.Wallet, error) {
	if _, ok := t.held[id]; !ok {
		ch := t.store.rowLock(id)
		select {
		case ch <- struct{}{}:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		t.held[id] = ch
	}

	t.store.mu.Lock()
	w, ok := t.store.wallets[id]
	t.store.mu.Unlock()
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	if balance, staged := t.balances[id]; staged {
		w.Balance = balance
	}
	return &w, nil
}

func (t *unitOfWork) GetTransactionByReference(_ context.Context, reference string) (*models.Transaction, error) {
	for i := range t.creates {
		if t.creates[i].Reference == reference {
			tx := t.creates[i]
			return &tx, nil
		}
	}

	t.store.mu.Lock()
	tx, err := t.store.transactionByReferenceLocked(reference)
	t.store.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if status, ok := t.statuses[tx.ID]; ok {
		tx.Status = status
	}
	return tx, nil
}

func (t *unitOfWork) UpdateWalletBalance(_ context.Context, id uuid.UUID, balance int64) error {
	if balance < 0 {
		return repositories.ErrNegativeAmount
	}
	if _, ok := t.held[id]; !ok {
		return errNotLocked
	}
	t.balances[id] = balance
	return nil
}

func (t *unitOfWork) UpdateTransactionStatus(_ context.Context, id uuid.UUID, status models.TransactionStatus) error {
	for i := range t.creates {
		if t.creates[i].ID == id {
			t.creates[i].Status = status
			return nil
		}
	}
	t.store.mu.Lock()
	_, ok := t.store.txs[id]
	t.store.mu.Unlock()
	if !ok {
		return repositories.ErrRecordNotFound
	}
	t.statuses[id] = status
	return nil
}

func (t *unitOfWork) CreateTransactions(_ context.Context, txs ...*models.Transaction) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	seen := make(map[string]struct{}, len(t.creates)+len(txs))
	for _, c := range t.creates {
		seen[c.Reference] = struct{}{}
	}
	for _, tx := range txs {
		if err := t.store.checkInsertLocked(tx); err != nil {
			return err
		}
		if _, dup := seen[tx.Reference]; dup {
			return fmt.Errorf("failed to create transactions: %w", repositories.ErrDuplicateKey)
		}
		seen[tx.Reference] = struct{}{}
	}
	for _, tx := range txs {
		t.store.prepareLocked(tx)
		t.creates = append(t.creates, *tx)
	}
	return nil
}

func (t *unitOfWork) release() {
	for id, ch := range t.held {
		<-ch
		delete(t.held, id)
	}
}
