// Package memory is a process-local Storage used for development and tests.
// It honours the same version contract as the DynamoDB store.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/chris/gig-agreements/pkg/models"
	"github.com/chris/gig-agreements/pkg/storage"
)

// Store keeps deep copies of every record so callers never share memory
// with the stored state.
type Store struct {
	mu           sync.RWMutex
	agreements   map[string]*models.Agreement
	milestones   map[string]*models.Milestone
	transactions map[string]*models.Transaction
	users        map[string]*models.User
	connections  map[string]string
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		agreements:   make(map[string]*models.Agreement),
		milestones:   make(map[string]*models.Milestone),
		transactions: make(map[string]*models.Transaction),
		users:        make(map[string]*models.User),
		connections:  make(map[string]string),
	}
}

var _ storage.Storage = (*Store)(nil)

func clone[T any](v *T) *T {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("memory store: marshal %T: %v", v, err))
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		panic(fmt.Sprintf("memory store: unmarshal %T: %v", v, err))
	}
	return &out
}

// PutUser registers or replaces a user profile.
func (s *Store) PutUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := clone(u)
	c.WalletAddress = strings.ToLower(c.WalletAddress)
	s.users[u.UserID] = c
}

func (s *Store) GetAgreement(_ context.Context, id string) (*models.Agreement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.agreements[id]
	if !ok {
		return nil, fmt.Errorf("agreement with ID %s %w", id, storage.ErrNotFound)
	}
	return clone(a), nil
}

func (s *Store) ListAgreements(_ context.Context, filter storage.ListFilter) ([]*models.Agreement, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wallet := strings.ToLower(filter.WalletAddress)
	var matches []*models.Agreement
	for _, a := range s.agreements {
		byUser := filter.UserID != "" && (a.ClientID == filter.UserID || a.DeveloperID == filter.UserID)
		byWallet := wallet != "" && (strings.EqualFold(a.ClientWallet, wallet) || strings.EqualFold(a.DeveloperWallet, wallet))
		if !byUser && !byWallet {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		matches = append(matches, a)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].ID < matches[j].ID
		}
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})

	start, end := filter.Bounds(len(matches))
	page := make([]*models.Agreement, 0, end-start)
	for _, a := range matches[start:end] {
		page = append(page, clone(a))
	}
	return page, len(matches), nil
}

func (s *Store) GetMilestone(_ context.Context, id string) (*models.Milestone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.milestones[id]
	if !ok {
		return nil, fmt.Errorf("milestone with ID %s %w", id, storage.ErrNotFound)
	}
	return clone(m), nil
}

func (s *Store) ListMilestones(_ context.Context, agreementID string) ([]*models.Milestone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Milestone
	for _, m := range s.milestones {
		if m.AgreementID == agreementID {
			out = append(out, clone(m))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MilestoneNumber != out[j].MilestoneNumber {
			return out[i].MilestoneNumber < out[j].MilestoneNumber
		}
		if out[i].IsActive != out[j].IsActive {
			return out[i].IsActive
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetTransaction(_ context.Context, txID string) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.transactions[txID]
	if !ok {
		return nil, fmt.Errorf("transaction with ID %s %w", txID, storage.ErrNotFound)
	}
	return clone(tx), nil
}

func (s *Store) ListTransactionsByAgreement(_ context.Context, agreementID string) ([]*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Transaction
	for _, tx := range s.transactions {
		if tx.AgreementID == agreementID {
			out = append(out, clone(tx))
		}
	}
	sortTransactions(out)
	return out, nil
}

func (s *Store) GetPendingTransactions(_ context.Context, maxAge time.Duration) ([]*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cutoff := time.Now().Add(-maxAge)
	var out []*models.Transaction
	for _, tx := range s.transactions {
		if tx.Status != models.TxPending && tx.Status != models.TxProcessing {
			continue
		}
		if tx.CreatedAt.Before(cutoff) {
			out = append(out, clone(tx))
		}
	}
	sortTransactions(out)
	return out, nil
}

func sortTransactions(txs []*models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if txs[i].CreatedAt.Equal(txs[j].CreatedAt) {
			return txs[i].ID < txs[j].ID
		}
		return txs[i].CreatedAt.Before(txs[j].CreatedAt)
	})
}

func (s *Store) GetUser(_ context.Context, userID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("user with ID %s %w", userID, storage.ErrNotFound)
	}
	return clone(u), nil
}

func (s *Store) ResolveWallet(_ context.Context, walletAddress string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wallet := strings.ToLower(walletAddress)
	for _, u := range s.users {
		if u.WalletAddress == wallet {
			return u.UserID, nil
		}
	}
	return "", fmt.Errorf("user with wallet %s %w", wallet, storage.ErrNotFound)
}

// Commit applies the change set under the write lock after checking every
// version, so either all records are written or none are.
func (s *Store) Commit(_ context.Context, cs *storage.ChangeSet) error {
	if cs.Empty() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if a := cs.Agreement; a != nil {
		if err := checkVersion(s.agreements[a.ID], a.Version, func(x *models.Agreement) int64 { return x.Version }); err != nil {
			return fmt.Errorf("agreement %s: %w", a.ID, err)
		}
	}
	for _, m := range cs.Milestones {
		if err := checkVersion(s.milestones[m.ID], m.Version, func(x *models.Milestone) int64 { return x.Version }); err != nil {
			return fmt.Errorf("milestone %s: %w", m.ID, err)
		}
	}
	for _, tx := range cs.Transactions {
		if err := checkVersion(s.transactions[tx.ID], tx.Version, func(x *models.Transaction) int64 { return x.Version }); err != nil {
			return fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
	}

	if a := cs.Agreement; a != nil {
		a.Version++
		s.agreements[a.ID] = clone(a)
	}
	for _, m := range cs.Milestones {
		m.Version++
		s.milestones[m.ID] = clone(m)
	}
	for _, tx := range cs.Transactions {
		tx.Version++
		s.transactions[tx.ID] = clone(tx)
	}
	for _, d := range cs.UserStats {
		u, ok := s.users[d.UserID]
		if !ok {
			u = &models.User{UserID: d.UserID, CreatedAt: time.Now().UTC()}
			s.users[d.UserID] = u
		}
		u.CompletedProjects += d.CompletedProjects
		u.TotalEarned = u.TotalEarned.Add(d.Earned)
		u.TotalSpent = u.TotalSpent.Add(d.Spent)
	}
	return nil
}

func checkVersion[T any](stored *T, expected int64, version func(*T) int64) error {
	if stored == nil {
		if expected != 0 {
			return storage.ErrConflict
		}
		return nil
	}
	if version(stored) != expected {
		return storage.ErrConflict
	}
	return nil
}

func (s *Store) AddConnection(_ context.Context, connectionID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections[connectionID] = userID
	return nil
}

func (s *Store) RemoveConnection(_ context.Context, connectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.connections, connectionID)
	return nil
}

func (s *Store) GetConnectionsForUsers(_ context.Context, userIDs []string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	want := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		if id != "" {
			want[id] = true
		}
	}
	var out []string
	for conn, user := range s.connections {
		if want[user] {
			out = append(out, conn)
		}
	}
	sort.Strings(out)
	return out, nil
}
