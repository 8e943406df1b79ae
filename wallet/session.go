// Package wallet holds the connection state of the operator's wallet and a
// periodically refreshed SOL balance.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/gojira-holdings/validator-web/pkg/clock"
)

const defaultPollInterval = 30 * time.Second

var ErrNotConnected = errors.New("wallet not connected")

// BalanceFetcher reads an account balance in lamports.
type BalanceFetcher interface {
	Balance(ctx context.Context, addr solana.PublicKey) (uint64, error)
}

// Clock abstracts time for polling.
type Clock interface {
	After(d time.Duration) <-chan time.Time
	Now() time.Time
}

// Session tracks one wallet connection. A disconnected session has no key
// and reports a zero balance.
type Session struct {
	chain        BalanceFetcher
	clock        Clock
	log          *slog.Logger
	pollInterval time.Duration

	mu      sync.RWMutex
	key     *solana.PrivateKey
	balance uint64

	// refreshing coalesces overlapping balance refreshes into one fetch.
	refreshing atomic.Bool
}

type Option func(*Session)

func WithPollInterval(d time.Duration) Option {
	return func(s *Session) { s.pollInterval = d }
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Session) { s.log = log }
}

func WithClock(c Clock) Option {
	return func(s *Session) { s.clock = c }
}

func NewSession(chain BalanceFetcher, opts ...Option) *Session {
	s := &Session{
		chain:        chain,
		clock:        clock.SystemClock{},
		log:          slog.Default(),
		pollInterval: defaultPollInterval,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Connect installs the wallet key. The previous balance is discarded; the
// caller should refresh right after connecting.
func (s *Session) Connect(key solana.PrivateKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.key = &key
	s.balance = 0
}

// Disconnect clears the key and the tracked balance.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.key = nil
	s.balance = 0
}

func (s *Session) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.key != nil
}

func (s *Session) PublicKey() solana.PublicKey {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.key == nil {
		return solana.PublicKey{}
	}

	return s.key.PublicKey()
}

// BalanceLamports returns the last fetched balance.
func (s *Session) BalanceLamports() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.balance
}

// Balance returns the last fetched balance in SOL.
func (s *Session) Balance() float64 {
	return float64(s.BalanceLamports()) / float64(solana.LAMPORTS_PER_SOL)
}

// RefreshBalance fetches the current balance from the chain. Overlapping
// calls are coalesced: while one fetch is running, others return right away
// with the previous value intact.
func (s *Session) RefreshBalance(ctx context.Context) error {
	s.mu.RLock()
	key := s.key
	s.mu.RUnlock()

	if key == nil {
		return ErrNotConnected
	}

	if !s.refreshing.CompareAndSwap(false, true) {
		return nil
	}
	defer s.refreshing.Store(false)

	balance, err := s.chain.Balance(ctx, key.PublicKey())
	if err != nil {
		return fmt.Errorf("refresh balance: %w", err)
	}

	s.mu.Lock()
	// A disconnect may have raced the fetch; keep the cleared state then.
	if s.key == key {
		s.balance = balance
	}
	s.mu.Unlock()

	return nil
}

// Poll refreshes the balance on an interval until ctx is cancelled. It
// returns a channel closed when the loop has fully stopped.
func (s *Session) Poll(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.clock.After(s.pollInterval):
				if !s.Connected() {
					continue
				}
				if err := s.RefreshBalance(ctx); err != nil && ctx.Err() == nil {
					s.log.Warn("balance refresh failed", slog.Any("error", err))
				}
			}
		}
	}()

	return done
}

// Sign signs tx with the wallet key plus any extra signers, such as a fresh
// stake account key.
func (s *Session) Sign(tx *solana.Transaction, extra ...solana.PrivateKey) error {
	s.mu.RLock()
	key := s.key
	s.mu.RUnlock()

	if key == nil {
		return ErrNotConnected
	}

	signers := append([]solana.PrivateKey{*key}, extra...)
	if _, err := tx.Sign(func(pub solana.PublicKey) *solana.PrivateKey {
		for i := range signers {
			if signers[i].PublicKey().Equals(pub) {
				return &signers[i]
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("sign transaction: %w", err)
	}

	return nil
}

// FormatAddress shortens a base58 address for display, keeping the first and
// last four characters.
func FormatAddress(addr string) string {
	if len(addr) <= 8 {
		return addr
	}

	return addr[:4] + "..." + addr[len(addr)-4:]
}
