package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saadcui/BlockTix/internal/chain"
	"github.com/Saadcui/BlockTix/internal/domain"
)

type stubTicketRepo struct {
	retryable        []*domain.Ticket
	listErr          error
	updateMintResult func(id string, tokenID *int64, txHash string, status domain.MintStatus) error
}

func (s *stubTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error { return nil }
func (s *stubTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	return nil, domain.ErrTicketNotFound
}
func (s *stubTicketRepo) GetByUserID(ctx context.Context, userID string) ([]*domain.Ticket, error) {
	return nil, nil
}
func (s *stubTicketRepo) UpdateMintResult(ctx context.Context, id string, tokenID *int64, txHash string, status domain.MintStatus) error {
	if s.updateMintResult != nil {
		return s.updateMintResult(id, tokenID, txHash, status)
	}
	return nil
}
func (s *stubTicketRepo) MarkClaimed(ctx context.Context, id, wallet string) error { return nil }
func (s *stubTicketRepo) MarkReturnedToCustody(ctx context.Context, id, custodyWallet string) error {
	return nil
}
func (s *stubTicketRepo) ListForResale(ctx context.Context, id string, price float64) error {
	return nil
}
func (s *stubTicketRepo) BuyResale(ctx context.Context, id, buyerID string) error { return nil }
func (s *stubTicketRepo) Redeem(ctx context.Context, id, holderID string, at time.Time) error {
	return nil
}
func (s *stubTicketRepo) ListMintRetryable(ctx context.Context, staleAfter time.Duration, limit int) ([]*domain.Ticket, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := s.retryable
	s.retryable = nil
	return out, nil
}

type stubGateway struct {
	mint func(toAddress, metadataURI string) (*chain.MintResult, error)
}

func (s *stubGateway) Mint(ctx context.Context, toAddress, metadataURI string) (*chain.MintResult, error) {
	if s.mint != nil {
		return s.mint(toAddress, metadataURI)
	}
	return &chain.MintResult{TxHash: "0xretry", TokenID: 99}, nil
}
func (s *stubGateway) ClaimToWallet(ctx context.Context, tokenID int64, wallet string) (*chain.Receipt, error) {
	return nil, errors.New("not implemented")
}
func (s *stubGateway) ReturnToCustody(ctx context.Context, tokenID int64) (*chain.Receipt, error) {
	return nil, errors.New("not implemented")
}
func (s *stubGateway) Redeem(ctx context.Context, tokenID int64) (*chain.Receipt, error) {
	return nil, errors.New("not implemented")
}
func (s *stubGateway) OwnerOf(ctx context.Context, tokenID int64) (string, error) { return "", nil }
func (s *stubGateway) IsRedeemed(ctx context.Context, tokenID int64) (bool, error) {
	return false, nil
}
func (s *stubGateway) Locked(ctx context.Context, tokenID int64) (bool, error) { return true, nil }

func failedTicket(id string) *domain.Ticket {
	return &domain.Ticket{
		ID:          id,
		EventID:     "event-1",
		UserID:      "user-1",
		Status:      domain.TicketStatusValid,
		Custodial:   true,
		MintStatus:  domain.MintStatusFailed,
		MetadataURI: "https://blocktix.example/api/v1/tickets/metadata/event-1",
	}
}

func TestMintRetryWorkerMintsFailedTickets(t *testing.T) {
	var minted int32
	repo := &stubTicketRepo{
		retryable: []*domain.Ticket{failedTicket("t1"), failedTicket("t2")},
		updateMintResult: func(id string, tokenID *int64, txHash string, status domain.MintStatus) error {
			if status == domain.MintStatusMinted {
				atomic.AddInt32(&minted, 1)
			}
			return nil
		},
	}

	w := NewMintRetryWorker(repo, &stubGateway{}, nil, &MintRetryWorkerConfig{
		ScanInterval:      time.Hour, // only the startup scan runs
		BatchSize:         10,
		PendingStaleAfter: time.Minute,
		CustodyWallet:     "0xcustody",
		CallTimeout:       time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.Start(ctx))

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&minted) == 2
	}, 2*time.Second, 10*time.Millisecond, "both failed mints should be retried")

	w.Stop()
}

func TestMintRetryWorkerKeepsFailuresRetryable(t *testing.T) {
	var mintedStatus int32
	repo := &stubTicketRepo{
		retryable: []*domain.Ticket{failedTicket("t1")},
		updateMintResult: func(id string, tokenID *int64, txHash string, status domain.MintStatus) error {
			if status == domain.MintStatusMinted {
				atomic.StoreInt32(&mintedStatus, 1)
			}
			return nil
		},
	}
	gw := &stubGateway{
		mint: func(toAddress, metadataURI string) (*chain.MintResult, error) {
			return nil, errors.New("bridge down")
		},
	}

	w := NewMintRetryWorker(repo, gw, nil, &MintRetryWorkerConfig{
		ScanInterval:      time.Hour,
		BatchSize:         10,
		PendingStaleAfter: time.Minute,
		CustodyWallet:     "0xcustody",
		CallTimeout:       time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.Start(ctx))
	time.Sleep(100 * time.Millisecond)
	w.Stop()

	assert.EqualValues(t, 0, atomic.LoadInt32(&mintedStatus), "failed mint must not be recorded as minted")
}

func TestMintRetryWorkerDoubleStart(t *testing.T) {
	w := NewMintRetryWorker(&stubTicketRepo{}, &stubGateway{}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.Start(ctx))
	assert.Error(t, w.Start(ctx))
	w.Stop()
}
