package service

import (
	"context"
	"sync"
	"time"

	"github.com/Saadcui/BlockTix/internal/chain"
	"github.com/Saadcui/BlockTix/internal/domain"
	"github.com/Saadcui/BlockTix/internal/repository"
)

// MockEventRepository is a mock implementation of repository.EventRepository
type MockEventRepository struct {
	CreateFunc      func(ctx context.Context, event *domain.Event) error
	GetByIDFunc     func(ctx context.Context, id string) (*domain.Event, error)
	ListFunc        func(ctx context.Context, limit, offset int) ([]*domain.Event, error)
	ReserveUnitFunc func(ctx context.Context, eventID string, now time.Time) (*repository.ReserveResult, error)
	ReleaseUnitFunc func(ctx context.Context, eventID string, tier domain.PricingTier) error
}

func (m *MockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, event)
	}
	return nil
}

func (m *MockEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrEventNotFound
}

func (m *MockEventRepository) List(ctx context.Context, limit, offset int) ([]*domain.Event, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (m *MockEventRepository) ReserveUnit(ctx context.Context, eventID string, now time.Time) (*repository.ReserveResult, error) {
	if m.ReserveUnitFunc != nil {
		return m.ReserveUnitFunc(ctx, eventID, now)
	}
	return &repository.ReserveResult{UnitPrice: 100, Tier: domain.TierRegular}, nil
}

func (m *MockEventRepository) ReleaseUnit(ctx context.Context, eventID string, tier domain.PricingTier) error {
	if m.ReleaseUnitFunc != nil {
		return m.ReleaseUnitFunc(ctx, eventID, tier)
	}
	return nil
}

// MockTicketRepository is a mock implementation of repository.TicketRepository
type MockTicketRepository struct {
	CreateFunc                func(ctx context.Context, ticket *domain.Ticket) error
	GetByIDFunc               func(ctx context.Context, id string) (*domain.Ticket, error)
	GetByUserIDFunc           func(ctx context.Context, userID string) ([]*domain.Ticket, error)
	UpdateMintResultFunc      func(ctx context.Context, id string, tokenID *int64, txHash string, status domain.MintStatus) error
	MarkClaimedFunc           func(ctx context.Context, id, wallet string) error
	MarkReturnedToCustodyFunc func(ctx context.Context, id, custodyWallet string) error
	ListForResaleFunc         func(ctx context.Context, id string, price float64) error
	BuyResaleFunc             func(ctx context.Context, id, buyerID string) error
	RedeemFunc                func(ctx context.Context, id, holderID string, at time.Time) error
	ListMintRetryableFunc     func(ctx context.Context, staleAfter time.Duration, limit int) ([]*domain.Ticket, error)
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ticket)
	}
	return nil
}

func (m *MockTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrTicketNotFound
}

func (m *MockTicketRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.Ticket, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	return []*domain.Ticket{}, nil
}

func (m *MockTicketRepository) UpdateMintResult(ctx context.Context, id string, tokenID *int64, txHash string, status domain.MintStatus) error {
	if m.UpdateMintResultFunc != nil {
		return m.UpdateMintResultFunc(ctx, id, tokenID, txHash, status)
	}
	return nil
}

func (m *MockTicketRepository) MarkClaimed(ctx context.Context, id, wallet string) error {
	if m.MarkClaimedFunc != nil {
		return m.MarkClaimedFunc(ctx, id, wallet)
	}
	return nil
}

func (m *MockTicketRepository) MarkReturnedToCustody(ctx context.Context, id, custodyWallet string) error {
	if m.MarkReturnedToCustodyFunc != nil {
		return m.MarkReturnedToCustodyFunc(ctx, id, custodyWallet)
	}
	return nil
}

func (m *MockTicketRepository) ListForResale(ctx context.Context, id string, price float64) error {
	if m.ListForResaleFunc != nil {
		return m.ListForResaleFunc(ctx, id, price)
	}
	return nil
}

func (m *MockTicketRepository) BuyResale(ctx context.Context, id, buyerID string) error {
	if m.BuyResaleFunc != nil {
		return m.BuyResaleFunc(ctx, id, buyerID)
	}
	return nil
}

func (m *MockTicketRepository) Redeem(ctx context.Context, id, holderID string, at time.Time) error {
	if m.RedeemFunc != nil {
		return m.RedeemFunc(ctx, id, holderID, at)
	}
	return nil
}

func (m *MockTicketRepository) ListMintRetryable(ctx context.Context, staleAfter time.Duration, limit int) ([]*domain.Ticket, error) {
	if m.ListMintRetryableFunc != nil {
		return m.ListMintRetryableFunc(ctx, staleAfter, limit)
	}
	return nil, nil
}

// MockGateway is a mock implementation of chain.Gateway
type MockGateway struct {
	MintFunc            func(ctx context.Context, toAddress, metadataURI string) (*chain.MintResult, error)
	ClaimToWalletFunc   func(ctx context.Context, tokenID int64, wallet string) (*chain.Receipt, error)
	ReturnToCustodyFunc func(ctx context.Context, tokenID int64) (*chain.Receipt, error)
	RedeemFunc          func(ctx context.Context, tokenID int64) (*chain.Receipt, error)
	OwnerOfFunc         func(ctx context.Context, tokenID int64) (string, error)
	IsRedeemedFunc      func(ctx context.Context, tokenID int64) (bool, error)
	LockedFunc          func(ctx context.Context, tokenID int64) (bool, error)
}

func (m *MockGateway) Mint(ctx context.Context, toAddress, metadataURI string) (*chain.MintResult, error) {
	if m.MintFunc != nil {
		return m.MintFunc(ctx, toAddress, metadataURI)
	}
	return &chain.MintResult{TxHash: "0xmint", TokenID: 1}, nil
}

func (m *MockGateway) ClaimToWallet(ctx context.Context, tokenID int64, wallet string) (*chain.Receipt, error) {
	if m.ClaimToWalletFunc != nil {
		return m.ClaimToWalletFunc(ctx, tokenID, wallet)
	}
	return &chain.Receipt{TxHash: "0xclaim", Status: "success"}, nil
}

func (m *MockGateway) ReturnToCustody(ctx context.Context, tokenID int64) (*chain.Receipt, error) {
	if m.ReturnToCustodyFunc != nil {
		return m.ReturnToCustodyFunc(ctx, tokenID)
	}
	return &chain.Receipt{TxHash: "0xreturn", Status: "success"}, nil
}

func (m *MockGateway) Redeem(ctx context.Context, tokenID int64) (*chain.Receipt, error) {
	if m.RedeemFunc != nil {
		return m.RedeemFunc(ctx, tokenID)
	}
	return &chain.Receipt{TxHash: "0xredeem", Status: "success"}, nil
}

func (m *MockGateway) OwnerOf(ctx context.Context, tokenID int64) (string, error) {
	if m.OwnerOfFunc != nil {
		return m.OwnerOfFunc(ctx, tokenID)
	}
	return "", nil
}

func (m *MockGateway) IsRedeemed(ctx context.Context, tokenID int64) (bool, error) {
	if m.IsRedeemedFunc != nil {
		return m.IsRedeemedFunc(ctx, tokenID)
	}
	return false, nil
}

func (m *MockGateway) Locked(ctx context.Context, tokenID int64) (bool, error) {
	if m.LockedFunc != nil {
		return m.LockedFunc(ctx, tokenID)
	}
	return true, nil
}

// recordingPublisher captures published lifecycle events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(ctx context.Context, eventType string, ticket *domain.Ticket) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
}

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}
