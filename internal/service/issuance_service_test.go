package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Saadcui/BlockTix/internal/chain"
	"github.com/Saadcui/BlockTix/internal/domain"
	"github.com/Saadcui/BlockTix/internal/dto"
	"github.com/Saadcui/BlockTix/internal/events"
	"github.com/Saadcui/BlockTix/internal/repository"
)

func newTestIssuanceService(eventRepo *MockEventRepository, ticketRepo *MockTicketRepository, gw *MockGateway, pub events.Publisher) IssuanceService {
	return NewIssuanceService(eventRepo, ticketRepo, gw, pub, &IssuanceConfig{
		CustodyWallet:   "0xcustody",
		MintTimeout:     time.Second,
		MetadataBaseURL: "https://blocktix.example",
	})
}

func TestIssueTicketSuccess(t *testing.T) {
	var created *domain.Ticket
	ticketRepo := &MockTicketRepository{
		CreateFunc: func(ctx context.Context, ticket *domain.Ticket) error {
			created = ticket
			return nil
		},
	}
	eventRepo := &MockEventRepository{
		ReserveUnitFunc: func(ctx context.Context, eventID string, now time.Time) (*repository.ReserveResult, error) {
			return &repository.ReserveResult{UnitPrice: 150, Tier: domain.TierRegular}, nil
		},
	}
	pub := &recordingPublisher{}

	svc := newTestIssuanceService(eventRepo, ticketRepo, &MockGateway{}, pub)

	resp, err := svc.IssueTicket(context.Background(), &dto.IssueTicketRequest{EventID: "event-1", UserID: "user-1"})
	if err != nil {
		t.Fatalf("IssueTicket: %v", err)
	}

	if created == nil {
		t.Fatal("ticket was not created")
	}
	if !created.Custodial {
		t.Error("new ticket should be custodial")
	}
	if created.OwnerWallet != "0xcustody" {
		t.Errorf("owner wallet = %q", created.OwnerWallet)
	}
	if created.PricePaid != 150 {
		t.Errorf("price paid = %v", created.PricePaid)
	}

	if resp.MintStatus != string(domain.MintStatusMinted) {
		t.Errorf("mint status = %q, want minted", resp.MintStatus)
	}
	if resp.TokenID == nil || *resp.TokenID != 1 {
		t.Errorf("token id = %v", resp.TokenID)
	}

	got := pub.published()
	if len(got) != 1 || got[0] != events.EventTicketIssued {
		t.Errorf("published = %v", got)
	}
}

func TestIssueTicketEarlyBirdTier(t *testing.T) {
	eventRepo := &MockEventRepository{
		ReserveUnitFunc: func(ctx context.Context, eventID string, now time.Time) (*repository.ReserveResult, error) {
			return &repository.ReserveResult{UnitPrice: 80, Tier: domain.TierEarlyBird}, nil
		},
	}

	svc := newTestIssuanceService(eventRepo, &MockTicketRepository{}, &MockGateway{}, nil)

	resp, err := svc.IssueTicket(context.Background(), &dto.IssueTicketRequest{EventID: "event-1", UserID: "user-1"})
	if err != nil {
		t.Fatalf("IssueTicket: %v", err)
	}
	if resp.PricePaid != 80 {
		t.Errorf("price paid = %v, want discount price", resp.PricePaid)
	}
	if resp.PricingTier != string(domain.TierEarlyBird) {
		t.Errorf("tier = %q", resp.PricingTier)
	}
}

func TestIssueTicketErrors(t *testing.T) {
	tests := []struct {
		name       string
		req        *dto.IssueTicketRequest
		reserveErr error
		wantErr    error
	}{
		{
			name:    "missing event id",
			req:     &dto.IssueTicketRequest{UserID: "user-1"},
			wantErr: domain.ErrInvalidEventID,
		},
		{
			name:    "missing user id",
			req:     &dto.IssueTicketRequest{EventID: "event-1"},
			wantErr: domain.ErrInvalidUserID,
		},
		{
			name:       "event not found",
			req:        &dto.IssueTicketRequest{EventID: "missing", UserID: "user-1"},
			reserveErr: domain.ErrEventNotFound,
			wantErr:    domain.ErrEventNotFound,
		},
		{
			name:       "sold out",
			req:        &dto.IssueTicketRequest{EventID: "event-1", UserID: "user-1"},
			reserveErr: domain.ErrSoldOut,
			wantErr:    domain.ErrSoldOut,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eventRepo := &MockEventRepository{
				ReserveUnitFunc: func(ctx context.Context, eventID string, now time.Time) (*repository.ReserveResult, error) {
					if tt.reserveErr != nil {
						return nil, tt.reserveErr
					}
					return &repository.ReserveResult{UnitPrice: 100, Tier: domain.TierRegular}, nil
				},
			}

			svc := newTestIssuanceService(eventRepo, &MockTicketRepository{}, &MockGateway{}, nil)

			_, err := svc.IssueTicket(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("IssueTicket error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIssueTicketMintFailureKeepsSale(t *testing.T) {
	var recordedStatus domain.MintStatus
	ticketRepo := &MockTicketRepository{
		UpdateMintResultFunc: func(ctx context.Context, id string, tokenID *int64, txHash string, status domain.MintStatus) error {
			recordedStatus = status
			return nil
		},
	}
	gw := &MockGateway{
		MintFunc: func(ctx context.Context, toAddress, metadataURI string) (*chain.MintResult, error) {
			return nil, errors.New("bridge down")
		},
	}
	pub := &recordingPublisher{}

	svc := newTestIssuanceService(&MockEventRepository{}, ticketRepo, gw, pub)

	resp, err := svc.IssueTicket(context.Background(), &dto.IssueTicketRequest{EventID: "event-1", UserID: "user-1"})
	if err != nil {
		t.Fatalf("mint failure must not fail the sale: %v", err)
	}
	if resp.MintStatus != string(domain.MintStatusFailed) {
		t.Errorf("mint status = %q, want failed", resp.MintStatus)
	}
	if recordedStatus != domain.MintStatusFailed {
		t.Errorf("recorded mint status = %q", recordedStatus)
	}

	got := pub.published()
	want := map[string]bool{events.EventTicketMintFailed: false, events.EventTicketIssued: false}
	for _, name := range got {
		want[name] = true
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("event %s not published (got %v)", name, got)
		}
	}
}

func TestIssueTicketCreateFailureReleasesCapacity(t *testing.T) {
	var released int32
	eventRepo := &MockEventRepository{
		ReleaseUnitFunc: func(ctx context.Context, eventID string, tier domain.PricingTier) error {
			atomic.AddInt32(&released, 1)
			return nil
		},
	}
	ticketRepo := &MockTicketRepository{
		CreateFunc: func(ctx context.Context, ticket *domain.Ticket) error {
			return errors.New("insert failed")
		},
	}

	svc := newTestIssuanceService(eventRepo, ticketRepo, &MockGateway{}, nil)

	_, err := svc.IssueTicket(context.Background(), &dto.IssueTicketRequest{EventID: "event-1", UserID: "user-1"})
	if err == nil {
		t.Fatal("expected error")
	}
	if atomic.LoadInt32(&released) != 1 {
		t.Error("reserved capacity was not released")
	}
}

// TestIssueTicketNeverOversells drives many concurrent purchases against a
// capacity of 10 enforced only by the reservation's compare-and-decrement,
// the same way the SQL guard enforces it.
func TestIssueTicketNeverOversells(t *testing.T) {
	var remaining int64 = 10
	eventRepo := &MockEventRepository{
		ReserveUnitFunc: func(ctx context.Context, eventID string, now time.Time) (*repository.ReserveResult, error) {
			for {
				cur := atomic.LoadInt64(&remaining)
				if cur <= 0 {
					return nil, domain.ErrSoldOut
				}
				if atomic.CompareAndSwapInt64(&remaining, cur, cur-1) {
					return &repository.ReserveResult{UnitPrice: 100, Tier: domain.TierRegular}, nil
				}
			}
		},
	}

	var createdCount int64
	ticketRepo := &MockTicketRepository{
		CreateFunc: func(ctx context.Context, ticket *domain.Ticket) error {
			atomic.AddInt64(&createdCount, 1)
			return nil
		},
	}

	svc := newTestIssuanceService(eventRepo, ticketRepo, &MockGateway{}, nil)

	const buyers = 100
	var (
		wg       sync.WaitGroup
		sold     int64
		soldOuts int64
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.IssueTicket(context.Background(), &dto.IssueTicketRequest{EventID: "event-1", UserID: "user-1"})
			switch {
			case err == nil:
				atomic.AddInt64(&sold, 1)
			case errors.Is(err, domain.ErrSoldOut):
				atomic.AddInt64(&soldOuts, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if sold != 10 {
		t.Errorf("sold = %d, want exactly 10", sold)
	}
	if soldOuts != buyers-10 {
		t.Errorf("sold-out rejections = %d, want %d", soldOuts, buyers-10)
	}
	if createdCount != 10 {
		t.Errorf("tickets created = %d, want 10", createdCount)
	}
}

func TestGetUserTicketsRequiresUserID(t *testing.T) {
	svc := newTestIssuanceService(&MockEventRepository{}, &MockTicketRepository{}, &MockGateway{}, nil)

	_, err := svc.GetUserTickets(context.Background(), "")
	if !errors.Is(err, domain.ErrInvalidUserID) {
		t.Errorf("error = %v, want ErrInvalidUserID", err)
	}
}
