package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Saadcui/BlockTix/internal/chain"
	"github.com/Saadcui/BlockTix/internal/domain"
	"github.com/Saadcui/BlockTix/internal/dto"
)

// mockIssuanceService is a mock implementation of service.IssuanceService
type mockIssuanceService struct {
	IssueTicketFunc    func(ctx context.Context, req *dto.IssueTicketRequest) (*dto.TicketResponse, error)
	GetTicketFunc      func(ctx context.Context, ticketID string) (*dto.TicketResponse, error)
	GetUserTicketsFunc func(ctx context.Context, userID string) ([]*dto.TicketResponse, error)
}

func (m *mockIssuanceService) IssueTicket(ctx context.Context, req *dto.IssueTicketRequest) (*dto.TicketResponse, error) {
	if m.IssueTicketFunc != nil {
		return m.IssueTicketFunc(ctx, req)
	}
	return &dto.TicketResponse{ID: "ticket-1", EventID: req.EventID, UserID: req.UserID}, nil
}

func (m *mockIssuanceService) GetTicket(ctx context.Context, ticketID string) (*dto.TicketResponse, error) {
	if m.GetTicketFunc != nil {
		return m.GetTicketFunc(ctx, ticketID)
	}
	return &dto.TicketResponse{ID: ticketID}, nil
}

func (m *mockIssuanceService) GetUserTickets(ctx context.Context, userID string) ([]*dto.TicketResponse, error) {
	if m.GetUserTicketsFunc != nil {
		return m.GetUserTicketsFunc(ctx, userID)
	}
	return []*dto.TicketResponse{}, nil
}

// mockCustodyService is a mock implementation of service.CustodyService
type mockCustodyService struct {
	ClaimFunc           func(ctx context.Context, ticketID, wallet string) (*dto.ClaimResponse, error)
	ReturnToCustodyFunc func(ctx context.Context, ticketID string) (*dto.TicketResponse, error)
}

func (m *mockCustodyService) Claim(ctx context.Context, ticketID, wallet string) (*dto.ClaimResponse, error) {
	if m.ClaimFunc != nil {
		return m.ClaimFunc(ctx, ticketID, wallet)
	}
	return &dto.ClaimResponse{TicketID: ticketID, OwnerWallet: wallet}, nil
}

func (m *mockCustodyService) ReturnToCustody(ctx context.Context, ticketID string) (*dto.TicketResponse, error) {
	if m.ReturnToCustodyFunc != nil {
		return m.ReturnToCustodyFunc(ctx, ticketID)
	}
	return &dto.TicketResponse{ID: ticketID, Custodial: true}, nil
}

// mockResaleService is a mock implementation of service.ResaleService
type mockResaleService struct {
	ListFunc func(ctx context.Context, ticketID string, price float64) (*dto.TicketResponse, error)
	BuyFunc  func(ctx context.Context, ticketID, buyerID string) (*dto.TicketResponse, error)
}

func (m *mockResaleService) List(ctx context.Context, ticketID string, price float64) (*dto.TicketResponse, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ticketID, price)
	}
	return &dto.TicketResponse{ID: ticketID, IsForResale: true, ResalePrice: &price}, nil
}

func (m *mockResaleService) Buy(ctx context.Context, ticketID, buyerID string) (*dto.TicketResponse, error) {
	if m.BuyFunc != nil {
		return m.BuyFunc(ctx, ticketID, buyerID)
	}
	return &dto.TicketResponse{ID: ticketID, UserID: buyerID}, nil
}

// mockEntryProofService is a mock implementation of service.EntryProofService
type mockEntryProofService struct {
	IssueProofFunc      func(ctx context.Context, ticketID string) (*dto.QRResponse, error)
	VerifyAndRedeemFunc func(ctx context.Context, proofToken string) (*dto.VerifyResponse, error)
}

func (m *mockEntryProofService) IssueProof(ctx context.Context, ticketID string) (*dto.QRResponse, error) {
	if m.IssueProofFunc != nil {
		return m.IssueProofFunc(ctx, ticketID)
	}
	return &dto.QRResponse{ProofToken: "proof", ExpiresIn: 60, RefreshAfter: 45}, nil
}

func (m *mockEntryProofService) VerifyAndRedeem(ctx context.Context, proofToken string) (*dto.VerifyResponse, error) {
	if m.VerifyAndRedeemFunc != nil {
		return m.VerifyAndRedeemFunc(ctx, proofToken)
	}
	return &dto.VerifyResponse{TicketID: "ticket-1"}, nil
}

type handlerMocks struct {
	issuance   *mockIssuanceService
	custody    *mockCustodyService
	resale     *mockResaleService
	entryProof *mockEntryProofService
}

func newTestRouter(m *handlerMocks) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	th := NewTicketHandler(m.issuance, m.custody, m.resale, m.entryProof)
	vh := NewVerifyHandler(m.entryProof)

	v1 := router.Group("/api/v1")
	v1.POST("/tickets", th.Issue)
	v1.GET("/tickets", th.ListByUser)
	v1.GET("/tickets/:ticketId", th.Get)
	v1.POST("/tickets/:ticketId/claim", th.Claim)
	v1.POST("/tickets/:ticketId/resale", th.Resale)
	v1.GET("/tickets/:ticketId/qr", th.QR)
	v1.POST("/verify", vh.Verify)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func defaultMocks() *handlerMocks {
	return &handlerMocks{
		issuance:   &mockIssuanceService{},
		custody:    &mockCustodyService{},
		resale:     &mockResaleService{},
		entryProof: &mockEntryProofService{},
	}
}

func TestIssueStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		serviceErr error
		wantStatus int
	}{
		{
			name:       "created",
			body:       gin.H{"eventId": "event-1", "userId": "user-1"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing fields",
			body:       gin.H{"eventId": "event-1"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "sold out is 400",
			body:       gin.H{"eventId": "event-1", "userId": "user-1"},
			serviceErr: domain.ErrSoldOut,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "event not found",
			body:       gin.H{"eventId": "missing", "userId": "user-1"},
			serviceErr: domain.ErrEventNotFound,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := defaultMocks()
			if tt.serviceErr != nil {
				m.issuance.IssueTicketFunc = func(ctx context.Context, req *dto.IssueTicketRequest) (*dto.TicketResponse, error) {
					return nil, tt.serviceErr
				}
			}
			router := newTestRouter(m)

			w := doJSON(t, router, http.MethodPost, "/api/v1/tickets", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestClaimStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"success", nil, http.StatusOK},
		{"already claimed is 400", domain.ErrAlreadyClaimed, http.StatusBadRequest},
		{"not minted is 400", domain.ErrNotMinted, http.StatusBadRequest},
		{"not found", domain.ErrTicketNotFound, http.StatusNotFound},
		{
			"chain failure is 500",
			&chain.Error{Op: "claim", Err: context.DeadlineExceeded},
			http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := defaultMocks()
			if tt.serviceErr != nil {
				m.custody.ClaimFunc = func(ctx context.Context, ticketID, wallet string) (*dto.ClaimResponse, error) {
					return nil, tt.serviceErr
				}
			}
			router := newTestRouter(m)

			w := doJSON(t, router, http.MethodPost, "/api/v1/tickets/ticket-1/claim", gin.H{"userWallet": "0xholder"})
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestClaimRequiresWallet(t *testing.T) {
	router := newTestRouter(defaultMocks())

	w := doJSON(t, router, http.MethodPost, "/api/v1/tickets/ticket-1/claim", gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestResaleActionDispatch(t *testing.T) {
	price := 120.0

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{"list", gin.H{"action": "list", "price": price}, http.StatusOK},
		{"buy", gin.H{"action": "buy", "buyerId": "buyer-1"}, http.StatusOK},
		{"list without price", gin.H{"action": "list"}, http.StatusBadRequest},
		{"unknown action", gin.H{"action": "transfer"}, http.StatusBadRequest},
		{"missing action", gin.H{}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(defaultMocks())

			w := doJSON(t, router, http.MethodPost, "/api/v1/tickets/ticket-1/resale", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestVerifyStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"admitted", nil, http.StatusOK},
		{"invalid proof is 400", domain.ErrInvalidProof, http.StatusBadRequest},
		{"already redeemed is 400", domain.ErrAlreadyRedeemed, http.StatusBadRequest},
		{"owner mismatch is 403", domain.ErrOwnerMismatch, http.StatusForbidden},
		{"unknown ticket is 404", domain.ErrTicketNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := defaultMocks()
			if tt.serviceErr != nil {
				m.entryProof.VerifyAndRedeemFunc = func(ctx context.Context, proofToken string) (*dto.VerifyResponse, error) {
					return nil, tt.serviceErr
				}
			}
			router := newTestRouter(m)

			w := doJSON(t, router, http.MethodPost, "/api/v1/verify", gin.H{"proofToken": "proof"})
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestQRReturnsFreshProof(t *testing.T) {
	router := newTestRouter(defaultMocks())

	w := doJSON(t, router, http.MethodGet, "/api/v1/tickets/ticket-1/qr", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", w.Code, w.Body.String())
	}

	var resp struct {
		Data dto.QRResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.ProofToken == "" {
		t.Error("empty proof token")
	}
	if resp.Data.RefreshAfter >= resp.Data.ExpiresIn {
		t.Errorf("refreshAfter %d not below expiresIn %d", resp.Data.RefreshAfter, resp.Data.ExpiresIn)
	}
}

func TestListByUserRequiresUserID(t *testing.T) {
	router := newTestRouter(defaultMocks())

	w := doJSON(t, router, http.MethodGet, "/api/v1/tickets", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/tickets?userId=user-1", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
