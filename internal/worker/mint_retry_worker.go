package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Saadcui/BlockTix/internal/chain"
	"github.com/Saadcui/BlockTix/internal/domain"
	"github.com/Saadcui/BlockTix/internal/events"
	"github.com/Saadcui/BlockTix/internal/metrics"
	"github.com/Saadcui/BlockTix/internal/repository"
	"github.com/Saadcui/BlockTix/pkg/logger"
)

// MintRetryWorkerConfig contains configuration for the mint retry worker
type MintRetryWorkerConfig struct {
	// ScanInterval is the interval between scans for unminted tickets
	ScanInterval time.Duration
	// BatchSize is the number of tickets re-minted per scan
	BatchSize int
	// PendingStaleAfter is how long a pending mint may sit before it is
	// treated as lost and retried
	PendingStaleAfter time.Duration
	// CustodyWallet is the platform wallet tokens are minted to
	CustodyWallet string
	// CallTimeout bounds each mint attempt
	CallTimeout time.Duration
}

// DefaultMintRetryWorkerConfig returns default configuration
func DefaultMintRetryWorkerConfig() *MintRetryWorkerConfig {
	return &MintRetryWorkerConfig{
		ScanInterval:      30 * time.Second,
		BatchSize:         50,
		PendingStaleAfter: 5 * time.Minute,
		CallTimeout:       15 * time.Second,
	}
}

// MintRetryWorker re-mints tickets whose inline mint failed or got lost.
// Sales committed with mint_status=failed stay valid; this worker is what
// eventually gives them a token.
type MintRetryWorker struct {
	ticketRepo repository.TicketRepository
	gateway    chain.Gateway
	publisher  events.Publisher
	config     *MintRetryWorkerConfig
	log        *logger.Logger
	stopCh     chan struct{}
	wg         sync.WaitGroup
	mu         sync.Mutex
	running    bool
}

// NewMintRetryWorker creates a new mint retry worker
func NewMintRetryWorker(
	ticketRepo repository.TicketRepository,
	gateway chain.Gateway,
	publisher events.Publisher,
	config *MintRetryWorkerConfig,
) *MintRetryWorker {
	if config == nil {
		config = DefaultMintRetryWorkerConfig()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &MintRetryWorker{
		ticketRepo: ticketRepo,
		gateway:    gateway,
		publisher:  publisher,
		config:     config,
		log:        logger.Get(),
		stopCh:     make(chan struct{}),
	}
}

// Start starts the mint retry worker
func (w *MintRetryWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("mint retry worker already running")
	}
	w.running = true
	w.mu.Unlock()

	w.log.Info("Starting mint retry worker",
		zap.Duration("scan_interval", w.config.ScanInterval),
		zap.Int("batch_size", w.config.BatchSize),
	)

	w.wg.Add(1)
	go w.scanLoop(ctx)

	return nil
}

// Stop stops the worker and waits for the in-flight scan to finish
func (w *MintRetryWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	w.log.Info("Stopping mint retry worker")
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("Mint retry worker stopped")
}

func (w *MintRetryWorker) scanLoop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.ScanInterval)
	defer ticker.Stop()

	// Run immediately on start
	w.processBatch(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.processBatch(ctx)
		}
	}
}

// processBatch re-mints one batch of unminted tickets.
func (w *MintRetryWorker) processBatch(ctx context.Context) {
	tickets, err := w.ticketRepo.ListMintRetryable(ctx, w.config.PendingStaleAfter, w.config.BatchSize)
	if err != nil {
		w.log.Error("failed to scan for unminted tickets", zap.Error(err))
		return
	}
	if len(tickets) == 0 {
		return
	}

	w.log.Info("retrying mints", zap.Int("count", len(tickets)))

	for _, ticket := range tickets {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		default:
		}
		w.retryMint(ctx, ticket)
	}
}

func (w *MintRetryWorker) retryMint(ctx context.Context, ticket *domain.Ticket) {
	mintCtx, cancel := context.WithTimeout(ctx, w.config.CallTimeout)
	defer cancel()

	result, err := w.gateway.Mint(mintCtx, w.config.CustodyWallet, ticket.MetadataURI)
	if err != nil {
		metrics.MintRetry("error")
		w.log.Warn("mint retry failed",
			zap.String("ticket_id", ticket.ID),
			zap.Error(err),
		)
		// Failed mints stay failed; the next scan picks them up again.
		if ticket.MintStatus != domain.MintStatusFailed {
			if err := w.ticketRepo.UpdateMintResult(ctx, ticket.ID, nil, "", domain.MintStatusFailed); err != nil {
				w.log.Error("failed to record mint failure",
					zap.String("ticket_id", ticket.ID),
					zap.Error(err),
				)
			}
		}
		return
	}

	if err := w.ticketRepo.UpdateMintResult(ctx, ticket.ID, &result.TokenID, result.TxHash, domain.MintStatusMinted); err != nil {
		metrics.MintRetry("error")
		w.log.Error("failed to record mint result",
			zap.String("ticket_id", ticket.ID),
			zap.Error(err),
		)
		return
	}

	metrics.MintRetry("success")
	w.log.Info("mint retry succeeded",
		zap.String("ticket_id", ticket.ID),
		zap.Int64("token_id", result.TokenID),
		zap.String("tx_hash", result.TxHash),
	)

	ticket.TokenID = &result.TokenID
	ticket.TxHash = result.TxHash
	ticket.MintStatus = domain.MintStatusMinted
	w.publisher.Publish(ctx, events.EventTicketMinted, ticket)
}
