package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Saadcui/BlockTix/internal/dto"
	"github.com/Saadcui/BlockTix/internal/repository"
	"github.com/Saadcui/BlockTix/pkg/telemetry"
)

// MetadataService serves token metadata derived from events
type MetadataService interface {
	// GetMetadata returns the ERC-721 style metadata for an event's tickets
	GetMetadata(ctx context.Context, eventID string) (*dto.TokenMetadata, error)
}

type metadataService struct {
	eventRepo repository.EventRepository
}

// NewMetadataService creates a new metadata service
func NewMetadataService(eventRepo repository.EventRepository) MetadataService {
	return &metadataService{eventRepo: eventRepo}
}

func (s *metadataService) GetMetadata(ctx context.Context, eventID string) (*dto.TokenMetadata, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.metadata.get")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", eventID))

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return dto.MetadataFromEvent(event), nil
}
