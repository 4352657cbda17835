package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"eventconsole/internal/domain"
)

type assetService struct {
	eventRepo      domain.EventRepository
	store          domain.ObjectStore
	contextTimeout time.Duration
}

func NewAssetService(eventRepo domain.EventRepository, store domain.ObjectStore, timeout time.Duration) domain.AssetService {
	return &assetService{
		eventRepo:      eventRepo,
		store:          store,
		contextTimeout: timeout,
	}
}

// UploadAsset stores the file under a stable per-event key and writes the
// resulting URL back onto the event row. Re-uploading overwrites the
// previous object at the same key.
func (s *assetService) UploadAsset(ctx context.Context, eventID string, kind domain.AssetKind, filename, contentType string, body io.Reader, size int64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var column string
	switch kind {
	case domain.AssetPoster:
		column = "poster_url"
	case domain.AssetSeatMap:
		column = "seat_map_url"
	default:
		return "", domain.ErrInvalidInput
	}

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("get event: %w", err)
	}

	key := fmt.Sprintf("events/%s/%s%s", eventID, kind, path.Ext(filename))
	url, err := s.store.Put(ctx, key, contentType, body, size)
	if err != nil {
		return "", fmt.Errorf("store asset: %w", err)
	}
	if err := s.eventRepo.SetAssetURL(ctx, eventID, column, url); err != nil {
		return "", fmt.Errorf("save asset url: %w", err)
	}
	return url, nil
}
