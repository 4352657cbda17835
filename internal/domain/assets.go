package domain

import (
	"context"
	"io"
)

// AssetKind names the event assets the console manages.
type AssetKind string

const (
	AssetPoster  AssetKind = "poster"
	AssetSeatMap AssetKind = "seatmap"
)

// ObjectStore uploads event assets and returns the public URL stored back
// on the event row.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (url string, err error)
}

// AssetService uploads posters and seat maps for an event.
type AssetService interface {
	UploadAsset(ctx context.Context, eventID string, kind AssetKind, filename, contentType string, body io.Reader, size int64) (url string, err error)
}
