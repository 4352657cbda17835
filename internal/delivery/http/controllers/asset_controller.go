package controllers

import (
	"log/slog"
	"net/http"

	"eventconsole/internal/delivery/http/helpers"
	"eventconsole/internal/domain"
)

// maxAssetSize bounds poster/seat-map uploads at 10 MiB.
const maxAssetSize = 10 << 20

type AssetController struct {
	Logger  *slog.Logger
	Service domain.AssetService
}

func NewAssetController(logger *slog.Logger, svc domain.AssetService) *AssetController {
	return &AssetController{
		Logger:  logger,
		Service: svc,
	}
}

// AssetURLResponse is the response body for asset uploads.
type AssetURLResponse struct {
	URL string `json:"url"`
}

// UploadPoster godoc
// @Summary Upload an event poster
// @Description Multipart upload under field "file". The stored URL is written back onto the event.
// @Tags assets
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param file formData file true "Poster image"
// @Success 200 {object} helpers.APIResponse "data contains the asset URL"
// @Router /events/{eventID}/poster [post]
func (c *AssetController) UploadPoster(w http.ResponseWriter, r *http.Request) {
	c.upload(w, r, domain.AssetPoster)
}

// UploadSeatMap godoc
// @Summary Upload an event seat map
// @Tags assets
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param file formData file true "Seat map file"
// @Success 200 {object} helpers.APIResponse "data contains the asset URL"
// @Router /events/{eventID}/seatmap [post]
func (c *AssetController) UploadSeatMap(w http.ResponseWriter, r *http.Request) {
	c.upload(w, r, domain.AssetSeatMap)
}

func (c *AssetController) upload(w http.ResponseWriter, r *http.Request, kind domain.AssetKind) {
	eventID := r.PathValue("eventID")
	r.Body = http.MaxBytesReader(w, r.Body, maxAssetSize)
	if err := r.ParseMultipartForm(maxAssetSize); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing file field")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	url, err := c.Service.UploadAsset(r.Context(), eventID, kind, header.Filename, contentType, file, header.Size)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, AssetURLResponse{URL: url})
}
