package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/epichardware/storefront/internal/api/middleware"
	appErrors "github.com/epichardware/storefront/internal/errors"
	"github.com/epichardware/storefront/internal/utils/response"
	"github.com/epichardware/storefront/pkg/imgbb"
)

// 10 MB, matches the hosting provider's free-tier limit.
const maxImageBytes = 10 << 20

type UploadHandler struct {
	imgClient imgbb.Client
}

func NewUploadHandler(imgClient imgbb.Client) *UploadHandler {
	return &UploadHandler{imgClient: imgClient}
}

// UploadImage accepts a multipart form with an "image" file and returns
// the hosted URL for use in product and category documents.
func (h *UploadHandler) UploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxImageBytes); err != nil {
			response.Error(w, appErrors.BadRequestError("Invalid multipart form"))

			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			response.Error(w, appErrors.BadRequestError("Image file is required"))

			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
		if err != nil {
			response.Error(w, appErrors.BadRequestError("Failed to read image"))

			return
		}

		if len(data) > maxImageBytes {
			response.Error(w, appErrors.BadRequestError("Image exceeds the 10MB limit"))

			return
		}

		result, err := h.imgClient.Upload(r.Context(), data, header.Filename)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Image upload failed",
				slog.String("error", err.Error()),
			)
			response.Error(w, appErrors.InternalError("Image upload failed").WithError(err))

			return
		}

		response.Success(w, http.StatusCreated, map[string]string{
			"url":      result.URL,
			"thumbUrl": result.ThumbURL,
		})
	}
}
