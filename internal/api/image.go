package api

import (
	"net/http"

	"github.com/DMarby/placeholder/internal/handler"
	"github.com/DMarby/placeholder/internal/image"
	"github.com/DMarby/placeholder/internal/params"
)

func (a *API) imageHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	// Validate the path parameters before anything touches the cache
	p, err := params.GetParams(r)
	if err != nil {
		return handler.BadRequest(err.Error())
	}

	task := image.NewTask(p.Width, p.Height, p.Format)

	// The ETag only depends on the size and format, so conditional requests are answered without rendering
	if handler.NotModified(w, r, task.ETag()) {
		return nil
	}

	processedImage, err := a.ImageProcessor.ProcessImage(r.Context(), task)
	if err != nil {
		a.logError(r, "error processing image", err)
		return handler.InternalServerError()
	}

	// Set the headers
	w.Header().Set("Content-Type", p.Format.ContentType())
	w.Header().Set("Cache-Control", "public, max-age=3600") // Cache for as long as the rendered image is cached

	// Return the image
	w.Write(processedImage)

	return nil
}
