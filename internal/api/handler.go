// Package api exposes the statement processing pipelines over HTTP. The
// dashboard uploads statement files as multipart form data and renders the
// JSON result.
package api

import (
	"errors"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/batch"
	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/registry"
)

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Shops   registry.Provider
	Log     zerolog.Logger
	Version string
}

// errorResponse is the JSON error envelope; the message is shown to the end
// user verbatim as a toast.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Register wires the routes onto the fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/api/health", h.handleHealth)
	app.Post("/api/import/iberia", h.handleImportIberia)
	app.Post("/api/import/ing", h.handleImportING)
}

func (h *Handler) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": h.Version,
	})
}

func (h *Handler) handleImportIberia(c *fiber.Ctx) error {
	files, err := formFiles(c)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}

	o := batch.New(h.Shops, h.Log)
	res, err := o.ProcessIberia(c.UserContext(), files)
	if err != nil {
		return writeError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	return c.JSON(fiber.Map{
		"success": true,
		"result":  res,
		"count":   len(res.Transactions),
		"version": h.Version,
	})
}

func (h *Handler) handleImportING(c *fiber.Ctx) error {
	files, err := formFiles(c)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}

	o := batch.New(h.Shops, h.Log)
	res, err := o.ProcessING(c.UserContext(), files)
	if err != nil {
		return writeError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	return c.JSON(fiber.Map{
		"success": true,
		"result":  res,
		"count":   len(res.Transactions),
		"version": h.Version,
	})
}

// formFiles reads every uploaded file under the "files" form field fully
// into memory; parsing is single-pass over the whole buffer.
func formFiles(c *fiber.Ctx) ([]batch.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, errors.New("no files uploaded; use form field 'files'")
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		return nil, errors.New("no files uploaded; use form field 'files'")
	}

	files := make([]batch.File, 0, len(headers))
	for _, fh := range headers {
		data, err := readFileHeader(fh)
		if err != nil {
			return nil, err
		}
		files = append(files, batch.File{Name: fh.Filename, Data: data})
	}
	return files, nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(errorResponse{Success: false, Error: msg})
}
