package handler

import (
	"encoding/json"
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/rajpatel923/Study-Solution-sub001/internal/http/middleware"
	"github.com/rajpatel923/Study-Solution-sub001/internal/model"
	"github.com/rajpatel923/Study-Solution-sub001/internal/service"
)

// updateDocumentRequest is the partial update body. Only the two fields
// below are mutable; anything else a client sends is silently ignored, so
// identifiers, ownership and timestamps can never be overwritten.
type updateDocumentRequest struct {
	OriginalFileName *string         `json:"originalFileName"`
	Metadata         json.RawMessage `json:"metadata"`
}

// ListDocuments returns the caller's documents in insertion order.
//
// @Summary List documents
// @Produce json
// @Success 200 {array} model.Document
// @Router /documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner := middleware.IdentityFromCtx(c)

		docs, err := svc.List(c.UserContext(), owner)
		if err != nil {
			logInternalError(c, "list documents failed", err)
			return writeError(c, fiber.StatusInternalServerError, msgInternalError)
		}
		return c.JSON(docs)
	}
}

// UploadDocument creates a document from a multipart upload (field name:
// file, optional field: metadata holding JSON text).
//
// @Summary Upload a document
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} model.Document
// @Failure 400 {object} errorPayload
// @Router /documents [post]
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner := middleware.IdentityFromCtx(c)

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, msgNoFile)
		}

		// The file part exists at this point; failing to open it is an I/O
		// problem, not a client mistake.
		f, err := fh.Open()
		if err != nil {
			logInternalError(c, "open uploaded file failed", err)
			return writeError(c, fiber.StatusInternalServerError, msgInternalError)
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		// Unparsable metadata never fails an upload; the value collapses to
		// absent and the request proceeds.
		rawMeta := c.FormValue("metadata")
		meta := model.ParseMetadataString(rawMeta)
		if rawMeta != "" && !meta.Present() {
			log.Printf("ignoring unparsable metadata on upload of %q", fh.Filename)
		}

		doc, err := svc.Upload(c.UserContext(), owner, service.UploadInput{
			Reader:           f,
			OriginalFileName: fh.Filename,
			ContentType:      ct,
			Size:             fh.Size,
			Metadata:         meta,
		})
		if err != nil {
			logInternalError(c, "upload document failed", err)
			return writeError(c, fiber.StatusInternalServerError, msgInternalError)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// GetDocument returns a single document and bumps its lastAccessDateTime.
//
// @Summary Get a document by ID
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} model.Document
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner := middleware.IdentityFromCtx(c)

		id, err := parseDocumentID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, msgInvalidID)
		}

		doc, err := svc.Get(c.UserContext(), owner, id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, msgNotFound)
			}
			logInternalError(c, "get document failed", err)
			return writeError(c, fiber.StatusInternalServerError, msgInternalError)
		}
		return c.JSON(doc)
	}
}

// UpdateDocument applies an allow-listed partial update.
//
// @Summary Update a document
// @Accept json
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} model.Document
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /documents/{id} [patch]
func UpdateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner := middleware.IdentityFromCtx(c)

		id, err := parseDocumentID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, msgInvalidID)
		}

		var req updateDocumentRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return writeError(c, fiber.StatusBadRequest, msgInvalidBody)
		}

		meta := model.ParseMetadata(req.Metadata)
		if len(req.Metadata) > 0 && !meta.Present() {
			log.Printf("ignoring unparsable metadata on update of document %d", id)
		}

		doc, err := svc.Update(c.UserContext(), owner, id, service.UpdateInput{
			OriginalFileName: req.OriginalFileName,
			Metadata:         meta,
		})
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, msgNotFound)
			}
			logInternalError(c, "update document failed", err)
			return writeError(c, fiber.StatusInternalServerError, msgInternalError)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument removes a document permanently.
//
// @Summary Delete a document
// @Param id path int true "Document ID"
// @Success 204
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /documents/{id} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner := middleware.IdentityFromCtx(c)

		id, err := parseDocumentID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, msgInvalidID)
		}

		if err := svc.Delete(c.UserContext(), owner, id); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, msgNotFound)
			}
			logInternalError(c, "delete document failed", err)
			return writeError(c, fiber.StatusInternalServerError, msgInternalError)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func parseDocumentID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}
