package handler

import (
	"encoding/json"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"complyhub/internal/apperr"
	"complyhub/internal/model"
	"complyhub/internal/service"
)

// multipart field names
const (
	formFile     = "file"
	formMetadata = "metadata"
)

// CreateDocument registers a document. It accepts a JSON body, or multipart/form-data
// with the JSON fields in "metadata" and an optional "file".
//
//	@Summary	Create a document
//	@Tags		documents
//	@Accept		json,mpfd
//	@Produce	json
//	@Param		body	body		service.CreateDocumentInput	false	"document fields"
//	@Success	201		{object}	model.Document
//	@Failure	400		{object}	errorPayload
//	@Failure	409		{object}	errorPayload
//	@Router		/api/v1/documents [post]
func CreateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CreateDocumentInput
		var file *service.FileInput

		if isMultipart(c) {
			if raw := c.FormValue(formMetadata); raw != "" {
				if err := json.Unmarshal([]byte(raw), &in); err != nil {
					return invalidBody(c)
				}
			}
			if fh, err := c.FormFile(formFile); err == nil {
				f, err := fh.Open()
				if err != nil {
					return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
				}
				defer f.Close()
				file = fileInput(fh, f)
			}
		} else if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}

		doc, err := svc.Create(c.UserContext(), caller(c), in, file)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}

func fileInput(fh *multipart.FileHeader, f multipart.File) *service.FileInput {
	return &service.FileInput{
		Reader:      f,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
	}
}

func listQuery(c *fiber.Ctx) (service.ListQuery, error) {
	var q service.ListQuery
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return q, apperr.Validation("limit", "must be a number")
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return q, apperr.Validation("offset", "must be a number")
	}
	q.Limit, q.Offset = limit, offset
	for _, s := range queryList(c, "status") {
		q.Statuses = append(q.Statuses, model.Status(s))
	}
	q.TypeCodes = queryList(c, "type")
	if folder := strings.TrimSpace(c.Query("folder_id")); folder != "" {
		q.FolderID = &folder
	}
	return q, nil
}

// ListDocuments pages through the tenant's documents.
//
//	@Summary	List documents
//	@Tags		documents
//	@Produce	json
//	@Param		limit		query		int		false	"page size (max 100)"
//	@Param		offset		query		int		false	"offset"
//	@Param		status		query		string	false	"comma separated statuses"
//	@Param		type		query		string	false	"comma separated type codes"
//	@Param		folder_id	query		string	false	"folder"
//	@Success	200			{object}	service.DocumentListResult
//	@Failure	400			{object}	errorPayload
//	@Failure	429			{object}	errorPayload
//	@Router		/api/v1/documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := listQuery(c)
		if err != nil {
			return err
		}
		res, err := svc.List(c.UserContext(), caller(c), q)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

// SearchDocuments runs a full-text search over titles and extracted text.
//
//	@Summary	Search documents
//	@Tags		documents
//	@Produce	json
//	@Param		q	query		string	true	"search terms"
//	@Success	200	{object}	service.DocumentListResult
//	@Failure	400	{object}	errorPayload
//	@Router		/api/v1/documents/search [get]
func SearchDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := listQuery(c)
		if err != nil {
			return err
		}
		res, err := svc.Search(c.UserContext(), caller(c), c.Query("q"), q)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

// ListDueForReview returns current documents whose review falls within the next days.
//
//	@Summary	Documents due for review
//	@Tags		documents
//	@Produce	json
//	@Param		days	query	int	false	"look-ahead in days (default 30)"
//	@Success	200		{array}	model.Document
//	@Router		/api/v1/documents/due-for-review [get]
func ListDueForReview(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		days, err := queryInt(c, "days", 0)
		if err != nil {
			return apperr.Validation("days", "must be a number")
		}
		docs, err := svc.ListDueForReview(c.UserContext(), caller(c), days)
		if err != nil {
			return err
		}
		return c.JSON(docs)
	}
}

// GetDocument returns one document and records the view.
//
//	@Summary	Get a document
//	@Tags		documents
//	@Produce	json
//	@Param		id	path		string	true	"document id"
//	@Success	200	{object}	model.Document
//	@Failure	404	{object}	errorPayload
//	@Router		/api/v1/documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := uuidParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		doc, err := svc.Get(c.UserContext(), caller(c), id)
		if err != nil {
			return err
		}
		return c.JSON(doc)
	}
}

type statusRequest struct {
	Status model.Status `json:"status"`
}

// SetDocumentStatus moves a document along its lifecycle.
//
//	@Summary	Change document status
//	@Tags		documents
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"document id"
//	@Param		body	body		statusRequest	true	"target status"
//	@Success	200		{object}	model.Document
//	@Failure	422		{object}	errorPayload
//	@Router		/api/v1/documents/{id}/status [patch]
func SetDocumentStatus(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := uuidParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		var req statusRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		doc, err := svc.SetStatus(c.UserContext(), caller(c), id, req.Status)
		if err != nil {
			return err
		}
		return c.JSON(doc)
	}
}

// FindRelated returns the references and supersede chain of a document.
//
//	@Summary	Related documents
//	@Tags		documents
//	@Produce	json
//	@Param		id	path		string	true	"document id"
//	@Success	200	{object}	model.RelatedDocuments
//	@Router		/api/v1/documents/{id}/related [get]
func FindRelated(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := uuidParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		rel, err := svc.FindRelated(c.UserContext(), caller(c), id)
		if err != nil {
			return err
		}
		return c.JSON(rel)
	}
}

type supersedeRequest struct {
	OldControlNumber string `json:"old_control_number"`
	NewControlNumber string `json:"new_control_number"`
}

// SupersedeDocument marks the old document obsolete and links it to its replacement.
//
//	@Summary	Supersede a document
//	@Tags		documents
//	@Accept		json
//	@Produce	json
//	@Param		body	body		supersedeRequest	true	"control numbers"
//	@Success	200		{object}	service.SupersedeResult
//	@Router		/api/v1/documents/supersede [post]
func SupersedeDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req supersedeRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		res, err := svc.Supersede(c.UserContext(), caller(c), req.OldControlNumber, req.NewControlNumber)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

// AddVersion uploads a new file version (multipart field "file").
//
//	@Summary	Upload a new version
//	@Tags		versions
//	@Accept		mpfd
//	@Produce	json
//	@Param		id		path		string	true	"document id"
//	@Param		file	formData	file	true	"file"
//	@Success	201		{object}	model.DocumentVersion
//	@Router		/api/v1/documents/{id}/versions [post]
func AddVersion(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := uuidParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		fh, err := c.FormFile(formFile)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		v, err := svc.AddVersion(c.UserContext(), caller(c), id, *fileInput(fh, f))
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(v)
	}
}

// ListVersions lists all versions of a document, newest first.
//
//	@Summary	List versions
//	@Tags		versions
//	@Produce	json
//	@Param		id	path	string	true	"document id"
//	@Success	200	{array}	model.DocumentVersion
//	@Router		/api/v1/documents/{id}/versions [get]
func ListVersions(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := uuidParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		versions, err := svc.ListVersions(c.UserContext(), caller(c), id)
		if err != nil {
			return err
		}
		return c.JSON(versions)
	}
}

// DownloadVersion returns a short-lived URL for a version's file.
//
//	@Summary	Download a version
//	@Tags		versions
//	@Produce	json
//	@Param		id		path		string	true	"document id"
//	@Param		number	path		int		true	"version number"
//	@Success	200		{object}	map[string]string
//	@Router		/api/v1/documents/{id}/versions/{number}/download [get]
func DownloadVersion(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := uuidParam(c, "id")
		if !ok {
			return invalidID(c)
		}
		number, ok := intParam(c, "number")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_VERSION", "invalid version number")
		}
		url, err := svc.DownloadURL(c.UserContext(), caller(c), id, number)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"url": url})
	}
}
