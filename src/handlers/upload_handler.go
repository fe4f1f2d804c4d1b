// src/handlers/upload_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/username/tradeperf/src/logger"
	"github.com/username/tradeperf/src/parsers"
	"github.com/username/tradeperf/src/renderer"
	"github.com/username/tradeperf/src/security/validation"
	"github.com/username/tradeperf/src/services"
	"github.com/username/tradeperf/src/utils"
)

const (
	msgNoFilePart      = "No file part"
	msgNoSelectedFile  = "No selected file"
	msgInvalidFormat   = "Invalid file format. Please upload a CSV file."
	msgMissingColumns  = "Error: Required columns not found in the file."
	msgParseError      = "There was an error parsing the CSV file. Please check the format and try again."
	msgProcessingError = "The file could not be processed."
	msgReportNotFound  = "Report not found."

	// multipartOverhead leaves room for boundaries and form fields around the file.
	multipartOverhead = 1 << 20
)

// UploadHandlerOptions carries the upload limits taken from configuration.
type UploadHandlerOptions struct {
	MaxUploadSizeBytes int64
	AllowedExtensions  []string
}

type UploadHandler struct {
	uploadService services.UploadService
	opts          UploadHandlerOptions
}

func NewUploadHandler(service services.UploadService, opts UploadHandlerOptions) *UploadHandler {
	if len(opts.AllowedExtensions) == 0 {
		opts.AllowedExtensions = []string{"csv"}
	}
	return &UploadHandler{
		uploadService: service,
		opts:          opts,
	}
}

// uploadError is a client-facing failure of an upload request.
type uploadError struct {
	status  int
	message string
	err     error
}

func (e *uploadError) Error() string { return e.message }

// HandleIndex serves the upload form.
func (h *UploadHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := renderer.IndexPage{
		Accept:  "." + strings.Join(h.opts.AllowedExtensions, ",."),
		MaxSize: humanize.IBytes(uint64(h.opts.MaxUploadSizeBytes)),
	}
	if err := renderer.RenderIndexPage(w, page); err != nil {
		logger.FromContext(r.Context()).Error("Failed to render index page", "error", err)
	}
}

// HandleUploadPage accepts a form upload and answers with an HTML report.
// Failures are answered as plain text.
func (h *UploadHandler) HandleUploadPage(w http.ResponseWriter, r *http.Request) {
	result, uerr := h.receiveUpload(w, r)
	if uerr != nil {
		http.Error(w, uerr.message, uerr.status)
		return
	}
	h.writeReportPage(w, r, result)
}

// HandleUpload accepts an upload and answers with the JSON UploadResult.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	result, uerr := h.receiveUpload(w, r)
	if uerr != nil {
		utils.SendJSONError(w, uerr.message, uerr.status)
		return
	}
	utils.SendJSON(w, result, http.StatusOK)
}

// HandleGetReport returns a cached result as JSON with ETag support.
func (h *UploadHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	result, uerr := h.lookupReport(chi.URLParam(r, "id"))
	if uerr != nil {
		utils.SendJSONError(w, uerr.message, uerr.status)
		return
	}

	w.Header().Set("Cache-Control", "no-cache, private")
	currentETag, etagErr := utils.GenerateETag(result)
	if etagErr != nil {
		ctxLogger.Error("Failed to generate ETag for report", "reportID", result.ID, "error", etagErr)
	} else {
		w.Header().Set("ETag", fmt.Sprintf("%q", currentETag))
		if utils.ETagMatches(r.Header.Get("If-None-Match"), currentETag) {
			ctxLogger.Debug("ETag match for report", "reportID", result.ID)
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	utils.SendJSON(w, result, http.StatusOK)
}

// HandleGetReportPage renders a cached result as HTML.
func (h *UploadHandler) HandleGetReportPage(w http.ResponseWriter, r *http.Request) {
	result, uerr := h.lookupReport(chi.URLParam(r, "id"))
	if uerr != nil {
		http.Error(w, uerr.message, uerr.status)
		return
	}
	h.writeReportPage(w, r, result)
}

// HandleHealth reports liveness.
func (h *UploadHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	utils.SendJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func (h *UploadHandler) lookupReport(id string) (*services.UploadResult, *uploadError) {
	if err := validation.ValidateReportID(id); err != nil {
		return nil, &uploadError{status: http.StatusBadRequest, message: "Invalid report id.", err: err}
	}
	result, err := h.uploadService.GetUploadResult(id)
	if err != nil {
		if errors.Is(err, services.ErrResultNotFound) {
			return nil, &uploadError{status: http.StatusNotFound, message: msgReportNotFound, err: err}
		}
		return nil, &uploadError{status: http.StatusInternalServerError, message: msgProcessingError, err: err}
	}
	return result, nil
}

// receiveUpload validates the multipart request and runs the upload service.
func (h *UploadHandler) receiveUpload(w http.ResponseWriter, r *http.Request) (*services.UploadResult, *uploadError) {
	ctxLogger := logger.FromContext(r.Context())
	maxSize := h.opts.MaxUploadSizeBytes
	limit := humanize.IBytes(uint64(maxSize))

	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ctxLogger.Warn("Upload request too large", "limit", maxSize)
			return nil, &uploadError{status: http.StatusRequestEntityTooLarge, message: fmt.Sprintf("File too large (max %s)", limit), err: err}
		}
		ctxLogger.Warn("Failed to parse multipart form", "error", err)
		return nil, &uploadError{status: http.StatusBadRequest, message: msgNoFilePart, err: err}
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		ctxLogger.Warn("Failed to retrieve file from request", "error", err)
		return nil, &uploadError{status: http.StatusBadRequest, message: msgNoFilePart, err: err}
	}
	defer file.Close()

	if fileHeader.Filename == "" {
		return nil, &uploadError{status: http.StatusBadRequest, message: msgNoSelectedFile}
	}
	if err := validation.ValidateFileExtension(fileHeader.Filename, h.opts.AllowedExtensions); err != nil {
		ctxLogger.Warn("Rejected upload extension", "filename", fileHeader.Filename, "error", err)
		return nil, &uploadError{status: http.StatusBadRequest, message: msgInvalidFormat, err: err}
	}
	if err := validation.ValidateFileSize(fileHeader.Size, maxSize); err != nil {
		ctxLogger.Warn("Rejected upload size", "filename", fileHeader.Filename, "size", fileHeader.Size, "error", err)
		status := http.StatusRequestEntityTooLarge
		if fileHeader.Size == 0 {
			status = http.StatusBadRequest
		}
		return nil, &uploadError{status: status, message: strings.TrimPrefix(err.Error(), validation.ErrValidationFailed.Error()+": "), err: err}
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		return nil, &uploadError{status: http.StatusBadRequest, message: msgInvalidFormat, err: err}
	}
	detectedContentType, err := validation.ValidateFileContentByMagicBytes(file)
	if err != nil {
		ctxLogger.Warn("Server-side file content validation failed", "filename", fileHeader.Filename, "error", err)
		return nil, &uploadError{status: http.StatusBadRequest, message: msgInvalidFormat, err: err}
	}
	ctxLogger.Debug("File content validated", "filename", fileHeader.Filename, "clientType", clientContentType, "detectedType", detectedContentType)

	source := strings.TrimSpace(r.FormValue("source"))
	if source != "" {
		if err := validation.ValidateSource(source, parsers.Sources); err != nil {
			return nil, &uploadError{status: http.StatusBadRequest, message: fmt.Sprintf("Unsupported source %q.", validation.SanitizeText(source)), err: err}
		}
	}

	filename := validation.SecureFilename(fileHeader.Filename)
	if filename == "" {
		filename = "upload." + h.opts.AllowedExtensions[0]
	}
	result, err := h.uploadService.ProcessUpload(r.Context(), file, source, filename, fileHeader.Size)
	if err != nil {
		switch {
		case errors.Is(err, parsers.ErrMissingColumns):
			ctxLogger.Warn("Upload is missing required columns", "error", err)
			return nil, &uploadError{status: http.StatusBadRequest, message: msgMissingColumns, err: err}
		case errors.Is(err, services.ErrParsingFailed):
			ctxLogger.Warn("Upload could not be parsed", "error", err)
			return nil, &uploadError{status: http.StatusBadRequest, message: msgParseError, err: err}
		default:
			ctxLogger.Error("Upload processing failed", "error", err)
			return nil, &uploadError{status: http.StatusInternalServerError, message: msgProcessingError, err: err}
		}
	}
	return result, nil
}

// writeReportPage renders the summary and the trade table of result as HTML.
func (h *UploadHandler) writeReportPage(w http.ResponseWriter, r *http.Request, result *services.UploadResult) {
	ctxLogger := logger.FromContext(r.Context())

	summaryHTML, err := renderer.MarkdownToHTML(renderer.RenderMarkdown(result.Summary))
	if err != nil {
		ctxLogger.Error("Failed to render summary", "reportID", result.ID, "error", err)
		http.Error(w, msgProcessingError, http.StatusInternalServerError)
		return
	}
	tableHTML, err := renderer.MarkdownToHTML(renderer.RenderTransactionsMarkdown(result.Transactions))
	if err != nil {
		ctxLogger.Error("Failed to render trade table", "reportID", result.ID, "error", err)
		http.Error(w, msgProcessingError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := renderer.UploadPage{
		Filename:     result.Filename,
		ReportID:     result.ID,
		Size:         humanize.Bytes(uint64(result.Size)),
		Generated:    humanize.Time(result.CreatedAt),
		SkippedLines: len(result.SkippedLines),
		SummaryHTML:  summaryHTML,
		TableHTML:    tableHTML,
	}
	if err := renderer.RenderUploadPage(w, page); err != nil {
		ctxLogger.Error("Failed to render report page", "reportID", result.ID, "error", err)
	}
}
