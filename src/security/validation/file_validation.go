package validation

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/username/tradeperf/src/logger"
)

// AllowedClientContentTypes is a map for quick lookup of allowed client-declared MIME types.
var AllowedClientContentTypes = map[string]bool{
	"text/csv":                 true,
	"application/csv":          true,
	"application/vnd.ms-excel": true, // Often used for CSV by older Excel
	"text/plain":               true,
	"application/octet-stream": true, // curl and some browsers send this for unknown extensions
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": false, // .xlsx explicitly disallow
}

var allowedDetectedTypes = map[string]bool{
	"text/plain":      true,
	"text/csv":        true,
	"application/csv": true,
}

// ValidateFileExtension checks that filename carries one of the allowed
// extensions (compared without the dot, case-insensitive).
func ValidateFileExtension(filename string, allowed []string) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return fmt.Errorf("%w: file '%s' has no extension", ErrValidationFailed, filename)
	}
	for _, a := range allowed {
		if ext == strings.TrimPrefix(strings.ToLower(strings.TrimSpace(a)), ".") {
			return nil
		}
	}
	return fmt.Errorf("%w: file extension '.%s' is not allowed", ErrValidationFailed, ext)
}

// ValidateFileSize rejects empty files and files larger than maxBytes.
func ValidateFileSize(size, maxBytes int64) error {
	if size == 0 {
		return fmt.Errorf("%w: file is empty", ErrValidationFailed)
	}
	if maxBytes > 0 && size > maxBytes {
		return fmt.Errorf("%w: file is %s, the limit is %s", ErrValidationFailed,
			humanize.IBytes(uint64(size)), humanize.IBytes(uint64(maxBytes)))
	}
	return nil
}

// ValidateClientContentType checks the Content-Type header provided by the client.
// An empty header is accepted; the content sniffing still runs.
func ValidateClientContentType(contentType string) error {
	if strings.TrimSpace(contentType) == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}
	if allowed, exists := AllowedClientContentTypes[strings.ToLower(mediaType)]; !exists || !allowed {
		logger.L.Warn("Disallowed client-declared Content-Type", "contentType", contentType)
		return fmt.Errorf("%w: client-declared file type '%s' is not allowed for CSV upload", ErrValidationFailed, contentType)
	}
	return nil
}

// isBinaryContent checks if a buffer contains null bytes or invalid UTF-8,
// either of which rules out a CSV export.
func isBinaryContent(buf []byte) bool {
	if bytes.IndexByte(buf, 0) != -1 {
		return true
	}
	// The sniff buffer may cut a multi-byte rune in half.
	for i := 0; i < utf8.UTFMax && len(buf) > 0 && !utf8.Valid(buf); i++ {
		buf = buf[:len(buf)-1]
	}
	return !utf8.Valid(buf)
}

// ValidateFileContentByMagicBytes checks the actual file content signature (magic bytes)
// and inspects the content to ensure it is text-based. The reader is rewound afterwards.
func ValidateFileContentByMagicBytes(file io.ReadSeeker) (string, error) {
	if file == nil {
		return "", fmt.Errorf("%w: file is nil", ErrValidationFailed)
	}

	buffer := make([]byte, 1024)
	n, err := io.ReadFull(file, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("failed to read file for content type checking: %w", err)
	}

	if _, seekErr := file.Seek(0, io.SeekStart); seekErr != nil {
		return "", fmt.Errorf("failed to reset file read pointer: %w", seekErr)
	}

	if n == 0 {
		return "", fmt.Errorf("%w: file is empty", ErrValidationFailed)
	}

	if isBinaryContent(buffer[:n]) {
		logger.L.Warn("File rejected: Binary content detected in text upload")
		return "application/octet-stream", fmt.Errorf("%w: file appears to be binary, not text/CSV", ErrValidationFailed)
	}

	detectedContentType := http.DetectContentType(buffer[:n])
	detectedContentType = strings.ToLower(strings.Split(detectedContentType, ";")[0])

	if !allowedDetectedTypes[detectedContentType] {
		logger.L.Warn("Disallowed detected file content type", "detectedContentType", detectedContentType)
		return detectedContentType, fmt.Errorf("%w: detected file content type '%s' is not allowed", ErrValidationFailed, detectedContentType)
	}

	logger.L.Debug("File content type validated", "detectedContentType", detectedContentType)
	return detectedContentType, nil
}
