package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	DocumentID   string    `json:"document_id"`
	FileName     string    `json:"file_name"`
	DocumentType string    `json:"document_type"`
	MimeType     string    `json:"mime_type"`
	SizeBytes    int64     `json:"size_bytes"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		DocumentID:   doc.ID,
		FileName:     doc.FileName,
		DocumentType: doc.DocumentType,
		MimeType:     doc.MimeType,
		SizeBytes:    doc.SizeBytes,
		UploadedAt:   doc.CreatedAt,
	}
}
