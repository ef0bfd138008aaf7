package domain

// Attachment is metadata about a file stored outside the engine.
type Attachment struct {
	AttachmentID string `json:"attachmentID"`
	TenantID     string `json:"tenantID"`
	DocumentID   string `json:"documentID"`
	FileName     string `json:"fileName"`
	MimeType     string `json:"mimeType"`
	SizeBytes    int64  `json:"sizeBytes"`
	StorageKey   string `json:"storageKey"` // Opaque key understood by the file storage driver
	AuditFields
}
