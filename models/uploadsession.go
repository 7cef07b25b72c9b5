package models

import "time"

// Upload session states. A session is pending until a device uploads into
// it, and flips to expired once its TTL elapses.
const (
	SessionPending  = "pending"
	SessionUploaded = "uploaded"
	SessionExpired  = "expired"
)

// UploadSessionFile is a file pushed into a session by the second device.
// Data round-trips through JSON as base64.
type UploadSessionFile struct {
	Data     []byte `json:"buffer"`
	Filename string `json:"filename"`
	MimeType string `json:"mimetype"`
	Size     int64  `json:"size"`
}

// UploadSession is a short-lived cross-device handshake. Its ID is a
// 32-hex-char random string and doubles as the only credential for the
// unauthenticated upload endpoint: knowledge of the id is the capability.
type UploadSession struct {
	ID          string              `json:"_id"`
	Status      string              `json:"status"`
	Files       []UploadSessionFile `json:"files"`
	Description string              `json:"description"`
	CreatedAt   time.Time           `json:"createdAt"`
	ExpiresAt   time.Time           `json:"expiresAt"`
}

func (s UploadSession) DocumentID() string { return s.ID }
