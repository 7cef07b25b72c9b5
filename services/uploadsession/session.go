// Package uploadsession implements the short-lived cross-device file
// handshake: a desktop client creates a session, a phone pushes files into
// it knowing only the session id, and the desktop polls until the files
// land.
//
// The session id is 32 hex chars from a cryptographically strong source
// and is the only credential for the unauthenticated upload endpoint:
// knowledge of the id is the capability. Sessions accept exactly one
// upload and live for ten minutes.
package uploadsession

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"go.uber.org/zap"

	"fixhub/database/docstore"
	"fixhub/models"
	"fixhub/utils"
)

// SessionTTL is how long a session stays usable after creation.
const SessionTTL = 10 * time.Minute

var (
	// ErrNotFound means the session id resolves to nothing.
	ErrNotFound = errors.New("session not found")
	// ErrExpired means the session's TTL elapsed before the upload.
	ErrExpired = errors.New("session has expired")
	// ErrAlreadyUploaded means the one-shot upload already happened.
	ErrAlreadyUploaded = errors.New("session already has files uploaded")
)

// SessionService manages upload sessions.
type SessionService interface {
	Create() models.UploadSession
	Get(id string) (models.UploadSession, bool)
	AttachFiles(id string, files []models.UploadSessionFile, description string) error
	CleanExpired() int
}

// DefaultSessionService is backed by the uploadSessions collection. Now is
// injectable so tests can move the clock.
type DefaultSessionService struct {
	Sessions docstore.Collection[models.UploadSession]
	Now      func() time.Time
}

// NewDefaultSessionService wires the service to the uploadSessions
// collection.
func NewDefaultSessionService(db *docstore.DB) *DefaultSessionService {
	return &DefaultSessionService{
		Sessions: docstore.CollectionOf[models.UploadSession](db, "uploadSessions"),
		Now:      time.Now,
	}
}

// newSessionID mints the 32-hex-char capability token.
func newSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// Without a working random source the capability model is void.
		panic("uploadsession: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)
}

// Create stores a fresh pending session expiring in ten minutes. The
// session keeps its random id, which callers hand to the second device.
func (s *DefaultSessionService) Create() models.UploadSession {
	now := s.Now().UTC()
	session := s.Sessions.InsertWithID(newSessionID(), models.UploadSession{
		Status:      models.SessionPending,
		Files:       []models.UploadSessionFile{},
		Description: "",
		CreatedAt:   now,
		ExpiresAt:   now.Add(SessionTTL),
	})
	utils.GetLogger().Info("Upload session created", zap.String("sessionID", session.ID))
	return session
}

// Get returns a session by id, lazily flipping it to expired (and
// persisting the flip) when its TTL has passed.
func (s *DefaultSessionService) Get(id string) (models.UploadSession, bool) {
	session, exists := s.Sessions.FindByID(id)
	if !exists {
		return models.UploadSession{}, false
	}

	if session.Status != models.SessionExpired && s.Now().After(session.ExpiresAt) {
		s.Sessions.UpdateOne(docstore.Query{"_id": id}, docstore.Patch{"status": models.SessionExpired})
		session.Status = models.SessionExpired
		utils.GetLogger().Debug("Upload session expired", zap.String("sessionID", id))
	}

	return session, true
}

// AttachFiles performs the one-shot upload transition: pending → uploaded.
// Expired sessions and already-uploaded sessions are rejected; there is no
// overwrite.
func (s *DefaultSessionService) AttachFiles(id string, files []models.UploadSessionFile, description string) error {
	session, exists := s.Get(id)
	if !exists {
		return ErrNotFound
	}

	switch session.Status {
	case models.SessionExpired:
		return ErrExpired
	case models.SessionUploaded:
		return ErrAlreadyUploaded
	}

	s.Sessions.UpdateOne(docstore.Query{"_id": id}, docstore.Patch{
		"files":       files,
		"description": description,
		"status":      models.SessionUploaded,
	})
	utils.GetLogger().Info("Upload session received files",
		zap.String("sessionID", id), zap.Int("files", len(files)))
	return nil
}

// CleanExpired deletes every session past its expiry. Callers invoke it
// opportunistically before creating new sessions.
func (s *DefaultSessionService) CleanExpired() int {
	now := s.Now()
	deleted := 0
	for _, session := range s.Sessions.FindAll() {
		if now.After(session.ExpiresAt) {
			if s.Sessions.DeleteOne(docstore.Query{"_id": session.ID}) {
				deleted++
			}
		}
	}
	if deleted > 0 {
		utils.GetLogger().Debug("Cleaned expired upload sessions", zap.Int("count", deleted))
	}
	return deleted
}
