package uploadsession

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fixhub/database/docstore"
	"fixhub/models"
	"fixhub/utils"
)

func init() {
	utils.Logger = zap.NewNop()
}

// newTestService returns a session service with a controllable clock.
func newTestService(t *testing.T) (*DefaultSessionService, *time.Time) {
	t.Helper()
	db, err := docstore.Open(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	now := time.Date(2026, 5, 12, 10, 0, 0, 0, time.UTC)
	svc := NewDefaultSessionService(db)
	svc.Now = func() time.Time { return now }
	return svc, &now
}

func TestCreateStartsPendingWithTenMinuteTTL(t *testing.T) {
	svc, now := newTestService(t)

	session := svc.Create()
	assert.Len(t, session.ID, 32)
	assert.Equal(t, models.SessionPending, session.Status)
	assert.Empty(t, session.Files)
	assert.Equal(t, now.Add(SessionTTL), session.ExpiresAt)
}

func TestSessionIDsAreUnique(t *testing.T) {
	svc, _ := newTestService(t)
	a := svc.Create()
	b := svc.Create()
	assert.NotEqual(t, a.ID, b.ID)
}

func TestGetUnknownSession(t *testing.T) {
	svc, _ := newTestService(t)
	_, exists := svc.Get("0123456789abcdef0123456789abcdef")
	assert.False(t, exists)
}

func TestAttachFilesTransitionsToUploaded(t *testing.T) {
	svc, _ := newTestService(t)
	session := svc.Create()

	files := []models.UploadSessionFile{
		{Filename: "door.jpg", MimeType: "image/jpeg", Size: 3, Data: []byte{1, 2, 3}},
	}
	require.NoError(t, svc.AttachFiles(session.ID, files, "broken hinge"))

	got, exists := svc.Get(session.ID)
	require.True(t, exists)
	assert.Equal(t, models.SessionUploaded, got.Status)
	assert.Equal(t, "broken hinge", got.Description)
	require.Len(t, got.Files, 1)
	assert.Equal(t, "door.jpg", got.Files[0].Filename)
	assert.Equal(t, []byte{1, 2, 3}, got.Files[0].Data)
}

func TestAttachFilesIsOneShot(t *testing.T) {
	svc, _ := newTestService(t)
	session := svc.Create()

	require.NoError(t, svc.AttachFiles(session.ID, nil, "first"))
	err := svc.AttachFiles(session.ID, nil, "second")
	assert.ErrorIs(t, err, ErrAlreadyUploaded)

	// The first upload is untouched.
	got, _ := svc.Get(session.ID)
	assert.Equal(t, "first", got.Description)
}

func TestAttachFilesToUnknownSession(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.AttachFiles("ffffffffffffffffffffffffffffffff", nil, "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExpiryFlipsLazilyOnGet(t *testing.T) {
	svc, now := newTestService(t)
	session := svc.Create()

	*now = now.Add(SessionTTL + time.Second)

	got, exists := svc.Get(session.ID)
	require.True(t, exists)
	assert.Equal(t, models.SessionExpired, got.Status)

	// The flip is persisted, not just reported.
	stored, _ := svc.Sessions.FindByID(session.ID)
	assert.Equal(t, models.SessionExpired, stored.Status)
}

func TestAttachFilesToExpiredSession(t *testing.T) {
	svc, now := newTestService(t)
	session := svc.Create()

	*now = now.Add(SessionTTL + time.Minute)

	err := svc.AttachFiles(session.ID, nil, "too late")
	assert.ErrorIs(t, err, ErrExpired)
}

func TestUploadedSessionSurvivesExpiryCheckOnGet(t *testing.T) {
	svc, now := newTestService(t)
	session := svc.Create()
	require.NoError(t, svc.AttachFiles(session.ID, nil, "in time"))

	*now = now.Add(SessionTTL + time.Minute)

	// Past its TTL the session still reads as expired, even when uploaded;
	// results are only retrievable inside the window.
	got, exists := svc.Get(session.ID)
	require.True(t, exists)
	assert.Equal(t, models.SessionExpired, got.Status)
}

func TestCleanExpiredRemovesOnlyStaleSessions(t *testing.T) {
	svc, now := newTestService(t)
	stale := svc.Create()

	*now = now.Add(SessionTTL + time.Second)
	fresh := svc.Create()

	deleted := svc.CleanExpired()
	assert.Equal(t, 1, deleted)

	_, exists := svc.Get(stale.ID)
	assert.False(t, exists)
	_, exists = svc.Get(fresh.ID)
	assert.True(t, exists)
}
