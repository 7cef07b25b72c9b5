package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fixhub/config"
	"fixhub/database/docstore"
	"fixhub/handlers"
	"fixhub/routes"
	"fixhub/services/analyzer"
	"fixhub/services/history"
	"fixhub/services/provider"
	"fixhub/services/storage"
	"fixhub/services/ticket"
	"fixhub/services/uploadsession"
	"fixhub/services/user"
	"fixhub/utils"
)

// newTestRouter assembles the full API the way main does, minus the rate
// limiter, on a throwaway data directory. No Gemini key is set, so every
// analysis takes the mock path.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.Logger = zap.NewNop()
	config.AppConfig = config.Config{
		Env:       "test",
		JWTSecret: "test-secret",
		DataDir:   t.TempDir(),
	}

	store, err := docstore.Open(config.AppConfig.DataDir, zap.NewNop())
	require.NoError(t, err)

	userService := user.NewDefaultUserService(store)
	providerService := provider.NewDefaultProviderService(store)
	historyService := history.NewDefaultHistoryService(store)
	ticketService := ticket.NewDefaultTicketService(store, providerService, historyService)
	sessionService := uploadsession.NewDefaultSessionService(store)
	analyzerService := analyzer.NewDefaultAnalyzerService("")

	providerService.Seed()

	authHandler := handlers.NewAuthHandler(userService)
	analyzeHandler := handlers.NewAnalyzeHandler(analyzerService, historyService, storage.NoopStorage{})
	ticketHandler := handlers.NewTicketHandler(ticketService)
	historyHandler := handlers.NewHistoryHandler(historyService)
	sessionHandler := handlers.NewUploadSessionHandler(sessionService)
	debugHandler := handlers.NewDebugHandler(store)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(handlers.RequestLoggerMiddleware())

	routes.RegisterRoutes(router, &handlers.HandlerBundle{
		Users: userService,

		SignupHandler: authHandler.SignupHandler,
		LoginHandler:  authHandler.LoginHandler,
		MeHandler:     authHandler.MeHandler,

		AnalyzeHandler: analyzeHandler.Handle,

		CreateTicketHandler: ticketHandler.CreateHandler,
		ListTicketsHandler:  ticketHandler.ListHandler,

		ListHistoryHandler:   historyHandler.ListHandler,
		DeleteHistoryHandler: historyHandler.DeleteHandler,
		ClearHistoryHandler:  historyHandler.ClearHandler,

		CreateSessionHandler: sessionHandler.CreateHandler,
		SessionStatusHandler: sessionHandler.StatusHandler,
		SessionUploadHandler: sessionHandler.UploadHandler,
		SessionFilesHandler:  sessionHandler.FilesHandler,

		DebugStorageHandler: debugHandler.StorageHandler,
	})
	return router
}

func doJSON(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// doMultipart posts a multipart form with a description field and optional
// image files.
func doMultipart(router *gin.Engine, path, token, description string, fileNames ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("description", description)
	for _, name := range fileNames {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, name))
		header.Set("Content-Type", "image/jpeg")
		part, _ := mw.CreatePart(header)
		_, _ = part.Write([]byte("fake image bytes"))
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func signup(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"email":    email,
		"password": "secret123",
		"username": "Test User",
		"phone":    "+4512345678",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestSignupLoginAndMe(t *testing.T) {
	router := newTestRouter(t)

	token := signup(t, router, "anna@example.com")

	// The token resolves to the created account.
	w := doJSON(router, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	usr := body["user"].(map[string]any)
	assert.Equal(t, "anna@example.com", usr["email"])
	assert.NotContains(t, usr, "passwordHash")
	assert.NotContains(t, usr, "password")

	// Login with the right password issues a fresh token.
	w = doJSON(router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "anna@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["token"])

	// A wrong password does not.
	w = doJSON(router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "anna@example.com",
		"password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDuplicateSignupRejected(t *testing.T) {
	router := newTestRouter(t)
	signup(t, router, "anna@example.com")

	w := doJSON(router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"email":    "Anna@Example.com", // email matching is case-insensitive
		"password": "different456",
		"username": "Second Anna",
		"phone":    "+4587654321",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User already exists with this email", decodeBody(t, w)["error"])
}

func TestSignupValidation(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"email":    "not-an-email",
		"password": "secret123",
		"username": "Test",
		"phone":    "+4512345678",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"email":    "ok@example.com",
		"password": "short",
		"username": "Test",
		"phone":    "+4512345678",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodPost, "/api/analyze"},
		{http.MethodPost, "/api/tickets"},
		{http.MethodGet, "/api/history"},
		{http.MethodPost, "/api/upload-session/create"},
		{http.MethodGet, "/api/debug/storage"},
	} {
		w := doJSON(router, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, route.path)

		w = doJSON(router, route.method, route.path, "not-a-real-token", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, route.path)
	}
}

func TestAnalyzeDishwasherWithoutFiles(t *testing.T) {
	router := newTestRouter(t)
	token := signup(t, router, "anna@example.com")

	w := doMultipart(router, "/api/analyze", token, "my dishwasher door fell off")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "appliance", body["category"])
	assert.Equal(t, "dishwasher", body["subCategory"])
	assert.Equal(t, "repair", body["repairOrReplace"])
	assert.NotEmpty(t, body["insuranceSummary"])

	// The run lands in history.
	w = doJSON(router, http.MethodGet, "/api/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	records := decodeBody(t, w)["data"].([]any)
	require.Len(t, records, 1)
	record := records[0].(map[string]any)
	assert.Equal(t, "my dishwasher door fell off", record["description"])
}

func TestAnalyzeWithFilesKeepsBase64Previews(t *testing.T) {
	router := newTestRouter(t)
	token := signup(t, router, "anna@example.com")

	w := doMultipart(router, "/api/analyze", token, "my phone screen cracked", "crack.jpg")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "electronics", decodeBody(t, w)["category"])

	w = doJSON(router, http.MethodGet, "/api/history", token, nil)
	record := decodeBody(t, w)["data"].([]any)[0].(map[string]any)
	fileNames := record["fileNames"].([]any)
	require.Len(t, fileNames, 1)
	assert.Equal(t, "crack.jpg", fileNames[0])
	imageURLs := record["imageUrls"].([]any)
	require.Len(t, imageURLs, 1)
	assert.True(t, strings.HasPrefix(imageURLs[0].(string), "data:image/jpeg;base64,"))
}

func TestAnalyzeDescriptionValidation(t *testing.T) {
	router := newTestRouter(t)
	token := signup(t, router, "anna@example.com")

	w := doMultipart(router, "/api/analyze", token, "hi")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doMultipart(router, "/api/analyze", token, strings.Repeat("x", 501))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Bounds count characters, not bytes: four Danish letters are eight
	// bytes but still below the minimum.
	w = doMultipart(router, "/api/analyze", token, "æøåß")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A 500-character multibyte description is within bounds even though
	// it is 1000 bytes.
	w = doMultipart(router, "/api/analyze", token, strings.Repeat("æ", 500))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestTicketFlowLinksHistory(t *testing.T) {
	router := newTestRouter(t)
	token := signup(t, router, "anna@example.com")

	// Analyze first so there is a history record to link.
	w := doMultipart(router, "/api/analyze", token, "my dishwasher door fell off")
	require.Equal(t, http.StatusOK, w.Code)
	analysis := decodeBody(t, w)

	w = doJSON(router, http.MethodPost, "/api/tickets", token, gin.H{
		"description": "my dishwasher door fell off",
		"analysis":    analysis,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Ticket created and sent to company (mocked)", body["message"])
	ticketID := body["ticketId"].(string)
	require.NotEmpty(t, ticketID)

	// The ticket shows up under the user with its assigned provider.
	w = doJSON(router, http.MethodGet, "/api/tickets", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	tickets := decodeBody(t, w)["tickets"].([]any)
	require.Len(t, tickets, 1)
	created := tickets[0].(map[string]any)
	assert.Equal(t, "assigned", created["status"])
	assert.Equal(t, "Lars Hansen", created["providerName"])

	// The history record carries the backfilled linkage.
	w = doJSON(router, http.MethodGet, "/api/history", token, nil)
	record := decodeBody(t, w)["data"].([]any)[0].(map[string]any)
	assert.Equal(t, ticketID, record["ticketId"])
	assert.Equal(t, "Lars Hansen", record["providerName"])
	assert.Equal(t, "FixHub Appliance Repair", record["providerCompany"])
}

func TestTicketValidationRejectsUnknownCategory(t *testing.T) {
	router := newTestRouter(t)
	token := signup(t, router, "anna@example.com")

	w := doJSON(router, http.MethodPost, "/api/tickets", token, gin.H{
		"description": "something broke",
		"analysis": gin.H{
			"category":         "spaceships",
			"subCategory":      "x",
			"severity":         "minor",
			"estimatedCost":    "100 DKK",
			"repairOrReplace":  "repair",
			"insuranceSummary": "text",
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTicketAcceptsLegacyPlumbingLabel(t *testing.T) {
	router := newTestRouter(t)
	token := signup(t, router, "anna@example.com")

	w := doJSON(router, http.MethodPost, "/api/tickets", token, gin.H{
		"description": "pipe is leaking",
		"analysis": gin.H{
			"category":         "vvs",
			"subCategory":      "pipe leak",
			"severity":         "moderate",
			"estimatedCost":    "800 DKK",
			"repairOrReplace":  "repair",
			"insuranceSummary": "Customer reports a pipe leak.",
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(router, http.MethodGet, "/api/tickets", token, nil)
	created := decodeBody(t, w)["tickets"].([]any)[0].(map[string]any)
	assert.Equal(t, "Hans Andersen", created["providerName"])
}

func TestHistoryDeleteAndClear(t *testing.T) {
	router := newTestRouter(t)
	token := signup(t, router, "anna@example.com")

	for _, desc := range []string{"dishwasher door broke", "phone screen cracked", "water leak"} {
		w := doMultipart(router, "/api/analyze", token, desc)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(router, http.MethodGet, "/api/history", token, nil)
	records := decodeBody(t, w)["data"].([]any)
	require.Len(t, records, 3)
	firstID := records[0].(map[string]any)["_id"].(string)

	// Delete one record.
	w = doJSON(router, http.MethodDelete, "/api/history/"+firstID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Deleting it again is a 404.
	w = doJSON(router, http.MethodDelete, "/api/history/"+firstID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Clear the rest.
	w = doJSON(router, http.MethodDelete, "/api/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Deleted 2 analyses", decodeBody(t, w)["message"])

	w = doJSON(router, http.MethodGet, "/api/history", token, nil)
	assert.Empty(t, decodeBody(t, w)["data"])
}

func TestHistoryIsScopedToUser(t *testing.T) {
	router := newTestRouter(t)
	anna := signup(t, router, "anna@example.com")
	bob := signup(t, router, "bob@example.com")

	w := doMultipart(router, "/api/analyze", anna, "my dishwasher door fell off")
	require.Equal(t, http.StatusOK, w.Code)

	// Bob sees nothing and cannot delete Anna's record.
	w = doJSON(router, http.MethodGet, "/api/history", bob, nil)
	assert.Empty(t, decodeBody(t, w)["data"])

	w = doJSON(router, http.MethodGet, "/api/history", anna, nil)
	annaID := decodeBody(t, w)["data"].([]any)[0].(map[string]any)["_id"].(string)

	w = doJSON(router, http.MethodDelete, "/api/history/"+annaID, bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadSessionFlow(t *testing.T) {
	router := newTestRouter(t)
	token := signup(t, router, "anna@example.com")

	// Desktop creates a session.
	w := doJSON(router, http.MethodPost, "/api/upload-session/create", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	sessionID := decodeBody(t, w)["sessionId"].(string)
	require.Len(t, sessionID, 32)

	// Desktop polls: still pending.
	w = doJSON(router, http.MethodGet, "/api/upload-session/"+sessionID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	status := decodeBody(t, w)
	assert.Equal(t, "pending", status["status"])
	assert.Equal(t, float64(0), status["fileCount"])

	// Files are not retrievable before the upload.
	w = doJSON(router, http.MethodGet, "/api/upload-session/"+sessionID+"/files", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The phone pushes files without any auth token.
	w = doMultipart(router, "/api/upload-session/"+sessionID+"/upload", "", "photos from my phone", "damage.jpg")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Polling now reports the upload.
	w = doJSON(router, http.MethodGet, "/api/upload-session/"+sessionID, token, nil)
	status = decodeBody(t, w)
	assert.Equal(t, "uploaded", status["status"])
	assert.Equal(t, float64(1), status["fileCount"])

	// A second push is rejected.
	w = doMultipart(router, "/api/upload-session/"+sessionID+"/upload", "", "second push", "again.jpg")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The desktop retrieves the payload.
	w = doJSON(router, http.MethodGet, "/api/upload-session/"+sessionID+"/files", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	payload := decodeBody(t, w)
	assert.Equal(t, "photos from my phone", payload["description"])
	files := payload["files"].([]any)
	require.Len(t, files, 1)
	assert.Equal(t, "damage.jpg", files[0].(map[string]any)["filename"])
}

func TestUploadSessionUnknownID(t *testing.T) {
	router := newTestRouter(t)
	token := signup(t, router, "anna@example.com")

	w := doJSON(router, http.MethodGet, "/api/upload-session/ffffffffffffffffffffffffffffffff", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doMultipart(router, "/api/upload-session/ffffffffffffffffffffffffffffffff/upload", "", "some description", "a.jpg")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadSessionRejectsEmptyPush(t *testing.T) {
	router := newTestRouter(t)
	token := signup(t, router, "anna@example.com")

	w := doJSON(router, http.MethodPost, "/api/upload-session/create", token, nil)
	sessionID := decodeBody(t, w)["sessionId"].(string)

	// No files at all.
	w = doMultipart(router, "/api/upload-session/"+sessionID+"/upload", "", "just a description")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDebugStorageReportsCollections(t *testing.T) {
	router := newTestRouter(t)
	token := signup(t, router, "anna@example.com")

	w := doJSON(router, http.MethodGet, "/api/debug/storage", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)

	database := body["database"].(map[string]any)
	assert.Equal(t, true, database["connected"])
	collections := database["collections"].(map[string]any)
	assert.Equal(t, float64(1), collections["users"])

	ai := body["aiProvider"].(map[string]any)
	assert.Equal(t, "Not configured", ai["status"])
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
}
