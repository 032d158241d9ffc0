package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/briefworks/rfpdb/internal/extraction"
	"github.com/briefworks/rfpdb/internal/gateway"
	"github.com/briefworks/rfpdb/internal/handlers"
	"github.com/briefworks/rfpdb/internal/locks"
	"github.com/briefworks/rfpdb/internal/middleware"
	"github.com/briefworks/rfpdb/internal/models"
	"github.com/briefworks/rfpdb/internal/services"
	"github.com/briefworks/rfpdb/internal/types"
	"github.com/briefworks/rfpdb/tests/helpers"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// stubExtractor returns a canned extraction result
type stubExtractor struct {
	result *extraction.Result
}

func (s *stubExtractor) Extract(_ context.Context, _ string) (*extraction.Result, error) {
	return s.result, nil
}

// echoEvaluator returns the draft unchanged
type echoEvaluator struct{}

func (echoEvaluator) Evaluate(_ context.Context, _ string, draft *extraction.Result) (*extraction.Result, error) {
	return draft, nil
}

// stubProposer returns canned additions
type stubProposer struct {
	spaces []extraction.SpaceRequirements
}

func (s *stubProposer) ProposeAdditions(_ context.Context, _, _ string) ([]extraction.SpaceRequirements, error) {
	return s.spaces, nil
}

type testEnv struct {
	app   *fiber.App
	db    *gorm.DB
	token string
	ext   *stubExtractor
	prop  *stubProposer
}

// customErrorHandler mirrors the server's global error handler so
// middleware CustomErrors map to JSON envelopes in tests
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}
	if e, ok := err.(*types.CustomError); ok {
		code = e.Code
		message = e.Message
	}
	return c.Status(code).JSON(fiber.Map{"status": code, "message": message, "ok": false})
}

// setupApp wires the full route surface against an in-memory database
// and stub oracles
func setupApp(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Project{}, &models.Document{}, &models.Space{}, &models.Item{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	cfg := helpers.TestConfig(t)
	ext := &stubExtractor{}
	prop := &stubProposer{}
	projectLocks := locks.NewProjectLocks()
	reconciler := services.NewReconciler(db, gateway.NewFileParser(), ext, echoEvaluator{}, projectLocks)
	merger := services.NewMerger(db, prop, projectLocks)
	projectService := services.NewProjectService(db, cfg, reconciler, merger)
	authService := services.NewAuthService(cfg)

	app := fiber.New(fiber.Config{ErrorHandler: customErrorHandler})
	api := app.Group("/api")

	authHandler := &handlers.AuthHandler{Auth: authService}
	documentHandler := &handlers.DocumentHandler{Service: projectService}
	projectHandler := &handlers.ProjectHandler{Service: projectService}
	requirementHandler := &handlers.RequirementHandler{Service: projectService}
	authed := middleware.Auth(authService)

	api.Post("/login", authHandler.Login)
	api.Get("/documents", documentHandler.List)
	api.Post("/upload", authed, documentHandler.Upload)
	api.Post("/documents/:id/analyze", authed, documentHandler.Analyze)
	api.Get("/projects/:id", authed, projectHandler.Get)
	api.Get("/projects/:id/analysis", authed, projectHandler.GetAnalysis)
	api.Post("/projects/:id/spaces", authed, projectHandler.AddSpace)
	api.Post("/projects/:id/prompt-add", authed, projectHandler.PromptAdd)
	api.Get("/projects/:id/export", authed, projectHandler.Export)
	api.Patch("/projects/:id/requirements/:reqId", authed, requirementHandler.Update)
	api.Post("/spaces/:spaceId/items", authed, requirementHandler.AddItem)

	return &testEnv{
		app:   app,
		db:    db,
		token: helpers.AcquireToken(t, cfg),
		ext:   ext,
		prop:  prop,
	}
}

func strPtr(s string) *string { return &s }

// TestLogin verifies the credential exchange
func TestLogin(t *testing.T) {
	env := setupApp(t)

	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "test-password"})
	req := httptest.NewRequest("POST", "/api/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 200)

	var result map[string]interface{}
	helpers.ParseJSON(t, resp, &result)
	if result["access_token"] == "" || result["token_type"] != "bearer" {
		t.Errorf("Unexpected login response: %v", result)
	}

	// Wrong password
	body, _ = json.Marshal(map[string]string{"username": "admin", "password": "nope"})
	req = httptest.NewRequest("POST", "/api/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = env.app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 401)
}

// TestAuthGuard verifies guarded routes reject missing or bad tokens
func TestAuthGuard(t *testing.T) {
	env := setupApp(t)

	req := httptest.NewRequest("GET", "/api/projects/1", nil)
	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 401)

	req = httptest.NewRequest("GET", "/api/projects/1", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err = env.app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 401)

	// Documents list is public
	req = httptest.NewRequest("GET", "/api/documents", nil)
	resp, err = env.app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 200)
}

// TestUploadAndAnalyze verifies the upload + analyze flow end to end
// over HTTP with stub oracles
func TestUploadAndAnalyze(t *testing.T) {
	env := setupApp(t)

	env.ext.result = &extraction.Result{
		ProjectMetadata: extraction.ProjectMetadata{Name: strPtr("Acme HQ Fit-Out")},
		Spaces: types.FlexList[extraction.SpaceRequirements]{
			{
				RoomType: "Kitchen",
				Items: types.FlexList[extraction.ItemRequirement]{
					{Name: strPtr("Refrigerator"), Category: "Appliance", Confidence: types.NewFlexFloat64(0.8)},
				},
			},
		},
	}

	// Multipart upload
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "acme_rfp.txt")
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte("Fit out the Acme HQ kitchen.")); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest("POST", "/api/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+env.token)
	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 200)

	var uploadResult struct {
		DocumentID uint64 `json:"document_id"`
	}
	helpers.ParseJSON(t, resp, &uploadResult)
	if uploadResult.DocumentID == 0 {
		t.Fatal("Expected a document id")
	}

	// Analyze
	req = httptest.NewRequest("POST", "/api/documents/1/analyze", nil)
	req.Header.Set("Authorization", "Bearer "+env.token)
	resp, err = env.app.Test(req, 10000)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 200)

	var analyzeResult struct {
		Data services.ProjectAnalysis `json:"data"`
	}
	helpers.ParseJSON(t, resp, &analyzeResult)
	if analyzeResult.Data.Name != "Acme HQ Fit-Out" {
		t.Errorf("Expected project name in analysis, got %q", analyzeResult.Data.Name)
	}
	if len(analyzeResult.Data.Spaces) != 1 {
		t.Errorf("Expected 1 space, got %d", len(analyzeResult.Data.Spaces))
	}
}

// TestAnalyzeUnsupportedFormat verifies 422 for unparseable documents
func TestAnalyzeUnsupportedFormat(t *testing.T) {
	env := setupApp(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "brief.docx")
	if err := os.WriteFile(path, []byte("binary"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	env.db.Create(&models.Document{Filename: "brief.docx", FilePath: &path})

	req := httptest.NewRequest("POST", "/api/documents/1/analyze", nil)
	req.Header.Set("Authorization", "Bearer "+env.token)
	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 422)
}

// TestUpdateRequirementRejectsUnknownFields verifies the PATCH allow-list
func TestUpdateRequirementRejectsUnknownFields(t *testing.T) {
	env := setupApp(t)

	project := helpers.CreateTestProject(t, env.db, "Acme HQ Fit-Out")
	space := helpers.CreateTestSpace(t, env.db, project.ID, "Kitchen")
	item := helpers.CreateTestItem(t, env.db, space.ID, "Refrigerator", "Appliance")

	// Unknown key is rejected, not silently dropped
	body := []byte(`{"name": "Fridge", "space_id": 999}`)
	req := httptest.NewRequest("PATCH", "/api/projects/1/requirements/1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+env.token)
	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 400)

	var unchanged models.Item
	env.db.First(&unchanged, item.ID)
	if unchanged.Name != "Refrigerator" {
		t.Errorf("Expected rejected patch to change nothing, got %q", unchanged.Name)
	}

	// Valid tri-state patch
	body = []byte(`{"is_accepted": true}`)
	req = httptest.NewRequest("PATCH", "/api/projects/1/requirements/1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+env.token)
	resp, err = env.app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 200)

	var result map[string]interface{}
	helpers.ParseJSON(t, resp, &result)
	if result["is_accepted"] != true {
		t.Errorf("Expected is_accepted true in response, got %v", result["is_accepted"])
	}
}

// TestPromptAdd verifies the prompt-add route with a stub proposer
func TestPromptAdd(t *testing.T) {
	env := setupApp(t)

	project := helpers.CreateTestProject(t, env.db, "Acme HQ Fit-Out")
	helpers.CreateTestSpace(t, env.db, project.ID, "Kitchen")

	env.prop.spaces = []extraction.SpaceRequirements{
		{
			RoomType: "kitchen",
			Items: types.FlexList[extraction.ItemRequirement]{
				{Name: strPtr("Dishwasher"), Category: "Appliance"},
			},
		},
	}

	body := []byte(`{"prompt": "add a dishwasher"}`)
	req := httptest.NewRequest("POST", "/api/projects/1/prompt-add", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+env.token)
	resp, err := env.app.Test(req, 10000)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 200)

	var result services.MergeResult
	helpers.ParseJSON(t, resp, &result)
	if len(result.CreatedSpaceIDs) != 0 || len(result.CreatedItemIDs) != 1 {
		t.Errorf("Unexpected merge result: %+v", result)
	}

	// Missing prompt
	req = httptest.NewRequest("POST", "/api/projects/1/prompt-add", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+env.token)
	resp, err = env.app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 400)
}

// TestExportFormats verifies json and csv export over HTTP
func TestExportFormats(t *testing.T) {
	env := setupApp(t)

	project := helpers.CreateTestProject(t, env.db, "Acme HQ Fit-Out")
	space := helpers.CreateTestSpace(t, env.db, project.ID, "Kitchen")
	item := helpers.CreateTestItem(t, env.db, space.ID, "Refrigerator", "Appliance")
	env.db.Model(item).Update("is_accepted", true)
	helpers.CreateTestItem(t, env.db, space.ID, "Bar Stool", "Furniture")

	req := httptest.NewRequest("GET", "/api/projects/1/export", nil)
	req.Header.Set("Authorization", "Bearer "+env.token)
	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 200)

	var analysis services.ProjectAnalysis
	helpers.ParseJSON(t, resp, &analysis)
	if len(analysis.Spaces) != 1 || len(analysis.Spaces[0].Items) != 1 {
		t.Errorf("Expected only accepted items in export, got %+v", analysis.Spaces)
	}

	req = httptest.NewRequest("GET", "/api/projects/1/export?format=csv", nil)
	req.Header.Set("Authorization", "Bearer "+env.token)
	resp, err = env.app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 200)

	var csvResult map[string]string
	helpers.ParseJSON(t, resp, &csvResult)
	if !bytes.Contains([]byte(csvResult["csv"]), []byte("Refrigerator")) {
		t.Errorf("Expected accepted item in csv, got %q", csvResult["csv"])
	}

	req = httptest.NewRequest("GET", "/api/projects/1/export?format=xml", nil)
	req.Header.Set("Authorization", "Bearer "+env.token)
	resp, err = env.app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 400)
}

// TestProjectNotFound verifies the 404 envelope
func TestProjectNotFound(t *testing.T) {
	env := setupApp(t)

	req := httptest.NewRequest("GET", "/api/projects/99", nil)
	req.Header.Set("Authorization", "Bearer "+env.token)
	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 404)
}
