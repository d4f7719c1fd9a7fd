package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bompricing/hooks"
	"bompricing/testhelpers"
)

func TestHandleBOMCreate_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	hooks.Bind(app)
	testhelpers.CreateTestCurrency(t, app, "INR", 1)
	tpl := testhelpers.CreateTestTemplate(t, app, "Panel", 100, 0)
	product := testhelpers.CreateTestProduct(t, app, tpl.Id, "Panel 60x60")

	body := `{"template":"` + tpl.Id + `","product":"` + product.Id + `","code":"B1"}`
	req := httptest.NewRequest(http.MethodPost, "/boms", strings.NewReader(body))
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleBOMCreate(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["code"] != "B1" {
		t.Errorf("code = %v, want B1", resp["code"])
	}
	if resp["worked"] != true {
		t.Errorf("new BOM should be active, got worked = %v", resp["worked"])
	}
}

func TestHandleBOMCreate_VariantFlag(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	hooks.Bind(app)
	testhelpers.CreateTestCurrency(t, app, "INR", 1)
	tpl := testhelpers.CreateTestTemplate(t, app, "Panel", 100, 0)

	body := `{"template":"` + tpl.Id + `","code":"B77"}`
	req := httptest.NewRequest(http.MethodPost, "/boms?new_product_variant=1", strings.NewReader(body))
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleBOMCreate(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	productID, _ := resp["product"].(string)
	if productID == "" {
		t.Fatal("expected a synthesized product on the response")
	}
	product, err := app.FindRecordById("products", productID)
	if err != nil {
		t.Fatalf("failed to load synthesized product: %v", err)
	}
	if got := product.GetString("name"); got != "Panel - B77" {
		t.Errorf("variant name = %q, want %q", got, "Panel - B77")
	}
}

func TestHandleBOMCreate_DefaultNameFlag(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	hooks.Bind(app)
	testhelpers.CreateTestCurrency(t, app, "INR", 1)
	tpl := testhelpers.CreateTestTemplate(t, app, "Panel", 100, 0)

	body := `{"template":"` + tpl.Id + `"}`
	req := httptest.NewRequest(http.MethodPost, "/boms?default_name=CTX-5", strings.NewReader(body))
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleBOMCreate(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["code"] != "CTX-5" {
		t.Errorf("code = %v, want the context default CTX-5", resp["code"])
	}
}

func TestHandleBOMCreate_MissingTemplate(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/boms", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleBOMCreate(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleBOMCreate_InvalidBody(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/boms", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleBOMCreate(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
