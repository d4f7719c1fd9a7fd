package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bompricing/hooks"
	"bompricing/services"
	"bompricing/testhelpers"
)

func TestHandleBOMList_All(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	hooks.Bind(app)
	testhelpers.CreateTestCurrency(t, app, "INR", 1)
	tpl := testhelpers.CreateTestTemplate(t, app, "Panel", 100, 0)
	product := testhelpers.CreateTestProduct(t, app, tpl.Id, "Panel 60x60")

	testhelpers.CreateTestBOM(t, app, map[string]any{"template": tpl.Id, "product": product.Id})
	testhelpers.CreateTestBOM(t, app, map[string]any{"template": tpl.Id, "product": product.Id})

	req := httptest.NewRequest(http.MethodGet, "/boms", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleBOMList(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	items := resp["items"].([]any)
	if len(items) != 2 {
		t.Errorf("expected 2 BOMs, got %d", len(items))
	}
}

func TestHandleBOMList_JustWorked(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	hooks.Bind(app)
	testhelpers.CreateTestCurrency(t, app, "INR", 1)
	tpl := testhelpers.CreateTestTemplate(t, app, "Panel", 100, 0)
	product := testhelpers.CreateTestProduct(t, app, tpl.Id, "Panel 60x60")

	// Creating a second BOM for the same product deactivates the first.
	testhelpers.CreateTestBOM(t, app, map[string]any{"template": tpl.Id, "product": product.Id})
	active := testhelpers.CreateTestBOM(t, app, map[string]any{"template": tpl.Id, "product": product.Id})

	req := httptest.NewRequest(http.MethodGet, "/boms?just_worked=1", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleBOMList(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	items := resp["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected 1 active BOM, got %d", len(items))
	}
	if items[0].(map[string]any)["id"] != active.Id {
		t.Errorf("wrong BOM returned as active")
	}
}

func TestHandleBOMFind_ByProduct(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	hooks.Bind(app)
	testhelpers.CreateTestCurrency(t, app, "INR", 1)
	tpl := testhelpers.CreateTestTemplate(t, app, "Panel", 100, 0)
	product := testhelpers.CreateTestProduct(t, app, tpl.Id, "Panel 60x60")

	bom, err := services.CreateBOM(app, services.BOMInput{
		TemplateID: tpl.Id, ProductID: product.Id, Code: "F1",
	}, services.CreateOptions{})
	if err != nil {
		t.Fatalf("CreateBOM() error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/boms/find?product="+product.Id+"&just_worked=1", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleBOMFind(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["id"] != bom.Id {
		t.Errorf("id = %v, want %v", resp["id"], bom.Id)
	}
}

func TestHandleBOMFind_NoMatch(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/boms/find?product=missing", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleBOMFind(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
