package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"bompricing/services"
)

type bomCreateRequest struct {
	Template    string  `json:"template"`
	Product     string  `json:"product"`
	Type        string  `json:"type"`
	Code        string  `json:"code"`
	Pricelist   string  `json:"pricelist"`
	PricingMode string  `json:"pricing_mode"`
	Quantity    float64 `json:"quantity"`
	UOM         string  `json:"uom"`
	Company     string  `json:"company"`
}

// HandleBOMCreate returns a handler that inserts a new BOM header.
// The new_product_variant and default_name execution flags arrive as query
// parameters; variant synthesis failure aborts the whole creation.
func HandleBOMCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req bomCreateRequest
		if err := json.NewDecoder(e.Request.Body).Decode(&req); err != nil {
			log.Printf("bom_create: could not decode body: %v", err)
			return e.String(http.StatusBadRequest, "Invalid request body")
		}

		if req.Template == "" {
			return e.String(http.StatusBadRequest, "template is required")
		}

		query := e.Request.URL.Query()
		opts := services.CreateOptions{
			NewProductVariant: query.Get("new_product_variant") == "1",
			DefaultCode:       query.Get("default_name"),
		}

		record, err := services.CreateBOM(app, services.BOMInput{
			TemplateID:  req.Template,
			ProductID:   req.Product,
			Type:        req.Type,
			Code:        req.Code,
			PricelistID: req.Pricelist,
			PricingMode: req.PricingMode,
			Quantity:    req.Quantity,
			UOMID:       req.UOM,
			Company:     req.Company,
		}, opts)
		if err != nil {
			log.Printf("bom_create: %v", err)
			return e.String(http.StatusInternalServerError, "Could not create BOM")
		}

		return e.JSON(http.StatusCreated, bomJSON(record))
	}
}

// bomJSON is the header representation returned by the BOM endpoints.
func bomJSON(record *core.Record) map[string]any {
	return map[string]any{
		"id":                      record.Id,
		"template":                record.GetString("template"),
		"product":                 record.GetString("product"),
		"type":                    record.GetString("type"),
		"code":                    record.GetString("code"),
		"worked":                  record.GetBool("worked"),
		"pricelist":               record.GetString("pricelist"),
		"pricing_mode":            record.GetString("pricing_mode"),
		"quantity":                record.GetFloat("quantity"),
		"uom":                     record.GetString("uom"),
		"currency":                record.GetString("currency"),
		"total_amount":            record.GetFloat("total_amount"),
		"total_installation_days": record.GetFloat("total_installation_days"),
	}
}
