package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
)

// BOMInput carries the user-supplied fields for a new BOM header.
type BOMInput struct {
	TemplateID  string
	ProductID   string
	Type        string
	Code        string
	PricelistID string
	PricingMode string
	Quantity    float64
	UOMID       string
	Company     string
}

// CreateOptions are the execution-context flags of the creation flow.
type CreateOptions struct {
	// NewProductVariant asks for a fresh product variant to be synthesized
	// from the BOM code and assigned as the BOM's product.
	NewProductVariant bool
	// DefaultCode supplies the code when the input leaves it empty.
	DefaultCode string
}

// CreateBOM inserts a BOM header. Variant synthesis (when requested), the
// sibling flip and the insert run in one transaction, so a failed step
// aborts the whole creation and at most one worked BOM per product/type
// survives.
func CreateBOM(app core.App, input BOMInput, opts CreateOptions) (*core.Record, error) {
	if input.Type == "" {
		input.Type = "normal"
	}
	if input.Code == "" && opts.DefaultCode != "" {
		input.Code = opts.DefaultCode
	}

	col, err := app.FindCollectionByNameOrId("boms")
	if err != nil {
		return nil, fmt.Errorf("find boms collection: %w", err)
	}

	record := core.NewRecord(col)

	err = app.RunInTransaction(func(txApp core.App) error {
		productID := input.ProductID
		if opts.NewProductVariant {
			synthesized, err := SynthesizeVariant(txApp, input.TemplateID, input.Code)
			if err != nil {
				return fmt.Errorf("synthesize variant: %w", err)
			}
			productID = synthesized
		}

		record.Set("template", input.TemplateID)
		record.Set("product", productID)
		record.Set("type", input.Type)
		record.Set("code", input.Code)
		record.Set("pricelist", input.PricelistID)
		record.Set("pricing_mode", input.PricingMode)
		record.Set("quantity", input.Quantity)
		record.Set("uom", input.UOMID)
		record.Set("company", input.Company)
		record.Set("worked", true)

		if err := DeactivateSiblings(txApp, record); err != nil {
			return err
		}
		return txApp.Save(record)
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// DeactivateSiblings flips worked off on every other active BOM sharing the
// record's product and type. Run it inside the same transaction as the save
// that activates the record.
func DeactivateSiblings(app core.App, record *core.Record) error {
	productID := record.GetString("product")
	bomType := record.GetString("type")
	if bomType == "" {
		bomType = "normal"
	}

	filter := "product = {:product} && type = {:type} && worked = true"
	params := map[string]any{"product": productID, "type": bomType}
	if record.Id != "" {
		filter += " && id != {:id}"
		params["id"] = record.Id
	}

	siblings, err := app.FindRecordsByFilter("boms", filter, "", 0, 0, params)
	if err != nil {
		return fmt.Errorf("find active boms: %w", err)
	}

	for _, sibling := range siblings {
		sibling.Set("worked", false)
		if err := app.Save(sibling); err != nil {
			return fmt.Errorf("deactivate bom %s: %w", sibling.Id, err)
		}
	}
	return nil
}

// ActiveBOMFilter builds the BOM lookup predicate. Under the just-worked
// flag the result is additionally restricted to the currently active BOM.
func ActiveBOMFilter(productID, templateID, bomType, company string, justWorked bool) (string, map[string]any) {
	filter := "type = {:type}"
	params := map[string]any{"type": bomType}

	if productID != "" {
		filter += " && product = {:product}"
		params["product"] = productID
	}
	if templateID != "" {
		filter += " && template = {:template}"
		params["template"] = templateID
	}
	if company != "" {
		filter += " && (company = '' || company = {:company})"
		params["company"] = company
	}
	if justWorked {
		filter += " && worked = true"
	}

	return filter, params
}

// FindBOM looks up the most recent BOM matching the predicate.
func FindBOM(app core.App, productID, templateID, bomType, company string, justWorked bool) (*core.Record, error) {
	if bomType == "" {
		bomType = "normal"
	}
	filter, params := ActiveBOMFilter(productID, templateID, bomType, company, justWorked)

	records, err := app.FindRecordsByFilter("boms", filter, "-created", 1, 0, params)
	if err != nil {
		return nil, fmt.Errorf("find bom: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}
