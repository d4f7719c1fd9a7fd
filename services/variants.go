package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
)

// bomAttributeName is the attribute under which synthesized BOM variants
// are grouped on the product template.
const bomAttributeName = "BOM"

// SynthesizeVariant creates a product variant for a freshly coded BOM:
// a "BOM" attribute is found or created, a new attribute value named after
// the BOM code is minted and attached to the template's attribute line
// (prepended when the line already exists), and the variant carrying the
// resulting template-scoped value is resolved or created. The new
// product's id is returned so the caller can assign it onto the BOM.
//
// Any failure propagates unchanged; run inside the creation transaction so
// a failed synthesis aborts the whole BOM insert.
func SynthesizeVariant(app core.App, templateID, code string) (string, error) {
	template, err := app.FindRecordById("product_templates", templateID)
	if err != nil {
		return "", fmt.Errorf("find template %s: %w", templateID, err)
	}

	attr, err := findOrCreateBOMAttribute(app)
	if err != nil {
		return "", err
	}

	valuesCol, err := app.FindCollectionByNameOrId("attribute_values")
	if err != nil {
		return "", fmt.Errorf("find attribute_values collection: %w", err)
	}
	value := core.NewRecord(valuesCol)
	value.Set("attribute", attr.Id)
	value.Set("name", code)
	if err := app.Save(value); err != nil {
		return "", fmt.Errorf("create attribute value %q: %w", code, err)
	}

	if err := attachValueToTemplateLine(app, templateID, attr.Id, value.Id); err != nil {
		return "", err
	}

	templateValue, err := resolveTemplateAttributeValue(app, templateID, value.Id)
	if err != nil {
		return "", err
	}

	return variantForCombination(app, template, templateValue, code)
}

func findOrCreateBOMAttribute(app core.App) (*core.Record, error) {
	existing, err := app.FindRecordsByFilter("attributes", "name = {:n}", "", 1, 0, map[string]any{"n": bomAttributeName})
	if err != nil {
		return nil, fmt.Errorf("find BOM attribute: %w", err)
	}
	if len(existing) > 0 {
		return existing[0], nil
	}

	col, err := app.FindCollectionByNameOrId("attributes")
	if err != nil {
		return nil, fmt.Errorf("find attributes collection: %w", err)
	}
	attr := core.NewRecord(col)
	attr.Set("name", bomAttributeName)
	if err := app.Save(attr); err != nil {
		return nil, fmt.Errorf("create BOM attribute: %w", err)
	}
	return attr, nil
}

// attachValueToTemplateLine puts the new value onto the template's
// attribute line for the BOM attribute, creating the line when missing and
// prepending to the existing value set otherwise.
func attachValueToTemplateLine(app core.App, templateID, attributeID, valueID string) error {
	lines, err := app.FindRecordsByFilter(
		"template_attribute_lines",
		"template = {:t} && attribute = {:a}",
		"", 1, 0,
		map[string]any{"t": templateID, "a": attributeID},
	)
	if err != nil {
		return fmt.Errorf("find template attribute line: %w", err)
	}

	if len(lines) == 0 {
		col, err := app.FindCollectionByNameOrId("template_attribute_lines")
		if err != nil {
			return fmt.Errorf("find template_attribute_lines collection: %w", err)
		}
		line := core.NewRecord(col)
		line.Set("template", templateID)
		line.Set("attribute", attributeID)
		line.Set("values", []string{valueID})
		if err := app.Save(line); err != nil {
			return fmt.Errorf("create template attribute line: %w", err)
		}
		return nil
	}

	line := lines[0]
	line.Set("values", append([]string{valueID}, line.GetStringSlice("values")...))
	if err := app.Save(line); err != nil {
		return fmt.Errorf("update template attribute line: %w", err)
	}
	return nil
}

// resolveTemplateAttributeValue returns the template-scoped record for the
// (template, attribute value) pair, creating it when absent.
func resolveTemplateAttributeValue(app core.App, templateID, valueID string) (*core.Record, error) {
	existing, err := app.FindRecordsByFilter(
		"template_attribute_values",
		"template = {:t} && attribute_value = {:v}",
		"", 1, 0,
		map[string]any{"t": templateID, "v": valueID},
	)
	if err != nil {
		return nil, fmt.Errorf("find template attribute value: %w", err)
	}
	if len(existing) > 0 {
		return existing[0], nil
	}

	col, err := app.FindCollectionByNameOrId("template_attribute_values")
	if err != nil {
		return nil, fmt.Errorf("find template_attribute_values collection: %w", err)
	}
	tav := core.NewRecord(col)
	tav.Set("template", templateID)
	tav.Set("attribute_value", valueID)
	if err := app.Save(tav); err != nil {
		return nil, fmt.Errorf("create template attribute value: %w", err)
	}
	return tav, nil
}

// variantForCombination fetches or creates the product variant carrying the
// template attribute value.
func variantForCombination(app core.App, template, templateValue *core.Record, code string) (string, error) {
	variants, err := app.FindRecordsByFilter(
		"products",
		"template = {:t} && attribute_values ~ {:v}",
		"", 1, 0,
		map[string]any{"t": template.Id, "v": templateValue.Id},
	)
	if err != nil {
		return "", fmt.Errorf("find existing variant: %w", err)
	}
	if len(variants) > 0 {
		return variants[0].Id, nil
	}

	col, err := app.FindCollectionByNameOrId("products")
	if err != nil {
		return "", fmt.Errorf("find products collection: %w", err)
	}
	product := core.NewRecord(col)
	product.Set("template", template.Id)
	product.Set("name", fmt.Sprintf("%s - %s", template.GetString("name"), code))
	product.Set("attribute_values", []string{templateValue.Id})
	if err := app.Save(product); err != nil {
		return "", fmt.Errorf("create variant product: %w", err)
	}
	return product.Id, nil
}
