package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures all collections used by the BOM
// pricing module: catalog data (templates, products, attributes), pricing
// data (currencies, pricelists, rules) and the BOM header/line collections.
func Setup(app *pocketbase.PocketBase) {
	currencies := ensureCollection(app, "currencies", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "code", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: false})
		// Units of this currency per one unit of the base currency. Not
		// required: a numeric zero counts as blank, and conversion handles
		// the zero-rate case itself.
		c.Fields.Add(&core.NumberField{Name: "rate", Required: false})
	})

	uoms := ensureCollection(app, "uoms", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
	})

	templates := ensureCollection(app, "product_templates", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:         "default_uom",
			Required:     false,
			CollectionId: uoms.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.NumberField{Name: "installation_days", Required: false})
		c.Fields.Add(&core.NumberField{Name: "list_price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "sale_tax_percent", Required: false})
		c.Fields.Add(&core.TextField{Name: "company", Required: false})
	})

	attributes := ensureCollection(app, "attributes", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
	})

	attributeValues := ensureCollection(app, "attribute_values", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "attribute",
			Required:      true,
			CollectionId:  attributes.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
	})

	ensureCollection(app, "template_attribute_lines", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "template",
			Required:      true,
			CollectionId:  templates.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "attribute",
			Required:     true,
			CollectionId: attributes.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "values",
			Required:     false,
			CollectionId: attributeValues.Id,
			MaxSelect:    999,
		})
	})

	templateAttributeValues := ensureCollection(app, "template_attribute_values", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "template",
			Required:      true,
			CollectionId:  templates.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "attribute_value",
			Required:     true,
			CollectionId: attributeValues.Id,
			MaxSelect:    1,
		})
	})

	products := ensureCollection(app, "products", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "template",
			Required:      true,
			CollectionId:  templates.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:         "attribute_values",
			Required:     false,
			CollectionId: templateAttributeValues.Id,
			MaxSelect:    999,
		})
		c.Fields.Add(&core.NumberField{Name: "extra_price", Required: false})
	})

	pricelists := ensureCollection(app, "pricelists", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:         "currency",
			Required:     true,
			CollectionId: currencies.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "company", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "discount_policy",
			Required:  true,
			Values:    []string{"with_discount", "without_discount"},
			MaxSelect: 1,
		})
	})

	pricelistRules := ensureCollection(app, "pricelist_rules", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "pricelist",
			Required:      true,
			CollectionId:  pricelists.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "applied_on",
			Required:  true,
			Values:    []string{"all", "template", "product"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "template",
			Required:     false,
			CollectionId: templates.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "product",
			Required:     false,
			CollectionId: products.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.NumberField{Name: "min_quantity", Required: false})
		c.Fields.Add(&core.DateField{Name: "date_start", Required: false})
		c.Fields.Add(&core.DateField{Name: "date_end", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "compute_price",
			Required:  true,
			Values:    []string{"fixed", "percentage", "formula"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "fixed_price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "percent_price", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "base",
			Required:  false,
			Values:    []string{"list_price", "pricelist"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "base_pricelist",
			Required:     false,
			CollectionId: pricelists.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.NumberField{Name: "price_discount", Required: false})
		c.Fields.Add(&core.NumberField{Name: "price_surcharge", Required: false})
	})

	boms := ensureCollection(app, "boms", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:         "template",
			Required:     true,
			CollectionId: templates.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "product",
			Required:     false,
			CollectionId: products.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "type",
			Required:  true,
			Values:    []string{"normal", "phantom"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "code", Required: false})
		c.Fields.Add(&core.BoolField{Name: "worked"})
		c.Fields.Add(&core.RelationField{
			Name:         "pricelist",
			Required:     false,
			CollectionId: pricelists.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "pricing_mode",
			Required:  false,
			Values:    []string{"square_meter", "component"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: false})
		c.Fields.Add(&core.RelationField{
			Name:         "uom",
			Required:     false,
			CollectionId: uoms.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.NumberField{Name: "total_installation_days", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_amount", Required: false})
		c.Fields.Add(&core.RelationField{
			Name:         "currency",
			Required:     false,
			CollectionId: currencies.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "company", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "bom_lines", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "bom",
			Required:      true,
			CollectionId:  boms.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "product",
			Required:     false,
			CollectionId: products.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: false})
		c.Fields.Add(&core.RelationField{
			Name:         "uom",
			Required:     false,
			CollectionId: uoms.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.NumberField{Name: "last_price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "estimated_installation_days", Required: false})
		c.Fields.Add(&core.RelationField{
			Name:         "pricelist_rule",
			Required:     false,
			CollectionId: pricelistRules.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.NumberField{Name: "unit_price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "price_subtotal", Required: false})
		c.Fields.Add(&core.RelationField{
			Name:         "attribute_values",
			Required:     false,
			CollectionId: templateAttributeValues.Id,
			MaxSelect:    999,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: false})
	})

	ensureCollection(app, "bom_operations", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "bom",
			Required:      true,
			CollectionId:  boms.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "duration_minutes", Required: false})
		c.Fields.Add(&core.RelationField{
			Name:         "attribute_values",
			Required:     false,
			CollectionId: templateAttributeValues.Id,
			MaxSelect:    999,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: false})
	})

	ensureCollection(app, "bom_byproducts", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "bom",
			Required:      true,
			CollectionId:  boms.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "product",
			Required:     false,
			CollectionId: products.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: false})
		c.Fields.Add(&core.RelationField{
			Name:         "attribute_values",
			Required:     false,
			CollectionId: templateAttributeValues.Id,
			MaxSelect:    999,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: false})
	})

	ensureUserFields(app)
}

// ensureUserFields adds the groups field to the default users auth collection.
func ensureUserFields(app *pocketbase.PocketBase) {
	users, err := app.FindCollectionByNameOrId("users")
	if err != nil {
		log.Fatalf("Failed to find users collection: %v", err)
	}

	changed := false
	if users.Fields.GetByName("name") == nil {
		users.Fields.Add(&core.TextField{Name: "name", Required: false})
		changed = true
	}
	if users.Fields.GetByName("groups") == nil {
		users.Fields.Add(&core.SelectField{
			Name:      "groups",
			Required:  false,
			Values:    []string{"sales_manager", "sales_user", "mrp_user"},
			MaxSelect: 3,
		})
		changed = true
	}

	if changed {
		if err := app.Save(users); err != nil {
			log.Fatalf("Failed to update users collection: %v", err)
		}
	}
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
