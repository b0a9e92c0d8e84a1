package barcode

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pharmtrack/pharmtrack-backend/internal/ai"
	"github.com/pharmtrack/pharmtrack-backend/pkg/logger"
)

// ResultKind tags how a barcode was resolved
type ResultKind string

const (
	// ResultFound means the UPC database knew the barcode. Details may
	// additionally carry AI enrichment.
	ResultFound ResultKind = "found"
	// ResultAIGuessed means the database had nothing and the details are an
	// AI guess. Confidence applies.
	ResultAIGuessed ResultKind = "ai_guessed"
	// ResultNotFound means every lookup avenue failed.
	ResultNotFound ResultKind = "not_found"
)

// FlexString unmarshals from either a JSON string or number. Model output is
// inconsistent about quoting numeric fields.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("value is neither string nor number: %s", data)
	}
	*f = FlexString(n.String())
	return nil
}

// MedicineDetails is the merged view of a resolved barcode: database fields
// plus whatever the model added.
type MedicineDetails struct {
	Barcode     string   `json:"barcode"`
	ProductName string   `json:"product_name,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Images      []string `json:"images,omitempty"`

	IsMedicine            *bool      `json:"is_medicine,omitempty"`
	Name                  string     `json:"name,omitempty"`
	EstimatedPrice        FlexString `json:"estimated_price,omitempty"`
	SuggestedReorderPoint FlexString `json:"suggested_reorder_point,omitempty"`
	StorageRequirements   string     `json:"storage_requirements,omitempty"`
	CommonDosage          string     `json:"common_dosage,omitempty"`
	SafetyNotes           string     `json:"safety_notes,omitempty"`

	LikelyMedicine  *bool  `json:"likely_medicine,omitempty"`
	BarcodeType     string `json:"barcode_type,omitempty"`
	Confidence      string `json:"confidence,omitempty"`
	Recommendations string `json:"recommendations,omitempty"`

	// AIAnalysis carries the raw model text when its JSON could not be parsed
	AIAnalysis string `json:"ai_analysis,omitempty"`
}

// Result is a resolved barcode. Details is nil only when Kind is ResultNotFound.
type Result struct {
	Kind    ResultKind       `json:"kind"`
	Details *MedicineDetails `json:"details,omitempty"`
}

// Resolver turns scanned barcodes into medicine details using a UPC database
// first and the completion model as fallback and enrichment
type Resolver struct {
	products  *ProductClient
	completer ai.Completer
	logger    *logger.Logger
}

// NewResolver creates a barcode resolver
func NewResolver(products *ProductClient, completer ai.Completer, log *logger.Logger) *Resolver {
	return &Resolver{
		products:  products,
		completer: completer,
		logger:    log.WithComponent("barcode-resolver"),
	}
}

// Resolve runs the lookup chain for a barcode. It never returns an error for
// a merely unidentifiable code; failures degrade step by step down to
// ResultNotFound.
func (r *Resolver) Resolve(ctx context.Context, code string) *Result {
	product, err := r.products.Lookup(ctx, code)
	if err != nil {
		r.logger.Warn().Err(err).Str("barcode", code).Msg("basic barcode lookup failed")
		product = nil
	}

	if product != nil && product.Name != "" {
		return &Result{Kind: ResultFound, Details: r.enhance(ctx, product)}
	}

	return r.aiLookup(ctx, code)
}

const enhancePersona = "You are a pharmaceutical expert analyzing products for pharmacy inventory management. " +
	"Provide accurate, structured information."

// enhance asks the model for pharmacy details about a known product. Any
// failure falls back to the plain database fields.
func (r *Resolver) enhance(ctx context.Context, product *Product) *MedicineDetails {
	details := &MedicineDetails{
		Barcode:     product.Barcode,
		ProductName: product.Name,
		Brand:       product.Brand,
		Description: product.Description,
		Category:    product.Category,
		Images:      product.Images,
	}

	prompt := fmt.Sprintf(`Based on the product name "%s", provide detailed pharmacy inventory information.
Analyze if this is a pharmaceutical product and provide the following in JSON format:

{
	"is_medicine": true/false,
	"name": "standardized medicine name",
	"category": "medicine category (Prescription/Over-the-counter/etc.)",
	"estimated_price": "estimated unit price in USD",
	"suggested_reorder_point": "suggested reorder quantity",
	"storage_requirements": "storage conditions",
	"common_dosage": "common dosage information",
	"safety_notes": "important safety considerations"
}

If this is not a medicine, set is_medicine to false and provide basic product info.`, product.Name)

	reply, err := r.completer.Complete(ctx, enhancePersona, prompt)
	if err != nil {
		r.logger.Warn().Err(err).Str("barcode", product.Barcode).Msg("ai enhancement failed")
		return details
	}

	var enrichment MedicineDetails
	if !ai.ExtractJSON(reply, &enrichment) {
		details.AIAnalysis = reply
		return details
	}

	mergeEnrichment(details, &enrichment)
	return details
}

// mergeEnrichment overlays model fields onto the database record. Model
// values win where present.
func mergeEnrichment(details, enrichment *MedicineDetails) {
	details.IsMedicine = enrichment.IsMedicine
	details.EstimatedPrice = enrichment.EstimatedPrice
	details.SuggestedReorderPoint = enrichment.SuggestedReorderPoint
	details.StorageRequirements = enrichment.StorageRequirements
	details.CommonDosage = enrichment.CommonDosage
	details.SafetyNotes = enrichment.SafetyNotes
	if enrichment.Name != "" {
		details.Name = enrichment.Name
	}
	if enrichment.Category != "" {
		details.Category = enrichment.Category
	}
}

const aiLookupPersona = "You are a pharmaceutical barcode expert helping pharmacy staff identify products " +
	"from barcode scans."

// aiLookup asks the model to identify a barcode the database did not know
func (r *Resolver) aiLookup(ctx context.Context, code string) *Result {
	prompt := fmt.Sprintf(`A barcode scan returned the code: %s

Please analyze this barcode and provide medicine information if possible.
Common barcode formats for medicines include:
- UPC/EAN codes for over-the-counter medicines
- NDC (National Drug Code) for prescription medicines
- GTIN for pharmaceutical products

Provide the following information in JSON format:
{
	"barcode": "%s",
	"likely_medicine": true/false,
	"product_name": "best guess product name",
	"category": "estimated category",
	"barcode_type": "UPC/EAN/NDC/GTIN/Unknown",
	"confidence": "high/medium/low",
	"recommendations": "suggestions for pharmacy staff"
}

If you cannot identify the product, indicate low confidence and suggest manual entry.`, code, code)

	reply, err := r.completer.Complete(ctx, aiLookupPersona, prompt)
	if err != nil {
		r.logger.Warn().Err(err).Str("barcode", code).Msg("ai barcode lookup failed")
		return &Result{Kind: ResultNotFound}
	}

	var details MedicineDetails
	if ai.ExtractJSON(reply, &details) {
		details.Barcode = code
		return &Result{Kind: ResultAIGuessed, Details: &details}
	}

	notMedicine := false
	return &Result{
		Kind: ResultAIGuessed,
		Details: &MedicineDetails{
			Barcode:        code,
			ProductName:    "Unknown Product",
			LikelyMedicine: &notMedicine,
			Confidence:     "low",
			AIAnalysis:     strings.TrimSpace(reply),
		},
	}
}
