// internal/flows/recommendation/models.go
package recommendation

import (
	"encoding/json"

	"customer-insights/internal/common/validation"
	"customer-insights/internal/view"
)

const MsgRequestFailed = "Failed to fetch recommendations"

// Result is either Informational or Recommendations.
type Result interface {
	// Entries renders the result as list entries, preserving server order.
	Entries() []view.Entry
	isResult()
}

// Informational carries a backend message in place of recommendations,
// for example "No recommendations found for this product.".
type Informational struct {
	Message string
}

// Recommendations is the ordered list of related products.
type Recommendations struct {
	InputProduct string
	Items        []Item
}

// Item keeps the confidence score as the literal the server sent.
type Item struct {
	Product         string      `json:"product"`
	ConfidenceScore json.Number `json:"confidence_score"`
}

func (Informational) isResult()   {}
func (Recommendations) isResult() {}

func (i Informational) Entries() []view.Entry {
	return []view.Entry{{Text: i.Message, Informational: true}}
}

func (r Recommendations) Entries() []view.Entry {
	entries := make([]view.Entry, 0, len(r.Items))
	for _, item := range r.Items {
		entries = append(entries, view.Entry{
			Text:  item.Product,
			Score: item.ConfidenceScore.String(),
		})
	}
	return entries
}

// payload is the untagged wire shape.
type payload struct {
	Message         *string `json:"message"`
	InputProduct    string  `json:"input_product"`
	Recommendations []Item  `json:"recommendations"`
}

// decode picks the variant by field presence: a non-empty message wins,
// otherwise the recommendations array is used. A null message counts as absent.
func (p payload) decode() Result {
	if p.Message != nil && *p.Message != "" {
		return Informational{Message: *p.Message}
	}
	return Recommendations{InputProduct: p.InputProduct, Items: p.Recommendations}
}

var recommendationSchema = validation.MustCompile("recommendation", `{
	"type": "object",
	"properties": {
		"message": {"type": ["string", "null"]},
		"input_product": {"type": "string"},
		"recommendations": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["product", "confidence_score"],
				"properties": {
					"product": {"type": "string"},
					"confidence_score": {"type": "number"}
				}
			}
		}
	},
	"anyOf": [
		{"required": ["message"], "properties": {"message": {"type": "string", "minLength": 1}}},
		{"required": ["recommendations"]}
	]
}`)
