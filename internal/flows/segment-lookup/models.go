// internal/flows/segment-lookup/models.go
package segmentlookup

import (
	"encoding/json"

	"customer-insights/internal/common/validation"
)

// Messages shown to the user for each failure class.
const (
	MsgNotFound      = "Customer not found"
	MsgRequestFailed = "API Error"
)

// SegmentResult is the backend answer for one customer.
type SegmentResult struct {
	CustomerID json.RawMessage `json:"customer_id,omitempty"`
	Segment    string          `json:"segment"`
}

var segmentSchema = validation.MustCompile("segment", `{
	"type": "object",
	"required": ["segment"],
	"properties": {
		"segment": {"type": "string"}
	}
}`)
