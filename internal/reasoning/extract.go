package reasoning

import "encoding/json"

// recommendationPayload is the structured shape the oracle is asked to
// produce. Only the supplier name is mandatory; the rest of the fields
// default to safe placeholders.
type recommendationPayload struct {
	Supplier     string `json:"supplier"`
	SupplierName string `json:"supplierName"`
	Reasoning    string `json:"reasoning"`
	RiskLevel    string `json:"riskLevel"`
}

// ExtractJSON returns the first balanced {...} object embedded in free
// text, tolerating surrounding prose and markdown fences. Braces inside
// JSON strings do not affect the balance count.
func ExtractJSON(text string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if start >= 0 {
				inString = true
			}
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start >= 0 {
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		}
	}
	return "", false
}

// parseRecommendation extracts and decodes a recommendation object from
// oracle free text. The oracle is under no obligation to satisfy the
// shape, so a false return is an expected outcome, not an error.
func parseRecommendation(text string) (recommendationPayload, bool) {
	raw, ok := ExtractJSON(text)
	if !ok {
		return recommendationPayload{}, false
	}

	var payload recommendationPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return recommendationPayload{}, false
	}

	if payload.Supplier == "" {
		payload.Supplier = payload.SupplierName
	}
	if payload.Supplier == "" {
		return recommendationPayload{}, false
	}
	return payload, true
}
