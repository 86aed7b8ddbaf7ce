package payments

import "strings"

// referenceAliases lists every field name provider SDK versions have used
// for the transaction reference, in precedence order.
var referenceAliases = []string{"reference", "trxref", "trans", "transaction", "txref"}

// ExtractReference pulls the transaction reference out of a provider
// callback payload, accepting the declared aliases. Returns false when no
// alias holds a non-empty string.
func ExtractReference(payload map[string]any) (string, bool) {
	if payload == nil {
		return "", false
	}
	for _, key := range referenceAliases {
		if v, ok := payload[key]; ok {
			if str, _ := v.(string); strings.TrimSpace(str) != "" {
				return strings.TrimSpace(str), true
			}
		}
	}
	return "", false
}
