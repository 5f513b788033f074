package extractor

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
)

// scriptBlockRe locates embedded JSON-LD product metadata without pulling
// in a full HTML parser; malformed blocks are simply skipped.
var scriptBlockRe = regexp.MustCompile(`(?is)<script[^>]*type\s*=\s*["'][^"']*ld\+json[^"']*["'][^>]*>(.*?)</script>`)

// priceKeys are checked in this order inside each metadata object.
var priceKeys = []string{"price", "priceAmount", "lowPrice", "highPrice"}

// jsonldCandidates reads price fields out of schema.org-style script
// blocks, in block order.
func jsonldCandidates(content string) []candidate {
	var out []candidate
	for _, m := range scriptBlockRe.FindAllStringSubmatch(content, -1) {
		var data interface{}
		if err := json.Unmarshal([]byte(m[1]), &data); err != nil {
			continue
		}
		walkJSON(data, &out)
	}
	return out
}

// walkJSON descends maps and arrays collecting price-keyed values.
// Map recursion is done in sorted key order so repeated runs over the
// same block produce the same candidate order.
func walkJSON(node interface{}, out *[]candidate) {
	switch v := node.(type) {
	case map[string]interface{}:
		for _, key := range priceKeys {
			raw, ok := v[key]
			if !ok {
				continue
			}
			if c, ok := jsonldPrice(raw); ok {
				*out = append(*out, c)
			}
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			walkJSON(v[k], out)
		}
	case []interface{}:
		for _, item := range v {
			walkJSON(item, out)
		}
	}
}

// jsonldPrice coerces a metadata value (number or numeric string) into a
// candidate. Structured metadata is price-labeled by definition.
func jsonldPrice(raw interface{}) (candidate, bool) {
	var token string
	switch t := raw.(type) {
	case string:
		token = stripSeparators(t)
	case float64:
		token = fmt.Sprintf("%g", t)
	default:
		return candidate{}, false
	}
	p, ok := normalizePrice(token)
	if !ok {
		return candidate{}, false
	}
	return candidate{price: p, snippet: token, labeled: true}, true
}
