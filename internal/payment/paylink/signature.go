package paylink

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Signature scheme shared with the provider:
// 1. Collect all parameters except "signature", drop empty values.
// 2. Sort by key (case-sensitive, ascending).
// 3. Build raw string: key1=value1&key2=value2&...
// 4. HMAC-SHA512 over the raw string with the shared secret.
// 5. Uppercase hex encode.

const signatureParam = "signature"

func GenerateSignature(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for key, value := range params {
		if key != signatureParam && value != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", key, params[key]))
	}

	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(strings.Join(parts, "&")))
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}

// VerifySignature checks the signature carried by a webhook callback.
func VerifySignature(params map[string]string, secret string) bool {
	received := params[signatureParam]
	if received == "" {
		return false
	}
	expected := GenerateSignature(params, secret)
	return hmac.Equal([]byte(strings.ToUpper(received)), []byte(expected))
}

// ParseWebhookParams extracts the provider's callback parameters from a raw
// query string and checks the required fields are present.
func ParseWebhookParams(rawQuery string) (map[string]string, error) {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, fmt.Errorf("invalid query string: %w", err)
	}

	params := make(map[string]string, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			params[key] = vals[0]
		}
	}

	for _, field := range []string{"reference", "resultCode", signatureParam} {
		if params[field] == "" {
			return nil, fmt.Errorf("missing required field: %s", field)
		}
	}

	return params, nil
}
