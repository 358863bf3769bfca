package paylink

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateSignatureDeterministic(t *testing.T) {
	params := map[string]string{
		"reference":  "BK-001",
		"amount":     "1500000",
		"resultCode": "00",
	}

	first := GenerateSignature(params, testSecret)
	second := GenerateSignature(params, testSecret)

	assert.Equal(t, first, second)
	assert.Len(t, first, 128)
	assert.Equal(t, first, strings.ToUpper(first))
}

func TestGenerateSignatureIgnoresEmptyAndSignatureParams(t *testing.T) {
	base := map[string]string{
		"reference": "BK-001",
		"amount":    "1500000",
	}
	padded := map[string]string{
		"reference": "BK-001",
		"amount":    "1500000",
		"orderInfo": "",
		"signature": "ABCDEF",
	}

	assert.Equal(t, GenerateSignature(base, testSecret), GenerateSignature(padded, testSecret))
}

func TestGenerateSignatureKeyOrderIndependent(t *testing.T) {
	// Map iteration order varies; signing must not depend on it.
	a := map[string]string{"b": "2", "a": "1", "c": "3"}
	b := map[string]string{"c": "3", "a": "1", "b": "2"}

	assert.Equal(t, GenerateSignature(a, testSecret), GenerateSignature(b, testSecret))
}

func TestGenerateSignatureSecretMatters(t *testing.T) {
	params := map[string]string{"reference": "BK-001"}

	assert.NotEqual(t,
		GenerateSignature(params, "secret-one"),
		GenerateSignature(params, "secret-two"))
}

func TestVerifySignature(t *testing.T) {
	sign := func(params map[string]string) map[string]string {
		params["signature"] = GenerateSignature(params, testSecret)
		return params
	}

	tests := []struct {
		name   string
		params map[string]string
		want   bool
	}{
		{
			name:   "valid signature",
			params: sign(map[string]string{"reference": "BK-001", "resultCode": "00"}),
			want:   true,
		},
		{
			name: "tampered parameter",
			params: func() map[string]string {
				p := sign(map[string]string{"reference": "BK-001", "amount": "1000"})
				p["amount"] = "1"
				return p
			}(),
			want: false,
		},
		{
			name:   "missing signature",
			params: map[string]string{"reference": "BK-001"},
			want:   false,
		},
		{
			name: "lowercase hex accepted",
			params: func() map[string]string {
				p := map[string]string{"reference": "BK-001"}
				sig := GenerateSignature(p, testSecret)
				p["signature"] = strings.ToLower(sig)
				return p
			}(),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifySignature(tt.params, testSecret))
		})
	}
}

func TestParseWebhookParams(t *testing.T) {
	tests := []struct {
		name      string
		rawQuery  string
		wantError bool
	}{
		{
			name:     "all required fields",
			rawQuery: "reference=BK-001&resultCode=00&signature=DEADBEEF",
		},
		{
			name:      "missing reference",
			rawQuery:  "resultCode=00&signature=DEADBEEF",
			wantError: true,
		},
		{
			name:      "missing resultCode",
			rawQuery:  "reference=BK-001&signature=DEADBEEF",
			wantError: true,
		},
		{
			name:      "missing signature",
			rawQuery:  "reference=BK-001&resultCode=00",
			wantError: true,
		},
		{
			name:      "malformed query",
			rawQuery:  "reference=%zz",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := ParseWebhookParams(tt.rawQuery)
			if tt.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "BK-001", params["reference"])
			assert.Equal(t, "00", params["resultCode"])
		})
	}
}
