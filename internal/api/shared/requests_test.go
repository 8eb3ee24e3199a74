package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{name: "valid", body: `{"prompt":"hello"}`, want: "hello"},
		{name: "malformed", body: `{"prompt":`, wantErr: true},
		{name: "unknown field", body: `{"prompt":"a","extra":1}`, wantErr: true},
		{name: "trailing object", body: `{"prompt":"a"}{"prompt":"b"}`, wantErr: true},
		{name: "empty body", body: ``, wantErr: true},
		{name: "oversized", body: `{"prompt":"` + strings.Repeat("a", MaxRequestBodyBytes) + `"}`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			var got sampleRequest
			err := DecodeJSON(rec, req, &got)

			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Prompt)
		})
	}
}

type selfValidating struct{ ok bool }

func (s selfValidating) Validate() error {
	if !s.ok {
		return assert.AnError
	}
	return nil
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(&sampleRequest{Prompt: "x"}))
	assert.Error(t, ValidateRequest(&sampleRequest{}))
	assert.NoError(t, ValidateRequest(selfValidating{ok: true}))
	assert.ErrorIs(t, ValidateRequest(selfValidating{}), assert.AnError)
}
