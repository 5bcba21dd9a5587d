package validation_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/listenupapp/swatches/internal/errors"
	"github.com/listenupapp/swatches/internal/validation"
)

type testRequest struct {
	Codes   string  `json:"codes" validate:"required,max=16"`
	EntryID string  `json:"id" validate:"required,entry_id"`
	Theme   *string `json:"theme,omitempty" validate:"omitempty,theme"`
}

func strPtr(s string) *string { return &s }

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Validate(testRequest{Codes: "fff", EntryID: "color-1"}))
	assert.NoError(t, v.Validate(testRequest{Codes: "fff", EntryID: "color-1", Theme: strPtr("dark")}))
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       testRequest
		wantField string
		wantMsg   string
	}{
		{
			name:      "missing codes",
			req:       testRequest{EntryID: "color-1"},
			wantField: "codes",
			wantMsg:   "is required",
		},
		{
			name:      "codes too long",
			req:       testRequest{Codes: strings.Repeat("f", 17), EntryID: "color-1"},
			wantField: "codes",
			wantMsg:   "must not exceed 16 characters",
		},
		{
			name:      "foreign id",
			req:       testRequest{Codes: "fff", EntryID: "client-1"},
			wantField: "id",
			wantMsg:   "must be a palette entry id",
		},
		{
			name:      "unknown theme",
			req:       testRequest{Codes: "fff", EntryID: "color-1", Theme: strPtr("sepia")},
			wantField: "theme",
			wantMsg:   `must be "light" or "dark"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())
			assert.Contains(t, domainErr.Message, tt.wantField)

			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, details[tt.wantField])
		})
	}
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	err := v.Validate(testRequest{EntryID: "color-1"})
	require.Error(t, err)

	assert.Contains(t, err.Error(), "codes")
	assert.NotContains(t, err.Error(), "Codes")
}

func TestValidator_NonStruct(t *testing.T) {
	err := validation.New().Validate("not a struct")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
