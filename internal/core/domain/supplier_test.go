// internal/core/domain/supplier_test.go
package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acrelle/supplytrack-be/internal/core/domain"
)

func TestCertification_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantName   string
		wantExpiry *time.Time
		wantErr    bool
	}{
		{
			name:     "bare_string_is_name_only",
			input:    `"ISO 22000"`,
			wantName: "ISO 22000",
		},
		{
			name:     "bare_string_is_trimmed",
			input:    `"  Organic EU  "`,
			wantName: "Organic EU",
		},
		{
			name:     "object_with_rfc3339_expiry",
			input:    `{"name": "HACCP", "expiryDate": "2025-06-20T00:00:00Z"}`,
			wantName: "HACCP",
			wantExpiry: func() *time.Time {
				d := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
				return &d
			}(),
		},
		{
			name:     "object_with_plain_date_expiry",
			input:    `{"name": "Kosher", "expiryDate": "2025-06-20"}`,
			wantName: "Kosher",
			wantExpiry: func() *time.Time {
				d := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
				return &d
			}(),
		},
		{
			name:     "unparseable_expiry_is_dropped",
			input:    `{"name": "Halal", "expiryDate": "June 2025"}`,
			wantName: "Halal",
		},
		{
			name:     "null_expiry",
			input:    `{"name": "BRC", "expiryDate": null}`,
			wantName: "BRC",
		},
		{
			name:    "invalid_shape",
			input:   `42`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cert domain.Certification
			err := json.Unmarshal([]byte(tt.input), &cert)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, cert.Name)
			if tt.wantExpiry == nil {
				assert.Nil(t, cert.ExpiryDate)
			} else {
				require.NotNil(t, cert.ExpiryDate)
				assert.True(t, tt.wantExpiry.Equal(*cert.ExpiryDate))
			}
		})
	}
}

func TestQualityIssueList_UnmarshalJSON(t *testing.T) {
	t.Run("numeric_value_is_legacy", func(t *testing.T) {
		var q domain.QualityIssueList
		require.NoError(t, json.Unmarshal([]byte(`3`), &q))
		assert.True(t, q.IsLegacy())
		assert.Equal(t, 3, q.Count())
		assert.Empty(t, q.Issues)
	})

	t.Run("array_value_is_structured", func(t *testing.T) {
		var q domain.QualityIssueList
		input := `[{"description": "Moisture above tolerance", "date": "2025-03-12T00:00:00Z"}]`
		require.NoError(t, json.Unmarshal([]byte(input), &q))
		assert.False(t, q.IsLegacy())
		assert.Equal(t, 1, q.Count())
		require.Len(t, q.Issues, 1)
		assert.Equal(t, "Moisture above tolerance", q.Issues[0].Description)
	})

	t.Run("null_is_empty", func(t *testing.T) {
		var q domain.QualityIssueList
		require.NoError(t, json.Unmarshal([]byte(`null`), &q))
		assert.False(t, q.IsLegacy())
		assert.Equal(t, 0, q.Count())
	})

	t.Run("invalid_shape_rejected", func(t *testing.T) {
		var q domain.QualityIssueList
		err := json.Unmarshal([]byte(`"three"`), &q)
		require.Error(t, err)
	})
}

func TestQualityIssueList_MarshalRoundTrip(t *testing.T) {
	t.Run("legacy_count_round_trips_as_number", func(t *testing.T) {
		var q domain.QualityIssueList
		require.NoError(t, json.Unmarshal([]byte(`5`), &q))

		out, err := json.Marshal(q)
		require.NoError(t, err)
		assert.JSONEq(t, `5`, string(out))
	})

	t.Run("structured_issues_round_trip_as_array", func(t *testing.T) {
		input := `[{"description": "Late delivery", "date": "2025-05-02T00:00:00Z"}]`
		var q domain.QualityIssueList
		require.NoError(t, json.Unmarshal([]byte(input), &q))

		out, err := json.Marshal(q)
		require.NoError(t, err)
		assert.JSONEq(t, input, string(out))
	})

	t.Run("empty_list_marshals_as_empty_array", func(t *testing.T) {
		out, err := json.Marshal(domain.QualityIssueList{})
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(out))
	})
}

func TestSupplier_Validate(t *testing.T) {
	valid := func() *domain.Supplier {
		return &domain.Supplier{
			Name:   "Nordic Organics AS",
			Status: domain.SupplierApproved,
		}
	}

	t.Run("valid_supplier", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("empty_status_defaults_to_pending", func(t *testing.T) {
		s := valid()
		s.Status = ""
		require.NoError(t, s.Validate())
		assert.Equal(t, domain.SupplierPending, s.Status)
	})

	t.Run("blank_name_rejected", func(t *testing.T) {
		s := valid()
		s.Name = "   "
		assert.Error(t, s.Validate())
	})

	t.Run("unknown_status_rejected", func(t *testing.T) {
		s := valid()
		s.Status = "Blocked"
		assert.Error(t, s.Validate())
	})

	t.Run("unnamed_certification_rejected", func(t *testing.T) {
		s := valid()
		s.Certifications = []domain.Certification{{Name: " "}}
		assert.Error(t, s.Validate())
	})

	t.Run("blank_issue_description_rejected", func(t *testing.T) {
		s := valid()
		s.QualityIssues = domain.QualityIssueList{Issues: []domain.QualityIssue{
			{Description: ""},
		}}
		assert.Error(t, s.Validate())
	})
}

func TestSupplier_PrepareForStorage(t *testing.T) {
	s := &domain.Supplier{
		Name: "Nordic Organics AS",
		QualityIssues: domain.QualityIssueList{Issues: []domain.QualityIssue{
			{Description: "Late delivery"},
		}},
	}
	s.PrepareForStorage()

	assert.NotEmpty(t, s.ID)
	assert.False(t, s.CreatedAt.IsZero())
	assert.False(t, s.UpdatedAt.IsZero())
	assert.False(t, s.QualityIssues.Issues[0].Date.IsZero())
}
