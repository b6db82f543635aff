package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLicenseStatusKnown(t *testing.T) {
	for _, status := range KnownLicenseStatuses {
		assert.True(t, status.Known(), "status %s", status)
	}
	assert.False(t, LicenseStatus("pending").Known())
	assert.False(t, LicenseStatus("").Known())
}

func TestLicenseRecordCustomerType(t *testing.T) {
	tests := []struct {
		name          string
		customerType  string
		wantAdultUse  bool
		wantMedicinal bool
	}{
		{"both", "Adult-Use and Medicinal", true, true},
		{"adult only", "Adult-Use", true, false},
		{"medicinal only", "Medicinal", false, true},
		{"empty", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := LicenseRecord{CustomerType: tt.customerType}
			assert.Equal(t, tt.wantAdultUse, rec.AdultUse())
			assert.Equal(t, tt.wantMedicinal, rec.Medicinal())
		})
	}
}
