package config

// DateLayout is the canonical date format for panel dates, reference dates
// and output columns.
const DateLayout = "2006-01-02"

// PanelFileDateLayout is the YYMMDD prefix of panel file names.
const PanelFileDateLayout = "060102"

// RegistryDateLayout is the date format the license registry exports use.
const RegistryDateLayout = "1/2/2006"

// DefaultTrackedChangeFields returns the snapshot fields the change detector
// compares when the configuration does not override them.
func DefaultTrackedChangeFields() []string {
	return []string{"address", "name", "email"}
}
