package model

// Column headers consumed from the registration CSV.
const (
	ColModelYear     = "Model Year"
	ColMake          = "Make"
	ColModel         = "Model"
	ColElectricRange = "Electric Range"
	ColCity          = "City"
	ColCounty        = "County"

	ColVehicleID           = "DOL Vehicle ID"
	ColVIN                 = "VIN"
	ColVehicleType         = "Vehicle Type"
	ColPostalCode          = "Postal Code"
	ColCAFVEligibility     = "Clean Alternative Fuel Vehicle (CAFV) Eligibility"
	ColLegislativeDistrict = "Legislative District"
	ColCensusTract         = "2020 Census Tract"
	ColElectricUtility     = "Electric Utility"
	ColBaseMSRP            = "Base MSRP"
	ColIncentiveAmount     = "Incentive Amount"
)

// PassthroughColumns are carried verbatim for the record detail view and exports.
var PassthroughColumns = []string{
	ColVehicleID,
	ColVIN,
	ColVehicleType,
	ColPostalCode,
	ColCAFVEligibility,
	ColLegislativeDistrict,
	ColCensusTract,
	ColElectricUtility,
	ColBaseMSRP,
	ColIncentiveAmount,
}

// RawRow is a single parsed CSV data line keyed by header name.
type RawRow map[string]string

// Record is a normalized vehicle registration.
type Record struct {
	Make      string `json:"make"`
	Model     string `json:"model"`
	ModelYear int    `json:"modelYear"`
	Range     int    `json:"range"`
	City      string `json:"city"`
	County    string `json:"county"`

	// Fields holds every raw column unchanged, keyed by the original header.
	Fields RawRow `json:"fields,omitempty"`
}

// Field returns a raw column value, or "" when the column is absent.
func (r Record) Field(name string) string {
	if r.Fields == nil {
		return ""
	}
	return r.Fields[name]
}
