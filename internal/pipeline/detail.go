package pipeline

import (
	"strconv"

	"ev-dashboard/internal/model"
)

const notAvailable = "N/A"

// Detail lays out one record for the drill-down view. sl is the 1-based row
// number shown in the table.
func Detail(r model.Record, sl int) model.RecordDetail {
	orNA := func(col string) string {
		if v := r.Field(col); v != "" {
			return v
		}
		return notAvailable
	}
	return model.RecordDetail{
		SL: sl,
		Fields: []model.DetailField{
			{Label: "Vehicle ID", Value: orNA(model.ColVehicleID)},
			{Label: "Company", Value: r.Make},
			{Label: "Model", Value: r.Model},
			{Label: "Year", Value: strconv.Itoa(r.ModelYear)},
			{Label: "Range", Value: strconv.Itoa(r.Range)},
			{Label: "Vehicle Type", Value: orNA(model.ColVehicleType)},
			{Label: "City", Value: r.City},
			{Label: "County", Value: r.County},
			{Label: "Postal Code", Value: orNA(model.ColPostalCode)},
			{Label: "VIN", Value: orNA(model.ColVIN)},
			{Label: "CAFVs", Value: orNA(model.ColCAFVEligibility)},
			{Label: "Legislative District", Value: orNA(model.ColLegislativeDistrict)},
			{Label: "2020 Census Tract", Value: orNA(model.ColCensusTract)},
			{Label: "Electric Utility", Value: orNA(model.ColElectricUtility)},
			{Label: "Base MSRP", Value: orNA(model.ColBaseMSRP)},
			{Label: "Incentive Amount", Value: orNA(model.ColIncentiveAmount)},
		},
	}
}
