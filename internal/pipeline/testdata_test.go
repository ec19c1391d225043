package pipeline

import (
	"fmt"
	"strings"
	"testing"

	"ev-dashboard/internal/model"

	"github.com/stretchr/testify/require"
)

const scenarioCSV = "Model Year,Make,Electric Range\n" +
	"2020,Tesla,250\n" +
	"2020,Nissan,150\n" +
	"2021,Tesla,\n"

const fleetCSV = `VIN,County,City,Postal Code,Model Year,Make,Model,Electric Range,Vehicle Type,DOL Vehicle ID
5YJ3E1EA1K,King,Seattle,98101,2019,TESLA,MODEL 3,220,Battery Electric Vehicle (BEV),1001
5YJYGDEE0L,King,Seattle,98102,2020,TESLA,MODEL Y,291,Battery Electric Vehicle (BEV),1002
1N4AZ0CP3D,King,Bellevue,98004,2013,NISSAN,LEAF,75,Battery Electric Vehicle (BEV),1003
5YJ3E1EB5J,Pierce,Tacoma,98402,2018,TESLA,MODEL 3,215,Battery Electric Vehicle (BEV),1004
1G1FY6S03L,Pierce,Tacoma,98403,2020,CHEVROLET,BOLT EV,259,Battery Electric Vehicle (BEV),1005
WBY1Z4C53F,King,Seattle,98103,2015,BMW,I3,81,Plug-in Hybrid Electric Vehicle (PHEV),1006
1N4BZ1CP7K,Snohomish,Everett,98201,2019,NISSAN,LEAF,150,Battery Electric Vehicle (BEV),1007
`

func mustLoad(t *testing.T, csvText string) []model.Record {
	t.Helper()
	rows, err := ParseCSV(strings.NewReader(csvText))
	require.NoError(t, err)
	records, _ := Normalize(rows)
	return records
}

// sequentialRecords builds n records whose VIN encodes their position.
func sequentialRecords(n int) []model.Record {
	out := make([]model.Record, n)
	for i := range out {
		out[i] = model.Record{
			Make:      "TESLA",
			ModelYear: 2020,
			Fields:    model.RawRow{model.ColVIN: fmt.Sprintf("VIN%02d", i+1)},
		}
	}
	return out
}
