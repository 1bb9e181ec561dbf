package ingest

import (
	"bytes"
	"strings"
	"testing"

	"wisefido-risk-engine/internal/synth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDecodeCSV_SampleRoundTrip(t *testing.T) {
	data, err := synth.SampleCSV(30, 42)
	require.NoError(t, err)

	batch, err := DecodeCSV(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Len(t, batch.Records, 30)
	assert.Empty(t, batch.Flagged)

	// 解析结果与生成源一致
	want := synth.Generate(30, 42)
	assert.Equal(t, want, batch.Records)
}

func TestDecodeCSV_MissingRequiredColumn(t *testing.T) {
	csvData := "patient_id,age,gender\nP0001,45,Male\n"

	_, err := DecodeCSV(strings.NewReader(csvData))
	require.Error(t, err)
	var serr *SchemaError
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Missing, "glucose")
	assert.Contains(t, serr.Missing, "systolic_bp")
	assert.NotContains(t, serr.Missing, "age")
}

func TestDecodeCSV_FlagsBadRows(t *testing.T) {
	data, err := synth.SampleCSV(5, 42)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 6)
	// 第 3 行：年龄非数字；第 5 行：收缩压越界
	lines[2] = strings.Replace(lines[2], ",", ",x", 1) // patient_id 后第一列是 age
	cols := strings.Split(lines[4], ",")
	cols[5] = "40" // systolic_bp
	lines[4] = strings.Join(cols, ",")

	batch, err := DecodeCSV(strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)
	assert.Len(t, batch.Records, 3)
	require.Len(t, batch.Flagged, 2)
	assert.Equal(t, 3, batch.Flagged[0].Row)
	assert.Contains(t, batch.Flagged[0].Reason, "age")
	assert.Equal(t, 5, batch.Flagged[1].Row)
	assert.Contains(t, batch.Flagged[1].Reason, "systolic")
}

func TestDecodeCSV_HeaderCaseAndOrderInsensitive(t *testing.T) {
	csvData := "Gender,AGE,height_cm,weight_kg,systolic_bp,diastolic_bp,resting_hr,glucose,cholesterol,hdl,ldl,smoking,exercise_days,alcohol_drinks,family_diabetes,family_heart_disease,family_hypertension\n" +
		"Male,45,175,80,120,78,70,90,190,50,120,Never,3,2,True,False,False\n"

	batch, err := DecodeCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, batch.Records, 1)
	r := batch.Records[0]
	assert.Equal(t, 45, r.Age)
	assert.Equal(t, "Male", r.Gender)
	assert.True(t, r.FamilyDiabetes)
	assert.Equal(t, "", r.PatientID) // 可选列缺失不报错
}

func TestDecodeXLSX(t *testing.T) {
	records := synth.Generate(3, 42)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &synth.CSVHeader))
	for i, r := range records {
		row := []any{
			r.PatientID, r.Age, r.Gender, r.HeightCM, r.WeightKG,
			r.SystolicBP, r.DiastolicBP, r.RestingHR,
			r.Glucose, r.Cholesterol, r.HDL, r.LDL,
			r.Smoking, r.ExerciseDays, r.AlcoholDrinks,
			r.FamilyDiabetes, r.FamilyHeartDisease, r.FamilyHypertension,
			r.Medications, r.Allergies,
		}
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	batch, err := DecodeXLSX(&buf)
	require.NoError(t, err)
	assert.Len(t, batch.Records, 3)
	assert.Empty(t, batch.Flagged)
	assert.Equal(t, records[0].PatientID, batch.Records[0].PatientID)
	assert.Equal(t, records[0].Age, batch.Records[0].Age)
	assert.Equal(t, records[0].FamilyDiabetes, batch.Records[0].FamilyDiabetes)
}

func TestDecodeCSV_EmptyFile(t *testing.T) {
	_, err := DecodeCSV(strings.NewReader(""))
	require.Error(t, err)
	var serr *SchemaError
	assert.ErrorAs(t, err, &serr)
}
