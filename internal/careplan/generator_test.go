package careplan

import (
	"testing"

	"wisefido-risk-engine/internal/models"
	"wisefido-risk-engine/internal/scoring"
	"wisefido-risk-engine/internal/synth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGenerate_HighRiskPlan(t *testing.T) {
	record := &models.PatientRecord{
		Age: 70, Gender: models.GenderMale,
		HeightCM: 170, WeightKG: 105,
		SystolicBP: 165, DiastolicBP: 100, RestingHR: 85,
		Glucose: 180, Cholesterol: 280, HDL: 28, LDL: 230,
		Smoking: models.SmokingCurrent, ExerciseDays: 0, AlcoholDrinks: 18,
		FamilyDiabetes: true, FamilyHeartDisease: true, FamilyHypertension: true,
	}
	assessment, err := scoring.NewAssessor(zap.NewNop()).Assess(record)
	require.NoError(t, err)
	require.Equal(t, models.RiskHigh, assessment.OverallLevel())

	plan := NewGenerator().Generate(record, assessment)

	assert.Contains(t, plan, "CARE PLAN")
	assert.Contains(t, plan, "HIGH PRIORITY")
	assert.Contains(t, plan, "smoking cessation")
	assert.Contains(t, plan, "weight management")
	assert.Contains(t, plan, "blood pressure monitoring")
	assert.Contains(t, plan, "Reduce alcohol intake")
}

func TestGenerate_Deterministic(t *testing.T) {
	records := synth.Generate(1, 42)
	assessment, err := scoring.NewAssessor(zap.NewNop()).Assess(&records[0])
	require.NoError(t, err)

	g := NewGenerator()
	assert.Equal(t, g.Generate(&records[0], assessment), g.Generate(&records[0], assessment))
}
