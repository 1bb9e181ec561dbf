package httpapi

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"wisefido-risk-engine/internal/careplan"
	"wisefido-risk-engine/internal/enrich"
	"wisefido-risk-engine/internal/export"
	"wisefido-risk-engine/internal/models"
	"wisefido-risk-engine/internal/scoring"

	"go.uber.org/zap"
)

// AssessmentHandler 单患者评估 Handler
// 评估为纯计算，不落库，直接调用 scoring 层，不需要 Repository
type AssessmentHandler struct {
	assessor *scoring.Assessor
	enricher enrich.Enricher
	plans    *careplan.Generator
	logger   *zap.Logger
}

// NewAssessmentHandler 创建单患者评估 Handler
func NewAssessmentHandler(assessor *scoring.Assessor, enricher enrich.Enricher, plans *careplan.Generator, logger *zap.Logger) *AssessmentHandler {
	return &AssessmentHandler{
		assessor: assessor,
		enricher: enricher,
		plans:    plans,
		logger:   logger,
	}
}

// CreateAssessment 评估单个患者记录
func (h *AssessmentHandler) CreateAssessment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var record models.PatientRecord
	if err := readBodyJSON(r, 1<<20, &record); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}

	assessment, err := h.assessor.Assess(&record)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusOK, Fail(verr.Error()))
			return
		}
		h.logger.Error("Assess failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(fmt.Sprintf("assessment failed: %v", err)))
		return
	}

	insights := h.enricher.EnrichAssessment(ctx, &record, assessment)
	plan := h.plans.Generate(&record, assessment)

	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"patient_id": record.PatientID,
		"assessment": assessment,
		"insights":   insights,
		"care_plan":  plan,
	}))
}

// ExportAssessment 评估并导出文本报告
func (h *AssessmentHandler) ExportAssessment(w http.ResponseWriter, r *http.Request) {
	var record models.PatientRecord
	if err := readBodyJSON(r, 1<<20, &record); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}

	assessment, err := h.assessor.Assess(&record)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusOK, Fail(verr.Error()))
			return
		}
		h.logger.Error("Assess failed for export", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(fmt.Sprintf("assessment failed: %v", err)))
		return
	}

	var buf bytes.Buffer
	if err := export.WriteAssessment(&buf, assessment); err != nil {
		h.logger.Error("WriteAssessment failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(fmt.Sprintf("failed to generate report: %v", err)))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=risk-assessment.txt")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
