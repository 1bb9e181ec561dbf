package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"wisefido-risk-engine/internal/enrich"
	"wisefido-risk-engine/internal/export"
	"wisefido-risk-engine/internal/ingest"
	"wisefido-risk-engine/internal/models"
	"wisefido-risk-engine/internal/population"
	"wisefido-risk-engine/internal/synth"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sampleDefaultCount = 100
	sampleMaxCount     = 10000
)

// PopulationHandler 人群批量分析 Handler
type PopulationHandler struct {
	aggregator *population.Aggregator
	enricher   enrich.Enricher
	logger     *zap.Logger
	maxUpload  int64 // bytes
}

// NewPopulationHandler 创建人群批量分析 Handler
func NewPopulationHandler(aggregator *population.Aggregator, enricher enrich.Enricher, maxUploadBytes int64, logger *zap.Logger) *PopulationHandler {
	return &PopulationHandler{
		aggregator: aggregator,
		enricher:   enricher,
		logger:     logger,
		maxUpload:  maxUploadBytes,
	}
}

// UploadBatch 上传患者批次文件（CSV/XLSX）并返回人群汇总
func (h *PopulationHandler) UploadBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeJSON(w, http.StatusOK, Fail("failed to parse form (file too large?)"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusOK, Fail("file not found in request"))
		return
	}
	defer file.Close()

	var batch *ingest.Batch
	name := strings.ToLower(header.Filename)
	switch {
	case strings.HasSuffix(name, ".csv"):
		batch, err = ingest.DecodeCSV(file)
	case strings.HasSuffix(name, ".xlsx"):
		batch, err = ingest.DecodeXLSX(file)
	default:
		writeJSON(w, http.StatusOK, Fail("unsupported file type (expected .csv or .xlsx)"))
		return
	}
	if err != nil {
		var serr *ingest.SchemaError
		if errors.As(err, &serr) {
			writeJSON(w, http.StatusOK, Fail(serr.Error()))
			return
		}
		h.logger.Error("decode upload failed", zap.String("filename", header.Filename), zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(fmt.Sprintf("failed to parse file: %v", err)))
		return
	}

	if len(batch.Records) == 0 {
		writeJSON(w, http.StatusOK, Fail("no valid patient rows in upload"))
		return
	}

	summary, err := h.aggregator.Aggregate(batch.Records)
	if err != nil {
		h.logger.Error("Aggregate failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(fmt.Sprintf("population analysis failed: %v", err)))
		return
	}

	batchID := uuid.NewString()
	insights := h.enricher.EnrichPopulation(ctx, summary)

	h.logger.Info("population batch analyzed",
		zap.String("batch_id", batchID),
		zap.String("filename", header.Filename),
		zap.Int("accepted", len(batch.Records)),
		zap.Int("flagged", len(batch.Flagged)),
	)

	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"batch_id":     batchID,
		"accepted":     len(batch.Records),
		"flagged":      len(batch.Flagged),
		"flagged_rows": batch.Flagged,
		"summary":      summary,
		"insights":     insights,
	}))
}

// ExportSummary 从记录数组计算人群汇总并导出 XLSX
func (h *PopulationHandler) ExportSummary(w http.ResponseWriter, r *http.Request) {
	var records []models.PatientRecord
	if err := readBodyJSON(r, h.maxUpload, &records); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	if len(records) == 0 {
		writeJSON(w, http.StatusOK, Fail("records array is required"))
		return
	}

	summary, err := h.aggregator.Aggregate(records)
	if err != nil {
		h.logger.Error("Aggregate failed for export", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(fmt.Sprintf("population analysis failed: %v", err)))
		return
	}

	excelData, err := export.PopulationXLSX(summary)
	if err != nil {
		h.logger.Error("PopulationXLSX failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(fmt.Sprintf("failed to generate export: %v", err)))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=population-summary.xlsx")
	w.WriteHeader(http.StatusOK)
	w.Write(excelData)
}

// SampleCSV 生成样例患者批次 CSV（count/seed 可选）
func (h *PopulationHandler) SampleCSV(w http.ResponseWriter, r *http.Request) {
	count := parseInt(r.URL.Query().Get("count"), sampleDefaultCount)
	if count < 1 || count > sampleMaxCount {
		writeJSON(w, http.StatusOK, Fail(fmt.Sprintf("count must be between 1 and %d", sampleMaxCount)))
		return
	}
	seed := parseInt64(r.URL.Query().Get("seed"), 42)

	data, err := synth.SampleCSV(count, seed)
	if err != nil {
		h.logger.Error("SampleCSV failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(fmt.Sprintf("failed to generate sample: %v", err)))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=sample-patients.csv")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
