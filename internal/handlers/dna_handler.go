package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"go.uber.org/zap"

	"kinship/internal/service"
)

// DNAHandler handles DNA uploads and analysis results
type DNAHandler struct {
	dna           *service.DNAService
	uploadMaxSize int64
	log           *zap.Logger
}

// NewDNAHandler creates a new DNA handler. Uploads larger than uploadMaxSize are refused.
func NewDNAHandler(dna *service.DNAService, uploadMaxSize int64, log *zap.Logger) *DNAHandler {
	return &DNAHandler{dna: dna, uploadMaxSize: uploadMaxSize, log: log.Named("dna")}
}

type analyzeRequest struct {
	DNAData  string `json:"dnaData"`
	FileName string `json:"fileName"`
}

// Analyze accepts DNA as JSON {dnaData, fileName} or as a multipart file
// in the dnaFile field, and runs the analysis
func (h *DNAHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	req, status, err := h.readUpload(w, r)
	if err != nil {
		msg := ErrInvalidJSON
		if status == http.StatusRequestEntityTooLarge {
			msg = ErrFileTooLarge
		}
		respondWithError(w, h.log, status, msg, "", err)
		return
	}
	if req.DNAData == "" {
		respondWithError(w, h.log, http.StatusBadRequest, ErrMissingFields, "", nil)
		return
	}

	analysis, err := h.dna.AnalyzeDNA(r.Context(), r.PathValue("userID"), req.DNAData, req.FileName)
	if err != nil {
		respondWithServiceError(w, h.log, err, ErrDNAAnalysisFailed)
		return
	}
	respondJSON(w, h.log, http.StatusOK, analysis)
}

func (h *DNAHandler) readUpload(w http.ResponseWriter, r *http.Request) (analyzeRequest, int, error) {
	var req analyzeRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType != "multipart/form-data" {
		if err := decodeJSON(w, r, h.uploadMaxSize, &req); err != nil {
			return req, statusForBodyError(err), err
		}
		return req, http.StatusOK, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.uploadMaxSize)
	if err := r.ParseMultipartForm(h.uploadMaxSize); err != nil {
		return req, statusForBodyError(err), err
	}
	file, header, err := r.FormFile(dnaFormField)
	if err != nil {
		return req, http.StatusBadRequest, err
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return req, statusForBodyError(err), err
	}
	req.DNAData = string(raw)
	req.FileName = header.Filename
	return req, http.StatusOK, nil
}

func statusForBodyError(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// GetAnalysis returns the last stored analysis
func (h *DNAHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.dna.GetAnalysis(r.Context(), r.PathValue("userID"))
	if err != nil {
		respondWithServiceError(w, h.log, err, "Failed to load DNA analysis")
		return
	}
	respondJSON(w, h.log, http.StatusOK, analysis)
}
