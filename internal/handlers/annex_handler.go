package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"camara-formacion/internal/models"
	"camara-formacion/internal/service"
)

// AnnexHandler manages document generation, download, signing and export
type AnnexHandler struct {
	annexes    *service.AnnexService
	signatures *service.SignatureService
	export     *service.ExportService
}

// NewAnnexHandler creates a new annex handler
func NewAnnexHandler(annexes *service.AnnexService, signatures *service.SignatureService, export *service.ExportService) *AnnexHandler {
	return &AnnexHandler{
		annexes:    annexes,
		signatures: signatures,
		export:     export,
	}
}

// Generate creates or refreshes the participant's annex for a phase
// @Summary Generate an annex
// @Description Generate the annex document for a phase, or refresh it if it already exists. Staff only.
// @Tags Annexes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Participant ID"
// @Param request body object{annex_type=string,override=bool} true "Annex type (annex_2, annex_3, annex_5)"
// @Success 201 {object} models.AnnexSummary "Generated annex"
// @Failure 403 {object} map[string]string "Forbidden - staff only"
// @Failure 404 {object} map[string]string "Participant not found"
// @Failure 422 {object} map[string]string "Phase is not active"
// @Router /participants/{id}/annexes [post]
func (h *AnnexHandler) Generate(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var in struct {
		AnnexType models.AnnexType `json:"annex_type"`
		Override  bool             `json:"override"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	summary, err := h.annexes.Generate(actor, r.PathValue("id"), in.AnnexType, in.Override)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, summary)
}

// List returns the participant's annexes
// @Summary List annexes
// @Description Get all generated annexes of a participant
// @Tags Annexes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Participant ID"
// @Success 200 {array} models.AnnexSummary "Annexes"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Participant not found"
// @Router /participants/{id}/annexes [get]
func (h *AnnexHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	annexes, err := h.annexes.List(actor, r.PathValue("id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, annexes)
}

// Get returns one annex
// @Summary Get an annex
// @Description Get annex metadata without the PDF bytes
// @Tags Annexes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Annex ID"
// @Success 200 {object} models.AnnexSummary "Annex"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Annex not found"
// @Router /annexes/{id} [get]
func (h *AnnexHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	summary, err := h.annexes.Get(actor, r.PathValue("id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, summary)
}

// Download streams the annex PDF
// @Summary Download an annex PDF
// @Description Download the rendered PDF document of an annex
// @Tags Annexes
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Annex ID"
// @Success 200 {file} binary "PDF document"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Annex not found"
// @Router /annexes/{id}/download [get]
func (h *AnnexHandler) Download(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	fileName, data, err := h.annexes.Download(actor, r.PathValue("id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Sign records the actor's signature on an annex
// @Summary Sign an annex
// @Description Record a signature for the actor's role. Each required role signs exactly once; signatures are immutable. A complete signature set marks the annex signed and may advance the participant's phase.
// @Tags Annexes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Annex ID"
// @Param request body service.SignInput false "Signature data"
// @Success 201 {object} models.SignatureSummary "Recorded signature"
// @Failure 403 {object} map[string]string "Not allowed to sign"
// @Failure 404 {object} map[string]string "Annex not found"
// @Failure 409 {object} map[string]string "Role already signed"
// @Failure 422 {object} map[string]string "Role not in the required set"
// @Router /annexes/{id}/signatures [post]
func (h *AnnexHandler) Sign(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var in service.SignInput
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
			return
		}
	}

	summary, err := h.signatures.Add(actor, r.PathValue("id"), in)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, summary)
}

// Signatures lists the signatures recorded on an annex
// @Summary List annex signatures
// @Description Get the signatures recorded on an annex
// @Tags Annexes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Annex ID"
// @Success 200 {array} models.SignatureSummary "Signatures"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Annex not found"
// @Router /annexes/{id}/signatures [get]
func (h *AnnexHandler) Signatures(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	signatures, err := h.signatures.List(actor, r.PathValue("id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, signatures)
}

// Export bundles selected annexes into a zip archive
// @Summary Export annexes as ZIP
// @Description Bundle the selected annex PDFs into a zip archive. Empty filters select everything the actor may see.
// @Tags Annexes
// @Accept json
// @Produce application/zip
// @Security BearerAuth
// @Param request body service.BatchInput false "Export selection"
// @Success 200 {file} binary "ZIP archive"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No annexes match the selection"
// @Router /annexes/export [post]
func (h *AnnexHandler) Export(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var in service.BatchInput
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
			return
		}
	}

	result, err := h.export.Batch(actor, in)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.FileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Data)
}
