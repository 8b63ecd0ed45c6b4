package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/mockview-backend/internal/middleware"
	"github.com/stemsi/mockview-backend/internal/model"
	"github.com/stemsi/mockview-backend/internal/response"
	"github.com/stemsi/mockview-backend/internal/service"
	"github.com/stemsi/mockview-backend/internal/validator"
)

// InterviewHandler drives the caller's interview controller.
//
// Operations that need an active interview answer 200 with a null interview
// when there is none, mirroring the controller's silent no-ops.
type InterviewHandler struct {
	interviewService *service.InterviewService
	log              zerolog.Logger
}

// NewInterviewHandler creates a new InterviewHandler.
func NewInterviewHandler(interviewService *service.InterviewService, log zerolog.Logger) *InterviewHandler {
	return &InterviewHandler{
		interviewService: interviewService,
		log:              log.With().Str("component", "interview_handler").Logger(),
	}
}

func viewOf(iv *model.Interview) *model.InterviewView {
	if iv == nil {
		return nil
	}
	v := iv.View()
	return &v
}

func (h *InterviewHandler) controller(c *gin.Context) *service.InterviewController {
	return h.interviewService.Controller(middleware.GetUserID(c))
}

// Create godoc
// POST /api/v1/interview
// Builds an interview from the catalog and starts it, replacing any current one.
func (h *InterviewHandler) Create(c *gin.Context) {
	var req model.CreateInterviewRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	iv := h.interviewService.CreateAndStart(c.Request.Context(), middleware.GetUserID(c), req)
	response.Success(c, http.StatusCreated, gin.H{"interview": viewOf(iv)})
}

// Get godoc
// GET /api/v1/interview
func (h *InterviewHandler) Get(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"interview": viewOf(h.controller(c).Current())})
}

// Reset godoc
// DELETE /api/v1/interview
func (h *InterviewHandler) Reset(c *gin.Context) {
	h.controller(c).Reset(c.Request.Context())
	response.Success(c, http.StatusOK, gin.H{"interview": nil})
}

// SubmitAnswer godoc
// POST /api/v1/interview/answers
// Scores an answer to one question of the active interview.
func (h *InterviewHandler) SubmitAnswer(c *gin.Context) {
	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	answer, iv, err := h.controller(c).SubmitAnswer(c.Request.Context(), req.QuestionID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownQuestion):
			response.FailWithFields(c, http.StatusBadRequest, response.ErrUnknownQuestion, map[string]string{
				"question_id": "question_id is not part of the current interview",
			})
		case errors.Is(err, service.ErrEvaluationInProgress):
			response.Fail(c, http.StatusConflict, response.ErrEvaluationInProgress)
		default:
			h.log.Error().Err(err).Str("question_id", req.QuestionID).Msg("Submit answer failed")
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"answer": answer, "interview": viewOf(iv)})
}

// Next godoc
// POST /api/v1/interview/next
func (h *InterviewHandler) Next(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"interview": viewOf(h.controller(c).Next(c.Request.Context()))})
}

// Previous godoc
// POST /api/v1/interview/previous
func (h *InterviewHandler) Previous(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"interview": viewOf(h.controller(c).Previous(c.Request.Context()))})
}

// Complete godoc
// POST /api/v1/interview/complete
// Finalizes the active interview once every question has an answer.
func (h *InterviewHandler) Complete(c *gin.Context) {
	iv, err := h.controller(c).CompleteIfAllAnswered(c.Request.Context())
	if errors.Is(err, service.ErrIncompleteInterview) {
		response.Fail(c, http.StatusBadRequest, response.ErrIncompleteInterview)
		return
	}
	if err != nil {
		// The interview is completed; only the history write failed.
		h.log.Error().Err(err).Msg("Complete interview failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	var report *model.InterviewReport
	if iv != nil {
		report = service.BuildReport(iv)
	}
	response.Success(c, http.StatusOK, gin.H{"interview": viewOf(iv), "report": report})
}

// Report godoc
// GET /api/v1/interview/report
func (h *InterviewHandler) Report(c *gin.Context) {
	report := h.controller(c).Report()
	if report == nil {
		response.Fail(c, http.StatusConflict, response.ErrInterviewNotCompleted)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"report": report})
}
