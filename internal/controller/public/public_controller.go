package public

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Axolotls/internal/dto"
	"github.com/lshigami/Axolotls/internal/service"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PublicController serves the student-facing endpoints; none of them require
// a session.
type PublicController struct {
	submissionSvc service.SubmissionService
	questionSvc   service.QuestionService
}

func NewPublicController(submissionSvc service.SubmissionService, questionSvc service.QuestionService) *PublicController {
	return &PublicController{submissionSvc: submissionSvc, questionSvc: questionSvc}
}

// Evaluate godoc
// @Summary Submit an answer for AI evaluation
// @Description Classifies authorship, grades the answer against the question's rubric, and records the submission.
// @Tags public
// @Accept json
// @Produce json
// @Param submission body dto.EvaluateRequest true "Answer submission"
// @Success 200 {object} dto.EvaluateResponse
// @Failure 400 {object} dto.ErrorResponse "prompt_id missing"
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/evaluate [post]
func (ctrl *PublicController) Evaluate(c *gin.Context) {
	var req dto.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Evaluate: failed to bind request")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "A prompt_id must be provided."})
		return
	}

	resp, err := ctrl.submissionSvc.SubmitAnswer(c.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("promptID", req.PromptID).Msg("Evaluate: submission failed")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to process submission: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RateFeedback godoc
// @Summary Rate the AI feedback on a submission
// @Description Overwrites the rating and comment on an existing response.
// @Tags public
// @Accept json
// @Produce json
// @Param rating body dto.RateFeedbackRequest true "Rating"
// @Success 200 {object} dto.StatusResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.StatusResponse "Response not found"
// @Router /api/rate-feedback [post]
func (ctrl *PublicController) RateFeedback(c *gin.Context) {
	var req dto.RateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("RateFeedback: failed to bind request")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	if err := ctrl.submissionSvc.RateFeedback(c.Request.Context(), req); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, dto.StatusResponse{Status: "error", Message: "Response not found"})
			return
		}
		log.Error().Err(err).Uint("responseID", req.ResponseID).Msg("RateFeedback: failed")
		c.JSON(http.StatusInternalServerError, dto.StatusResponse{Status: "error", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "success"})
}

// QuestionDetails godoc
// @Summary Get the display details of a question
// @Tags public
// @Produce json
// @Param prompt_id path string true "Prompt ID"
// @Success 200 {object} dto.QuestionDetailsResponse
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /api/question-details/{prompt_id} [get]
func (ctrl *PublicController) QuestionDetails(c *gin.Context) {
	details, err := ctrl.questionSvc.GetQuestionDetails(c.Param("prompt_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Question details not found"})
			return
		}
		log.Error().Err(err).Str("promptID", c.Param("prompt_id")).Msg("QuestionDetails: lookup failed")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to retrieve question details"})
		return
	}
	c.JSON(http.StatusOK, details)
}
