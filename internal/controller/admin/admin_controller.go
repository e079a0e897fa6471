package admin

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Axolotls/internal/dto"
	"github.com/lshigami/Axolotls/internal/service"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AdminController serves the dashboard API and its pages. Every route is
// behind the session gate.
type AdminController struct {
	questionSvc service.QuestionService
	reviewSvc   service.ReviewService
	llm         service.GeminiLLMService
}

func NewAdminController(questionSvc service.QuestionService, reviewSvc service.ReviewService, llm service.GeminiLLMService) *AdminController {
	return &AdminController{questionSvc: questionSvc, reviewSvc: reviewSvc, llm: llm}
}

// GetUniqueProblems godoc
// @Summary List questions for the dashboard filter menu
// @Tags admin
// @Produce json
// @Success 200 {array} dto.ProblemSummary
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/get-unique-problems [get]
func (ctrl *AdminController) GetUniqueProblems(c *gin.Context) {
	problems, err := ctrl.questionSvc.ListProblems()
	if err != nil {
		log.Error().Err(err).Msg("GetUniqueProblems: failed")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to retrieve problems"})
		return
	}
	c.JSON(http.StatusOK, problems)
}

// GetAllFeedback godoc
// @Summary List submissions, newest first
// @Tags admin
// @Produce json
// @Param prompt_id query string false "Restrict to one question"
// @Success 200 {array} dto.FeedbackResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/get-all-feedback [get]
func (ctrl *AdminController) GetAllFeedback(c *gin.Context) {
	feedback, err := ctrl.reviewSvc.ListFeedback(c.Query("prompt_id"))
	if err != nil {
		log.Error().Err(err).Msg("GetAllFeedback: failed")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to retrieve feedback"})
		return
	}
	c.JSON(http.StatusOK, feedback)
}

// GetAllQuestions godoc
// @Summary List full question records, newest first
// @Tags admin
// @Produce json
// @Success 200 {array} dto.QuestionResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/get-all-questions [get]
func (ctrl *AdminController) GetAllQuestions(c *gin.Context) {
	questions, err := ctrl.questionSvc.ListQuestions()
	if err != nil {
		log.Error().Err(err).Msg("GetAllQuestions: failed")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to retrieve questions"})
		return
	}
	c.JSON(http.StatusOK, questions)
}

// GetSummary godoc
// @Summary Generate an instructor summary of human-written answers
// @Tags admin
// @Produce json
// @Param prompt_id query string false "Restrict to one question, or 'all'"
// @Success 200 {object} dto.SummaryResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/get-summary [get]
func (ctrl *AdminController) GetSummary(c *gin.Context) {
	summary, err := ctrl.reviewSvc.GetSummary(c.Request.Context(), c.Query("prompt_id"))
	if err != nil {
		log.Error().Err(err).Msg("GetSummary: failed")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to generate summary"})
		return
	}
	c.JSON(http.StatusOK, dto.SummaryResponse{Summary: summary})
}

func openFormImage(c *gin.Context) (multipart.File, error) {
	header, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	return header.Open()
}

// CreateQuestion godoc
// @Summary Create a question
// @Description Multipart form: title, question_text, ai_prompt, optional image.
// @Tags admin
// @Accept mpfd
// @Produce json
// @Success 200 {object} dto.StatusResponse
// @Failure 400 {object} dto.StatusResponse "Missing required fields"
// @Failure 500 {object} dto.StatusResponse
// @Router /api/create-question [post]
func (ctrl *AdminController) CreateQuestion(c *gin.Context) {
	form := dto.QuestionFormRequest{
		Title:        c.PostForm("title"),
		QuestionText: c.PostForm("question_text"),
		AIPrompt:     c.PostForm("ai_prompt"),
	}
	if form.Title == "" || form.QuestionText == "" || form.AIPrompt == "" {
		c.JSON(http.StatusBadRequest, dto.StatusResponse{Status: "error", Message: "Missing required fields"})
		return
	}

	image, err := openFormImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.StatusResponse{Status: "error", Message: "Invalid image upload: " + err.Error()})
		return
	}
	if image != nil {
		defer image.Close()
	}

	question, err := ctrl.questionSvc.CreateQuestion(c.Request.Context(), form, image)
	if err != nil {
		log.Error().Err(err).Msg("CreateQuestion: failed")
		c.JSON(http.StatusInternalServerError, dto.StatusResponse{Status: "error", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{
		Status:   "success",
		Message:  "Question created successfully!",
		PromptID: question.PromptID,
	})
}

// UpdateQuestion godoc
// @Summary Update a question
// @Description Multipart form; empty fields keep their current value, a new image replaces the stored one.
// @Tags admin
// @Accept mpfd
// @Produce json
// @Param prompt_id path string true "Prompt ID"
// @Success 200 {object} dto.StatusResponse
// @Failure 404 {object} dto.StatusResponse
// @Failure 500 {object} dto.StatusResponse
// @Router /api/update-question/{prompt_id} [post]
func (ctrl *AdminController) UpdateQuestion(c *gin.Context) {
	promptID := c.Param("prompt_id")
	form := dto.QuestionFormRequest{
		Title:        c.PostForm("title"),
		QuestionText: c.PostForm("question_text"),
		AIPrompt:     c.PostForm("ai_prompt"),
	}

	image, err := openFormImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.StatusResponse{Status: "error", Message: "Invalid image upload: " + err.Error()})
		return
	}
	if image != nil {
		defer image.Close()
	}

	if _, err := ctrl.questionSvc.UpdateQuestion(c.Request.Context(), promptID, form, image); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, dto.StatusResponse{Status: "error", Message: "Question not found"})
			return
		}
		log.Error().Err(err).Str("promptID", promptID).Msg("UpdateQuestion: failed")
		c.JSON(http.StatusInternalServerError, dto.StatusResponse{Status: "error", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "success", Message: "Question updated successfully!"})
}

// DeleteQuestion godoc
// @Summary Delete a question and all responses that reference it
// @Tags admin
// @Produce json
// @Param prompt_id path string true "Prompt ID"
// @Success 200 {object} dto.StatusResponse
// @Failure 404 {object} dto.StatusResponse
// @Failure 500 {object} dto.StatusResponse
// @Router /api/delete-question/{prompt_id} [delete]
func (ctrl *AdminController) DeleteQuestion(c *gin.Context) {
	promptID := c.Param("prompt_id")
	if err := ctrl.questionSvc.DeleteQuestion(promptID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, dto.StatusResponse{Status: "error", Message: "Question not found"})
			return
		}
		log.Error().Err(err).Str("promptID", promptID).Msg("DeleteQuestion: failed")
		c.JSON(http.StatusInternalServerError, dto.StatusResponse{Status: "error", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{
		Status:  "success",
		Message: "Question and all associated responses have been deleted.",
	})
}

// ClearProblemFeedback godoc
// @Summary Delete every response for one question
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.ClearProblemFeedbackRequest true "Prompt ID"
// @Success 200 {object} dto.StatusResponse
// @Failure 400 {object} dto.StatusResponse
// @Failure 500 {object} dto.StatusResponse
// @Router /api/clear-problem-feedback [post]
func (ctrl *AdminController) ClearProblemFeedback(c *gin.Context) {
	var req dto.ClearProblemFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.StatusResponse{Status: "error", Message: "A prompt_id must be provided."})
		return
	}

	if err := ctrl.reviewSvc.ClearProblemFeedback(req.PromptID); err != nil {
		c.JSON(http.StatusInternalServerError, dto.StatusResponse{Status: "error", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "success", Message: fmt.Sprintf("Data for %s cleared.", req.PromptID)})
}

// ClearAllFeedback godoc
// @Summary Delete every recorded response
// @Tags admin
// @Produce json
// @Success 200 {object} dto.StatusResponse
// @Failure 500 {object} dto.StatusResponse
// @Router /api/clear-all-feedback [post]
func (ctrl *AdminController) ClearAllFeedback(c *gin.Context) {
	if err := ctrl.reviewSvc.ClearAllFeedback(); err != nil {
		c.JSON(http.StatusInternalServerError, dto.StatusResponse{Status: "error", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "success", Message: "All feedback data has been cleared."})
}

// TestAIConnection godoc
// @Summary Probe connectivity to the generative-model API
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/test-ai-connection [get]
func (ctrl *AdminController) TestAIConnection(c *gin.Context) {
	models, err := ctrl.llm.ListModels(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to connect to the model API: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":             "success",
		"message":            "Successfully connected to the model API and listed models.",
		"total_models_found": len(models),
	})
}

// The admin pages are minimal shells; the dashboard itself is a static
// frontend consuming the JSON API.

func (ctrl *AdminController) DashboardPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte("<h1>Feedback Dashboard</h1>"))
}

func (ctrl *AdminController) CreatePage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte("<h1>Create Question</h1>"))
}

func (ctrl *AdminController) EditProblemsPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte("<h1>Edit Questions</h1>"))
}
