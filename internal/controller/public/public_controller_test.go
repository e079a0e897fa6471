package public

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Axolotls/internal/dto"
	"gorm.io/gorm"
)

type fakeSubmissionService struct {
	submitResp  *dto.EvaluateResponse
	submitErr   error
	rateErr     error
	submitCalls int
}

func (f *fakeSubmissionService) SubmitAnswer(ctx context.Context, req dto.EvaluateRequest) (*dto.EvaluateResponse, error) {
	f.submitCalls++
	return f.submitResp, f.submitErr
}

func (f *fakeSubmissionService) RateFeedback(ctx context.Context, req dto.RateFeedbackRequest) error {
	return f.rateErr
}

type fakeQuestionService struct {
	details    *dto.QuestionDetailsResponse
	detailsErr error
}

func (f *fakeQuestionService) CreateQuestion(ctx context.Context, form dto.QuestionFormRequest, image io.Reader) (*dto.QuestionResponse, error) {
	return nil, nil
}

func (f *fakeQuestionService) UpdateQuestion(ctx context.Context, promptID string, form dto.QuestionFormRequest, image io.Reader) (*dto.QuestionResponse, error) {
	return nil, nil
}

func (f *fakeQuestionService) DeleteQuestion(promptID string) error { return nil }

func (f *fakeQuestionService) GetQuestionDetails(promptID string) (*dto.QuestionDetailsResponse, error) {
	return f.details, f.detailsErr
}

func (f *fakeQuestionService) ListProblems() ([]dto.ProblemSummary, error) { return nil, nil }

func (f *fakeQuestionService) ListQuestions() ([]dto.QuestionResponse, error) { return nil, nil }

func newTestRouter(sub *fakeSubmissionService, q *fakeQuestionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ctrl := NewPublicController(sub, q)
	r := gin.New()
	r.POST("/api/evaluate", ctrl.Evaluate)
	r.POST("/api/rate-feedback", ctrl.RateFeedback)
	r.GET("/api/question-details/:prompt_id", ctrl.QuestionDetails)
	return r
}

func TestEvaluateMissingPromptID(t *testing.T) {
	sub := &fakeSubmissionService{}
	router := newTestRouter(sub, &fakeQuestionService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader(`{"answer": "no prompt here"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if sub.submitCalls != 0 {
		t.Errorf("submission service was called %d times for an invalid request, want 0", sub.submitCalls)
	}

	var body dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if body.Error != "A prompt_id must be provided." {
		t.Errorf("error = %q, want the prompt_id message", body.Error)
	}
}

func TestEvaluateSuccess(t *testing.T) {
	sub := &fakeSubmissionService{
		submitResp: &dto.EvaluateResponse{Feedback: "Great work!", ResponseID: 42},
	}
	router := newTestRouter(sub, &fakeQuestionService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/evaluate",
		strings.NewReader(`{"prompt_id": "goroutines-1", "answer": "my answer", "student_id": "alice"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var body dto.EvaluateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Feedback != "Great work!" || body.ResponseID != 42 {
		t.Errorf("body = %+v, want the service result", body)
	}
}

func TestRateFeedbackNotFound(t *testing.T) {
	sub := &fakeSubmissionService{rateErr: gorm.ErrRecordNotFound}
	router := newTestRouter(sub, &fakeQuestionService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/rate-feedback",
		strings.NewReader(`{"response_id": 9999, "rating": 4}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}

	var body dto.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Status != "error" || body.Message != "Response not found" {
		t.Errorf("body = %+v, want the not-found envelope", body)
	}
}

func TestRateFeedbackSuccess(t *testing.T) {
	router := newTestRouter(&fakeSubmissionService{}, &fakeQuestionService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/rate-feedback",
		strings.NewReader(`{"response_id": 7, "rating": 5, "comment": "helpful"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body dto.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Status != "success" {
		t.Errorf("status = %q, want success", body.Status)
	}
}

func TestQuestionDetailsNotFound(t *testing.T) {
	q := &fakeQuestionService{detailsErr: gorm.ErrRecordNotFound}
	router := newTestRouter(&fakeSubmissionService{}, q)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/question-details/missing", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestQuestionDetailsNullImage(t *testing.T) {
	q := &fakeQuestionService{
		details: &dto.QuestionDetailsResponse{Title: "Goroutines", QuestionText: "Explain."},
	}
	router := newTestRouter(&fakeSubmissionService{}, q)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/question-details/goroutines-1", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	// image_src must be present and null so the frontend can branch on it.
	if v, ok := body["image_src"]; !ok || v != nil {
		t.Errorf("image_src = %v (present=%v), want an explicit null", v, ok)
	}
	if body["title"] != "Goroutines" {
		t.Errorf("title = %v, want Goroutines", body["title"])
	}
}
