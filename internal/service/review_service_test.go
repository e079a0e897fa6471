package service

import (
	"context"
	"testing"

	"github.com/lshigami/Axolotls/internal/model"
	"github.com/lshigami/Axolotls/internal/repository"
	"gorm.io/gorm"
)

func seedResponse(t *testing.T, db *gorm.DB, promptID, answer string, isAI bool) {
	t.Helper()
	r := model.Response{
		StudentID:     "anonymous",
		Question:      promptID,
		StudentAnswer: answer,
		AIFeedback:    "feedback",
		IsAIGenerated: isAI,
	}
	if err := db.Create(&r).Error; err != nil {
		t.Fatalf("failed to seed response: %v", err)
	}
}

func newReviewFixture(t *testing.T, llm *stubLLM) (ReviewService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewReviewService(repository.NewResponseRepository(db), llm, db), db
}

func TestGetSummaryNoData(t *testing.T) {
	llm := &stubLLM{summary: "should not appear"}
	svc, db := newReviewFixture(t, llm)

	// Only an AI-flagged response exists, so there is nothing to summarize.
	seedResponse(t, db, "p1", "machine prose", true)

	summary, err := svc.GetSummary(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetSummary returned error: %v", err)
	}
	if summary != SummaryNoData {
		t.Errorf("summary = %q, want %q", summary, SummaryNoData)
	}
	if llm.summarizeCalls != 0 {
		t.Errorf("model was called %d times with no data, want 0", llm.summarizeCalls)
	}
}

func TestGetSummaryExcludesAIResponses(t *testing.T) {
	llm := &stubLLM{summary: "class did well"}
	svc, db := newReviewFixture(t, llm)

	seedResponse(t, db, "p1", "human answer", false)
	seedResponse(t, db, "p1", "machine prose", true)

	summary, err := svc.GetSummary(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetSummary returned error: %v", err)
	}
	if summary != "class did well" {
		t.Errorf("summary = %q, want the model reply", summary)
	}
	if llm.summarizeCalls != 1 {
		t.Errorf("model was called %d times, want 1", llm.summarizeCalls)
	}
}

func TestGetSummaryAllFilter(t *testing.T) {
	llm := &stubLLM{summary: "overall summary"}
	svc, db := newReviewFixture(t, llm)

	seedResponse(t, db, "p1", "answer one", false)
	seedResponse(t, db, "p2", "answer two", false)

	summary, err := svc.GetSummary(context.Background(), "all")
	if err != nil {
		t.Fatalf("GetSummary returned error: %v", err)
	}
	if summary != "overall summary" {
		t.Errorf("summary = %q, want the model reply", summary)
	}
}

func TestListFeedbackFiltersByPrompt(t *testing.T) {
	svc, db := newReviewFixture(t, &stubLLM{})

	seedResponse(t, db, "p1", "a", false)
	seedResponse(t, db, "p1", "b", true)
	seedResponse(t, db, "p2", "c", false)

	all, err := svc.ListFeedback("")
	if err != nil {
		t.Fatalf("ListFeedback returned error: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("unfiltered list has %d entries, want 3", len(all))
	}

	filtered, err := svc.ListFeedback("p1")
	if err != nil {
		t.Fatalf("ListFeedback returned error: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("filtered list has %d entries, want 2", len(filtered))
	}
	for _, item := range filtered {
		if item.Question != "p1" {
			t.Errorf("filtered list contains entry for %q", item.Question)
		}
	}
}

func TestClearProblemFeedback(t *testing.T) {
	svc, db := newReviewFixture(t, &stubLLM{})

	seedResponse(t, db, "p1", "a", false)
	seedResponse(t, db, "p1", "b", false)
	seedResponse(t, db, "p2", "c", false)

	if err := svc.ClearProblemFeedback("p1"); err != nil {
		t.Fatalf("ClearProblemFeedback returned error: %v", err)
	}

	var count int64
	db.Model(&model.Response{}).Count(&count)
	if count != 1 {
		t.Errorf("%d responses remain, want 1", count)
	}
	var remaining model.Response
	if err := db.First(&remaining).Error; err != nil {
		t.Fatalf("failed to load remaining response: %v", err)
	}
	if remaining.Question != "p2" {
		t.Errorf("remaining response is for %q, want p2", remaining.Question)
	}
}

func TestClearAllFeedback(t *testing.T) {
	svc, db := newReviewFixture(t, &stubLLM{})

	seedResponse(t, db, "p1", "a", false)
	seedResponse(t, db, "p2", "b", true)

	if err := svc.ClearAllFeedback(); err != nil {
		t.Fatalf("ClearAllFeedback returned error: %v", err)
	}

	var count int64
	db.Model(&model.Response{}).Count(&count)
	if count != 0 {
		t.Errorf("%d responses remain, want 0", count)
	}
}
