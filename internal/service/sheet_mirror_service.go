package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/lshigami/Axolotls/config"
	"github.com/lshigami/Axolotls/internal/model"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const mirrorSheetRange = "Sheet1!A:J"

// SheetMirrorService mirrors Response rows into a Google Sheet for
// instructors who review submissions there. Mirroring is strictly secondary:
// every failure is logged and swallowed so the database write is never undone
// by the sheet integration.
type SheetMirrorService interface {
	MirrorResponse(ctx context.Context, response *model.Response)
	MirrorRating(ctx context.Context, response *model.Response)
}

type sheetMirrorService struct {
	service       *sheets.Service
	spreadsheetID string
}

func NewSheetMirrorService(cfg *config.Config) SheetMirrorService {
	if cfg.Sheets.SpreadsheetID == "" || cfg.Sheets.CredentialsFile == "" {
		log.Info().Msg("Sheet mirroring is not configured, running without it.")
		return &sheetMirrorService{}
	}

	svc, err := sheets.NewService(context.Background(),
		option.WithCredentialsFile(cfg.Sheets.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize Sheets client, mirroring disabled.")
		return &sheetMirrorService{}
	}
	return &sheetMirrorService{service: svc, spreadsheetID: cfg.Sheets.SpreadsheetID}
}

func responseRow(response *model.Response) []interface{} {
	rating := ""
	if response.Rating != nil {
		rating = strconv.Itoa(*response.Rating)
	}
	comment := ""
	if response.FeedbackComment != nil {
		comment = *response.FeedbackComment
	}
	grade := ""
	if response.PerformanceGrade != nil {
		grade = *response.PerformanceGrade
	}
	return []interface{}{
		strconv.FormatUint(uint64(response.ID), 10),
		response.StudentID,
		response.Question,
		response.StudentAnswer,
		response.AIFeedback,
		response.Timestamp.Format(time.RFC3339),
		rating,
		comment,
		strconv.FormatBool(response.IsAIGenerated),
		grade,
	}
}

func (s *sheetMirrorService) MirrorResponse(ctx context.Context, response *model.Response) {
	if s.service == nil {
		return
	}
	valueRange := &sheets.ValueRange{Values: [][]interface{}{responseRow(response)}}
	_, err := s.service.Spreadsheets.Values.Append(s.spreadsheetID, mirrorSheetRange, valueRange).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		log.Error().Err(err).Uint("responseID", response.ID).Msg("Sheet mirror append failed, continuing.")
	}
}

// MirrorRating rewrites the mirrored row whose first column matches the
// response id. A row that was never mirrored is appended instead.
func (s *sheetMirrorService) MirrorRating(ctx context.Context, response *model.Response) {
	if s.service == nil {
		return
	}

	idCol, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, "Sheet1!A:A").Context(ctx).Do()
	if err != nil {
		log.Error().Err(err).Uint("responseID", response.ID).Msg("Sheet mirror lookup failed, continuing.")
		return
	}

	wantID := strconv.FormatUint(uint64(response.ID), 10)
	rowIndex := -1
	for i, row := range idCol.Values {
		if len(row) > 0 && fmt.Sprint(row[0]) == wantID {
			rowIndex = i + 1 // sheet rows are 1-based
			break
		}
	}
	if rowIndex == -1 {
		s.MirrorResponse(ctx, response)
		return
	}

	updateRange := fmt.Sprintf("Sheet1!A%d:J%d", rowIndex, rowIndex)
	valueRange := &sheets.ValueRange{Values: [][]interface{}{responseRow(response)}}
	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, updateRange, valueRange).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		log.Error().Err(err).Uint("responseID", response.ID).Msg("Sheet mirror update failed, continuing.")
	}
}
