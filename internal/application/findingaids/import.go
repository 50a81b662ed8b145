package findingaids

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ams/backend/internal/domain/findingaids"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/ams/backend/internal/infrastructure/csvimport"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxImportRows caps a single folder list
const MaxImportRows = 5000

// ErrInvalidImportFile is returned when a folder list cannot be read at all
var ErrInvalidImportFile = shared.NewDomainError("INVALID_IMPORT_FILE", "Folder list could not be read")

var folderListRules = csvimport.NewFieldValidator(
	csvimport.Field("level").OneOf(string(findingaids.LevelFolder), string(findingaids.LevelItem)).Build(),
	csvimport.Field("folder_no").Required().Int().Range(1, 99999).Build(),
	csvimport.Field("sequence_no").Int().Range(1, 99999).Build(),
	csvimport.Field("title").Required().MaxLength(500).Build(),
	csvimport.Field("title_original").MaxLength(500).Build(),
	csvimport.Field("original_locale").MaxLength(10).Build(),
	csvimport.Field("date_from").Custom(shared.ValidatePartialDate).Build(),
	csvimport.Field("date_to").Custom(shared.ValidatePartialDate).Build(),
	csvimport.Field("contents_summary").MaxLength(20000).Build(),
	csvimport.Field("languages").Pattern(`^[A-Za-z]{2,3}([;, ]+[A-Za-z]{2,3})*$`, "ISO language codes separated by ';'").Build(),
	csvimport.Field("confidential").Bool().Build(),
	csvimport.Field("published").Bool().Build(),
)

// ImportFolderListRequest describes a folder list upload
type ImportFolderListRequest struct {
	ContainerID uuid.UUID
	// DryRun validates the whole file without saving anything
	DryRun    bool
	Delimiter rune
}

// ImportResult summarizes a folder list import. Nothing is saved when
// any row fails validation.
type ImportResult struct {
	ContainerID uuid.UUID                 `json:"container_id"`
	DryRun      bool                      `json:"dry_run"`
	TotalRows   int                       `json:"total_rows"`
	Created     int                       `json:"created"`
	Errors      []csvimport.RowError      `json:"errors,omitempty"`
	TotalErrors int                       `json:"total_errors"`
	Truncated   bool                      `json:"truncated,omitempty"`
	Records     []FindingAidsListResponse `json:"records,omitempty"`
}

// ImportService creates finding aids in bulk from a CSV folder list
type ImportService struct {
	repo       findingaids.Repository
	containers ContainerFinder
	logger     *zap.Logger
}

// NewImportService creates an import service
func NewImportService(repo findingaids.Repository, containers ContainerFinder, logger *zap.Logger) *ImportService {
	return &ImportService{repo: repo, containers: containers, logger: logger}
}

type slot struct{ folder, seq int }

// ImportFolderList validates every row, then saves them in file order.
// Each saved record emits its own events, so published rows reach the
// catalog through the usual indexing pipeline.
func (s *ImportService) ImportFolderList(ctx context.Context, req ImportFolderListRequest, r io.Reader) (*ImportResult, error) {
	c, err := s.containers.FindByID(ctx, req.ContainerID)
	if err != nil {
		return nil, err
	}

	var opts []csvimport.ParserOption
	if req.Delimiter != 0 {
		opts = append(opts, csvimport.WithDelimiter(req.Delimiter))
	}
	rows, err := readFolderList(r, opts...)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindAll(ctx, shared.Filter{Filters: map[string]any{"container_id": c.ID}})
	if err != nil {
		return nil, err
	}
	taken := make(map[slot]bool, len(existing))
	for _, e := range existing {
		taken[slot{e.FolderNo, e.SequenceNo}] = true
	}

	result := &ImportResult{ContainerID: c.ID, DryRun: req.DryRun, TotalRows: len(rows)}
	errs := csvimport.NewErrorCollection(100)
	placement := findingaids.Placement{
		ArchivalUnitID:         c.ArchivalUnitID,
		ContainerID:            c.ID,
		ContainerReferenceCode: c.ReferenceCode,
	}

	type pending struct {
		row    *csvimport.Row
		entity *findingaids.FindingAidsEntity
	}
	var items []pending
	inFile := make(map[slot]int)
	for _, row := range rows {
		if !folderListRules.ValidateRow(row, errs) {
			continue
		}
		e, rowErr := buildRecord(placement, row)
		if rowErr != nil {
			errs.Add(*rowErr)
			continue
		}
		key := slot{e.FolderNo, e.SequenceNo}
		if line, dup := inFile[key]; dup {
			errs.Add(csvimport.RowError{Row: row.LineNumber, Column: "folder_no", Code: csvimport.CodeDuplicate,
				Message: fmt.Sprintf("%s is also described on row %d", e.ReferenceCode, line)})
			continue
		}
		inFile[key] = row.LineNumber
		if taken[key] {
			errs.Add(csvimport.RowError{Row: row.LineNumber, Column: "folder_no", Code: csvimport.CodeConflict,
				Message: e.ReferenceCode + " already exists"})
			continue
		}
		items = append(items, pending{row: row, entity: e})
	}

	// Items need their folder described, either already or in this file
	for _, p := range items {
		if p.entity.Level != findingaids.LevelItem {
			continue
		}
		folder := slot{p.entity.FolderNo, 0}
		if _, ok := inFile[folder]; !ok && !taken[folder] {
			errs.Add(csvimport.RowError{Row: p.row.LineNumber, Column: "folder_no", Code: csvimport.CodeInvalidValue,
				Message: fmt.Sprintf("folder %d is not described", p.entity.FolderNo)})
		}
	}

	if errs.HasErrors() {
		result.Errors = errs.Errors()
		result.TotalErrors = errs.Total()
		result.Truncated = errs.Truncated()
		return result, nil
	}

	for _, p := range items {
		if !req.DryRun {
			if err := s.repo.Save(ctx, p.entity); err != nil {
				s.logger.Error("Folder list import stopped",
					zap.String("container", c.ReferenceCode),
					zap.Int("row", p.row.LineNumber),
					zap.Int("created", result.Created),
					zap.Error(err),
				)
				return result, fmt.Errorf("row %d: %w", p.row.LineNumber, err)
			}
			result.Created++
		}
		result.Records = append(result.Records, ToFindingAidsListResponse(p.entity))
	}

	if !req.DryRun {
		s.logger.Info("Folder list imported",
			zap.String("container", c.ReferenceCode),
			zap.Int("created", result.Created),
		)
	}
	return result, nil
}

func readFolderList(r io.Reader, opts ...csvimport.ParserOption) ([]*csvimport.Row, error) {
	p, err := csvimport.NewParser(r, opts...)
	if err != nil {
		return nil, invalidFile(err)
	}
	if err := p.ParseHeader(); err != nil {
		return nil, invalidFile(err)
	}
	if missing := p.MissingHeaders(folderListRules.RequiredColumns()); len(missing) > 0 {
		return nil, shared.NewDomainError(ErrInvalidImportFile.Code, "Missing columns: "+strings.Join(missing, ", "))
	}
	rows, err := p.ReadAll(MaxImportRows)
	if err != nil {
		return nil, invalidFile(err)
	}
	if len(rows) == 0 {
		return nil, invalidFile(csvimport.ErrNoDataRows)
	}
	return rows, nil
}

func invalidFile(err error) error {
	if errors.Is(err, csvimport.ErrTooManyRows) {
		return shared.NewDomainError(ErrInvalidImportFile.Code, fmt.Sprintf("Folder lists are limited to %d rows", MaxImportRows))
	}
	return shared.NewDomainError(ErrInvalidImportFile.Code, err.Error())
}

// buildRecord turns a validated row into an entity, reporting domain
// rule violations against the row
func buildRecord(p findingaids.Placement, row *csvimport.Row) (*findingaids.FindingAidsEntity, *csvimport.RowError) {
	p.FolderNo = atoi(row.Get("folder_no"))
	p.SequenceNo = atoi(row.Get("sequence_no"))

	level := findingaids.Level(strings.ToUpper(row.Get("level")))
	if level == "" {
		level = findingaids.LevelFolder
		if p.SequenceNo > 0 {
			level = findingaids.LevelItem
		}
	}

	d := findingaids.Description{
		Title:           row.Get("title"),
		TitleOriginal:   row.Get("title_original"),
		OriginalLocale:  row.Get("original_locale"),
		DateFrom:        row.Get("date_from"),
		DateTo:          row.Get("date_to"),
		ContentsSummary: row.Get("contents_summary"),
		Languages:       splitLanguages(row.Get("languages")),
	}

	var (
		e   *findingaids.FindingAidsEntity
		err error
	)
	switch level {
	case findingaids.LevelFolder:
		if p.SequenceNo > 0 {
			return nil, &csvimport.RowError{Row: row.LineNumber, Column: "sequence_no", Code: csvimport.CodeInvalidValue,
				Message: "folders have no sequence number"}
		}
		e, err = findingaids.NewFolder(p, d)
	default:
		if p.SequenceNo == 0 {
			return nil, &csvimport.RowError{Row: row.LineNumber, Column: "sequence_no", Code: csvimport.CodeRequired,
				Message: "items need a sequence number"}
		}
		e, err = findingaids.NewItem(p, d)
	}
	if err != nil {
		return nil, rowError(row.LineNumber, err)
	}

	if confidential, _ := csvimport.ParseBool(row.Get("confidential")); confidential {
		e.SetConfidential(true)
	}
	if published, _ := csvimport.ParseBool(row.Get("published")); published {
		if err := e.Publish(); err != nil {
			return nil, rowError(row.LineNumber, err)
		}
	}
	return e, nil
}

func rowError(line int, err error) *csvimport.RowError {
	re := &csvimport.RowError{Row: line, Code: csvimport.CodeInvalidValue, Message: err.Error()}
	var de *shared.DomainError
	if errors.As(err, &de) {
		re.Code = de.Code
		re.Message = de.Message
	}
	return re
}

func splitLanguages(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ';' || r == ',' || r == ' '
	})
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
