package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
	"gorm.io/gorm"

	"github.com/daehan-coding/grader-go-api/internal/dto"
	"github.com/daehan-coding/grader-go-api/internal/models"
	"github.com/daehan-coding/grader-go-api/internal/repository"
)

// ErrRosterNotCSV indicates the uploaded file is not a text/CSV document.
var ErrRosterNotCSV = errors.New("roster file is not csv")

// ErrRosterBadHeader indicates the CSV header is not the expected roster format.
var ErrRosterBadHeader = errors.New("roster header must be 분반,학번,이름")

// ErrRosterEncoding indicates the CSV bytes decode as neither UTF-8 nor CP949.
var ErrRosterEncoding = errors.New("roster encoding must be UTF-8 or CP949")

// Roster CSV column names. School admin tools export these Korean headers.
const (
	rosterColSection = "분반"
	rosterColCode    = "학번"
	rosterColName    = "이름"
)

// RosterService imports class rosters from CSV uploads.
type RosterService interface {
	ImportCSV(ctx context.Context, payload dto.RosterImportRequest, file []byte) (dto.RosterImportResponse, error)
}

type rosterService struct {
	students    repository.StudentRepository
	classGroups repository.ClassGroupRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewRosterService constructs the roster import service.
func NewRosterService(studentRepo repository.StudentRepository, classGroupRepo repository.ClassGroupRepository, validate *validator.Validate, logger zerolog.Logger) RosterService {
	return &rosterService{
		students:    studentRepo,
		classGroups: classGroupRepo,
		validator:   validate,
		logger:      logger.With().Str("component", "roster_service").Logger(),
	}
}

// ImportCSV parses a `분반,학번,이름` roster and creates the missing students,
// class groups, and enrollments. Rows with a malformed student code are
// skipped and counted, matching how teachers fix rosters iteratively.
func (s *rosterService) ImportCSV(ctx context.Context, payload dto.RosterImportRequest, file []byte) (dto.RosterImportResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RosterImportResponse{}, err
	}

	// CP949 rosters sniff as octet-stream, so only clearly-typed non-text
	// uploads (zip, pdf, images) are rejected here.
	kind := mimetype.Detect(file)
	if !strings.HasPrefix(kind.String(), "text/") && !kind.Is("application/octet-stream") {
		return dto.RosterImportResponse{}, ErrRosterNotCSV
	}

	text, err := decodeRosterBytes(file)
	if err != nil {
		return dto.RosterImportResponse{}, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return dto.RosterImportResponse{}, fmt.Errorf("read roster header: %w", err)
	}

	columns := map[string]int{}
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	sectionIdx, okSection := columns[rosterColSection]
	codeIdx, okCode := columns[rosterColCode]
	nameIdx, okName := columns[rosterColName]
	if !okSection || !okCode || !okName {
		return dto.RosterImportResponse{}, ErrRosterBadHeader
	}

	subject := strings.TrimSpace(payload.Subject)
	result := dto.RosterImportResponse{}
	groupCache := map[string]models.ClassGroup{}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return dto.RosterImportResponse{}, fmt.Errorf("read roster row: %w", err)
		}

		result.TotalRows++

		section := fieldAt(record, sectionIdx)
		code := fieldAt(record, codeIdx)
		name := fieldAt(record, nameIdx)
		if section == "" || code == "" || name == "" {
			result.SkippedRows++
			continue
		}

		grade, classNo, studentNo, err := models.ParseStudentCode(code)
		if err != nil {
			s.logger.Warn().Str("student_code", code).Msg("skipping roster row with bad student code")
			result.SkippedRows++
			continue
		}

		student, created, err := s.findOrCreateStudent(ctx, grade, classNo, studentNo, name)
		if err != nil {
			return dto.RosterImportResponse{}, err
		}
		if created {
			result.NewStudents++
		}

		group, ok := groupCache[section]
		if !ok {
			group, created, err = s.findOrCreateClassGroup(ctx, subject, section, payload.Year, payload.Term)
			if err != nil {
				return dto.RosterImportResponse{}, err
			}
			if created {
				result.NewClassGroups++
			}
			groupCache[section] = group
		}

		enrolled, err := s.classGroups.Enroll(ctx, group.ID, student.ID)
		if err != nil {
			return dto.RosterImportResponse{}, err
		}
		if enrolled {
			result.NewEnrollments++
		}
	}

	s.logger.Info().
		Str("subject", subject).
		Int("total_rows", result.TotalRows).
		Int("new_students", result.NewStudents).
		Int("new_class_groups", result.NewClassGroups).
		Int("new_enrollments", result.NewEnrollments).
		Msg("roster import finished")

	return result, nil
}

func (s *rosterService) findOrCreateStudent(ctx context.Context, grade, classNo, studentNo int, name string) (models.Student, bool, error) {
	student, err := s.students.GetByTriple(ctx, grade, classNo, studentNo)
	if err == nil {
		// Name corrections are the one permitted mutation on students.
		if student.Name != name {
			if err := s.students.UpdateName(ctx, student.ID, name); err != nil {
				return models.Student{}, false, err
			}
			student.Name = name
		}
		return student, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Student{}, false, err
	}

	student = models.Student{Grade: grade, ClassNo: classNo, StudentNo: studentNo, Name: name}
	if err := s.students.Create(ctx, &student); err != nil {
		return models.Student{}, false, err
	}
	return student, true, nil
}

func (s *rosterService) findOrCreateClassGroup(ctx context.Context, subject, section string, year *int, term string) (models.ClassGroup, bool, error) {
	group, err := s.classGroups.GetBySubjectAndSection(ctx, subject, section)
	if err == nil {
		return group, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ClassGroup{}, false, err
	}

	group = models.ClassGroup{
		Subject: subject,
		Section: section,
		Label:   fmt.Sprintf("%s %s반", subject, section),
		Year:    year,
		Term:    term,
	}
	if err := s.classGroups.Create(ctx, &group); err != nil {
		return models.ClassGroup{}, false, err
	}
	return group, true, nil
}

// decodeRosterBytes accepts UTF-8 (with or without BOM) and falls back to
// CP949, the encoding Korean spreadsheet tools still export by default.
func decodeRosterBytes(file []byte) (string, error) {
	file = bytes.TrimPrefix(file, []byte{0xEF, 0xBB, 0xBF})

	if utf8.Valid(file) {
		return string(file), nil
	}

	decoded, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), file)
	if err != nil {
		return "", ErrRosterEncoding
	}
	return string(decoded), nil
}

func fieldAt(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
