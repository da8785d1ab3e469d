package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/daehan-coding/grader-go-api/internal/database"
	"github.com/daehan-coding/grader-go-api/internal/dto"
	"github.com/daehan-coding/grader-go-api/internal/models"
	"github.com/daehan-coding/grader-go-api/internal/repository"
)

func setupDashboardTest(t *testing.T) (DashboardService, *gorm.DB, *miniredis.Miniredis) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	svc := NewDashboardService(
		repository.NewProblemRepository(db),
		repository.NewSubmissionRepository(db),
		repository.NewStudentRepository(db),
		repository.NewClassGroupRepository(db),
		cache,
		5*time.Minute,
		zerolog.Nop(),
	)
	return svc, db, mr
}

func seedDashboardData(t *testing.T, db *gorm.DB) (models.Student, models.Problem, models.ClassGroup) {
	t.Helper()

	student := models.Student{Grade: 1, ClassNo: 3, StudentNo: 1, Name: "김하늘"}
	require.NoError(t, db.Create(&student).Error)

	group := models.ClassGroup{Subject: "정보", Section: "A", Label: "정보 A반"}
	require.NoError(t, db.Create(&group).Error)
	require.NoError(t, db.Create(&models.Enrollment{ClassGroupID: group.ID, StudentID: student.ID}).Error)

	problem := models.Problem{
		Title:       "Sum of two numbers",
		Description: "Read two integers and print their sum.",
		AnswerCode:  "print(sum(map(int, input().split())))",
		Rubric:      "Correct output earns full marks.",
		MaxScore:    10,
		IsOpen:      true,
	}
	require.NoError(t, db.Create(&problem).Error)

	return student, problem, group
}

func TestStudentStatusesReflectsProgress(t *testing.T) {
	svc, db, _ := setupDashboardTest(t)
	student, problem, _ := seedDashboardData(t, db)

	statuses, err := svc.StudentStatuses(context.Background(), student.ID)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	require.Equal(t, dto.ProblemStatusNotSubmitted, statuses[0].Status)

	svc.InvalidateStudent(context.Background(), student.ID)
	require.NoError(t, db.Create(&models.Submission{
		StudentID: student.ID, ProblemID: problem.ID, Code: "print(1)",
		Score: 6, MaxScore: 10, AttemptNo: 1,
	}).Error)

	statuses, err = svc.StudentStatuses(context.Background(), student.ID)
	require.NoError(t, err)
	require.Equal(t, dto.ProblemStatusInProgress, statuses[0].Status)
	require.Equal(t, int64(1), statuses[0].Attempts)
	require.NotNil(t, statuses[0].BestScore)
	require.Equal(t, 6.0, *statuses[0].BestScore)

	svc.InvalidateStudent(context.Background(), student.ID)
	require.NoError(t, db.Create(&models.Submission{
		StudentID: student.ID, ProblemID: problem.ID, Code: "print(2)",
		Score: 10, MaxScore: 10, AttemptNo: 2,
	}).Error)

	statuses, err = svc.StudentStatuses(context.Background(), student.ID)
	require.NoError(t, err)
	require.Equal(t, dto.ProblemStatusCompleted, statuses[0].Status)
}

func TestStudentStatusesServesFromCacheUntilInvalidated(t *testing.T) {
	svc, db, mr := setupDashboardTest(t)
	student, problem, _ := seedDashboardData(t, db)

	statuses, err := svc.StudentStatuses(context.Background(), student.ID)
	require.NoError(t, err)
	require.Equal(t, dto.ProblemStatusNotSubmitted, statuses[0].Status)
	require.True(t, mr.Exists(fmt.Sprintf("status:student:%d", student.ID)))

	// A row written behind the cache stays invisible until invalidation.
	require.NoError(t, db.Create(&models.Submission{
		StudentID: student.ID, ProblemID: problem.ID, Code: "print(1)",
		Score: 6, MaxScore: 10, AttemptNo: 1,
	}).Error)

	statuses, err = svc.StudentStatuses(context.Background(), student.ID)
	require.NoError(t, err)
	require.Equal(t, dto.ProblemStatusNotSubmitted, statuses[0].Status)

	svc.InvalidateStudent(context.Background(), student.ID)
	require.False(t, mr.Exists(fmt.Sprintf("status:student:%d", student.ID)))

	statuses, err = svc.StudentStatuses(context.Background(), student.ID)
	require.NoError(t, err)
	require.Equal(t, dto.ProblemStatusInProgress, statuses[0].Status)
}

func TestStudentStatusesExcludesClosedProblems(t *testing.T) {
	svc, db, _ := setupDashboardTest(t)
	student, _, _ := seedDashboardData(t, db)

	closed := models.Problem{
		Title:       "Hidden",
		Description: "Not yet released.",
		AnswerCode:  "pass",
		Rubric:      "n/a",
		MaxScore:    10,
		IsOpen:      false,
	}
	require.NoError(t, db.Create(&closed).Error)

	statuses, err := svc.StudentStatuses(context.Background(), student.ID)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
}

func TestClassGroupStandingsListsEveryEnrolledStudent(t *testing.T) {
	svc, db, _ := setupDashboardTest(t)
	student, problem, group := seedDashboardData(t, db)

	idle := models.Student{Grade: 1, ClassNo: 3, StudentNo: 2, Name: "이준호"}
	require.NoError(t, db.Create(&idle).Error)
	require.NoError(t, db.Create(&models.Enrollment{ClassGroupID: group.ID, StudentID: idle.ID}).Error)

	require.NoError(t, db.Create(&models.Submission{
		StudentID: student.ID, ProblemID: problem.ID, Code: "print(1)",
		Score: 4, MaxScore: 10, AttemptNo: 1,
	}).Error)
	require.NoError(t, db.Create(&models.Submission{
		StudentID: student.ID, ProblemID: problem.ID, Code: "print(2)",
		Score: 9, MaxScore: 10, AttemptNo: 2,
	}).Error)

	resp, err := svc.ClassGroupStandings(context.Background(), group.ID, problem.ID)
	require.NoError(t, err)
	require.Equal(t, group.ID, resp.ClassGroup.ID)
	require.Equal(t, problem.ID, resp.Problem.ID)
	require.Len(t, resp.Rows, 2)

	require.Equal(t, "10301", resp.Rows[0].Student.StudentCode)
	require.True(t, resp.Rows[0].HasSubmitted)
	require.Equal(t, int64(2), resp.Rows[0].AttemptCount)
	require.NotNil(t, resp.Rows[0].BestScore)
	require.Equal(t, 9.0, *resp.Rows[0].BestScore)

	require.Equal(t, "10302", resp.Rows[1].Student.StudentCode)
	require.False(t, resp.Rows[1].HasSubmitted)
	require.Nil(t, resp.Rows[1].BestScore)
}

func TestClassGroupStandingsUnknownGroup(t *testing.T) {
	svc, db, _ := setupDashboardTest(t)
	_, problem, _ := seedDashboardData(t, db)

	_, err := svc.ClassGroupStandings(context.Background(), 999, problem.ID)
	require.ErrorIs(t, err, ErrClassGroupNotFound)

	group := models.ClassGroup{Subject: "정보", Section: "B", Label: "정보 B반"}
	require.NoError(t, db.Create(&group).Error)
	_, err = svc.ClassGroupStandings(context.Background(), group.ID, 999)
	require.ErrorIs(t, err, ErrProblemNotFound)
}
