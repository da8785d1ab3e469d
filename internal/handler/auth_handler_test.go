package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daehan-coding/grader-go-api/internal/dto"
	"github.com/daehan-coding/grader-go-api/internal/service"
)

func TestStudentLoginEndpointStatusCodes(t *testing.T) {
	fx := setupTestApp(t, service.SubmissionConfig{})
	seedStudentAndProblem(t, fx.db)

	resp, envelope := doJSON(t, fx.app, http.MethodPost, "/api/v1/auth/student/login", "",
		dto.StudentLoginRequest{StudentCode: "10301", Name: "김하늘"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, envelope.Success)

	resp, _ = doJSON(t, fx.app, http.MethodPost, "/api/v1/auth/student/login", "",
		dto.StudentLoginRequest{StudentCode: "20101", Name: "김하늘"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, envelope = doJSON(t, fx.app, http.MethodPost, "/api/v1/auth/student/login", "",
		dto.StudentLoginRequest{StudentCode: "10301", Name: "다른이름"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Contains(t, envelope.Message, "roster")

	resp, _ = doJSON(t, fx.app, http.MethodPost, "/api/v1/auth/student/login", "",
		dto.StudentLoginRequest{StudentCode: "bad", Name: "김하늘"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminLoginEndpointStatusCodes(t *testing.T) {
	fx := setupTestApp(t, service.SubmissionConfig{})

	resp, _ := doJSON(t, fx.app, http.MethodPost, "/api/v1/auth/admin/login", "",
		dto.AdminLoginRequest{Username: "teacher", Password: "pw"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, fx.app, http.MethodPost, "/api/v1/auth/admin/login", "",
		dto.AdminLoginRequest{Username: "teacher", Password: "wrong"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutesRejectBadTokens(t *testing.T) {
	fx := setupTestApp(t, service.SubmissionConfig{})

	resp, _ := doJSON(t, fx.app, http.MethodGet, "/api/v1/history", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, fx.app, http.MethodGet, "/api/v1/admin/problems", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
