package response_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/orgs-directory-service/internal/repository"
	"github.com/maxviazov/orgs-directory-service/internal/service"
	"github.com/maxviazov/orgs-directory-service/pkg/pagination"
	"github.com/maxviazov/orgs-directory-service/pkg/response"
)

func TestMapError(t *testing.T) {
	_, perr := pagination.ParseParams("x", "")
	_, tooFar := pagination.ParseParams(strconv.Itoa(pagination.MaxPage+1), "50")
	cases := []struct {
		name     string
		in       error
		wantCode int
		wantErr  string
	}{
		{"invalid_input", service.NewInvalidInputError([]service.FieldError{{Field: "label", Message: "bad"}}), 400, "invalid_input"},
		{"bad_pagination", perr, 400, "invalid_input"},
		{"page_too_large", tooFar, 400, "invalid_input"},
		{"page_out_of_range", pagination.ErrPageOutOfRange, 400, "page_out_of_range"},
		{"not_found", repository.ErrNotFound, 404, "not_found"},
		{"store_unavailable", errors.Join(repository.ErrStoreUnavailable, errors.New("dial")), 500, "internal_error"},
		{"internal", errors.New("boom"), 500, "internal_error"},
		{"corrupt", repository.ErrCorruptDocument, 500, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, payload := response.MapError(tc.in)
			if code != tc.wantCode || payload.Error != tc.wantErr {
				t.Fatalf("unexpected mapping: got (%d,%s) want (%d,%s)", code, payload.Error, tc.wantCode, tc.wantErr)
			}
			if tc.wantErr == "invalid_input" && len(payload.FieldErrors) == 0 {
				t.Fatalf("expected field errors in payload")
			}
		})
	}
}

func TestWriteError_NotFoundHasEmptyBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	response.WriteError(c, repository.ErrNotFound)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", w.Body.String())
	}
}
