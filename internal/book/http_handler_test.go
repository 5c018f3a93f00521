package book

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*HTTPHandler, *MockRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	return NewHTTPHandler(NewService(mockRepo), zap.NewNop()), mockRepo
}

var testBook = Book{
	ID:            1,
	Title:         "Clean Code",
	Author:        "Robert C. Martin",
	ISBN:          "9780132350884",
	PublishedDate: time.Date(2008, 8, 1, 0, 0, 0, 0, time.UTC),
}

const validBody = `{"title":"Clean Code","author":"Robert C. Martin","isbn":"9780132350884","published_date":"2008-08-01"}`

func decodeCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body.Error.Code
}

func TestHTTPHandler_List(t *testing.T) {
	handler, mockRepo := newTestHandler(t)

	t.Run("passes search through", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any(), "clean").Return([]Book{testBook}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/books?search=clean", nil)
		handler.List(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Success bool   `json:"success"`
			Data    []View `json:"data"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.True(t, body.Success)
		require.Len(t, body.Data, 1)
		assert.Equal(t, "2008-08-01", body.Data[0].PublishedDate)
	})

	t.Run("store error", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any(), "").Return(nil, context.DeadlineExceeded)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		handler.List(w, r)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "deadline")
	})
}

func TestHTTPHandler_Get(t *testing.T) {
	handler, mockRepo := newTestHandler(t)

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(testBook, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/books/1", nil)
		r.SetPathValue("id", "1")
		handler.Get(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(2)).Return(Book{}, ErrNotFound)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/books/2", nil)
		r.SetPathValue("id", "2")
		handler.Get(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "NOT_FOUND", decodeCode(t, w))
	})

	t.Run("bad id", func(t *testing.T) {
		for _, id := range []string{"abc", "0", "-3"} {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/books/"+id, nil)
			r.SetPathValue("id", id)
			handler.Get(w, r)

			assert.Equal(t, http.StatusBadRequest, w.Code, id)
		}
	})
}

func TestHTTPHandler_Head(t *testing.T) {
	handler, mockRepo := newTestHandler(t)

	mockRepo.EXPECT().Exists(gomock.Any(), int64(1)).Return(true, nil)
	mockRepo.EXPECT().Exists(gomock.Any(), int64(2)).Return(false, nil)

	for id, want := range map[string]int{"1": http.StatusOK, "2": http.StatusNotFound} {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodHead, "/api/books/"+id, nil)
		r.SetPathValue("id", id)
		handler.Head(w, r)

		assert.Equal(t, want, w.Code, id)
		assert.Zero(t, w.Body.Len())
	}
}

func TestHTTPHandler_Create(t *testing.T) {
	handler, mockRepo := newTestHandler(t)

	t.Run("created with location", func(t *testing.T) {
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b *Book) error {
			b.ID = 9
			return nil
		})

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader(validBody))
		handler.Create(w, r)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "/api/books/9", w.Header().Get("Location"))
	})

	t.Run("duplicate isbn", func(t *testing.T) {
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(ErrDuplicateISBN)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader(validBody))
		handler.Create(w, r)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "CONFLICT", decodeCode(t, w))
	})

	t.Run("invalid input", func(t *testing.T) {
		bodies := []string{
			`{"title":"","author":"A","isbn":"1","published_date":"2008-08-01"}`,
			`{"title":"   ","author":"A","isbn":"1","published_date":"2008-08-01"}`,
			`{"title":"T","author":"A","isbn":"123456789012345678901","published_date":"2008-08-01"}`,
			`{"title":"T","author":"A","isbn":"1","published_date":"not a date"}`,
		}
		for _, body := range bodies {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader(body))
			handler.Create(w, r)

			assert.Equal(t, http.StatusBadRequest, w.Code, body)
			assert.Equal(t, "VALIDATION_ERROR", decodeCode(t, w), body)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader(`{"title":`))
		handler.Create(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "BAD_REQUEST", decodeCode(t, w))
	})
}

func TestHTTPHandler_Update(t *testing.T) {
	handler, mockRepo := newTestHandler(t)

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().Update(gomock.Any(), int64(1), gomock.Any()).Return(nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/api/books/1", strings.NewReader(validBody))
		r.SetPathValue("id", "1")
		handler.Update(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("absent", func(t *testing.T) {
		mockRepo.EXPECT().Update(gomock.Any(), int64(77), gomock.Any()).Return(ErrNotFound)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/api/books/77", strings.NewReader(validBody))
		r.SetPathValue("id", "77")
		handler.Update(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_Delete(t *testing.T) {
	handler, mockRepo := newTestHandler(t)

	gomock.InOrder(
		mockRepo.EXPECT().Delete(gomock.Any(), int64(1)).Return(true, nil),
		mockRepo.EXPECT().Delete(gomock.Any(), int64(1)).Return(false, nil),
	)

	for _, want := range []int{http.StatusNoContent, http.StatusNotFound} {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodDelete, "/api/books/1", nil)
		r.SetPathValue("id", "1")
		handler.Delete(w, r)

		assert.Equal(t, want, w.Code)
	}
}
