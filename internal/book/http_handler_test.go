package book_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"librarium/internal/book"
	"librarium/internal/book/mocks"
	"librarium/internal/testutil"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

var testBook = book.Book{
	ID:        "book-1",
	Title:     "Dune",
	Author:    "Frank Herbert",
	Category:  "Science Fiction",
	Status:    book.StatusAvailable,
	CreatedAt: time.Now(),
	UpdatedAt: time.Now(),
}

func newHandler(t *testing.T) (*book.HTTPHandler, *mocks.MockRepository) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	repo := mocks.NewMockRepository(ctrl)
	return book.NewHTTPHandler(book.NewService(repo)), repo
}

func TestBookHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(repo *mocks.MockRepository)
		expectedStatus int
	}{
		{
			name: "success",
			body: map[string]string{"title": "Dune", "author": "Frank Herbert", "category": "Science Fiction"},
			setupMock: func(repo *mocks.MockRepository) {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing title",
			body:           map[string]string{"author": "Frank Herbert"},
			setupMock:      func(repo *mocks.MockRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing author",
			body:           map[string]string{"title": "Dune"},
			setupMock:      func(repo *mocks.MockRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, repo := newHandler(t)
			tt.setupMock(repo)

			r := testutil.NewRequestWithPrincipal(http.MethodPost, "/books", tt.body, testutil.TestAdmin)
			w := httptest.NewRecorder()

			handler.Create(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestBookHandler_List(t *testing.T) {
	handler, repo := newHandler(t)

	repo.EXPECT().
		List(gomock.Any(), book.Query{Q: "dune", Status: "available"}).
		Return([]book.Book{testBook}, nil)

	r := testutil.NewRequestWithPrincipal(http.MethodGet, "/books?q=dune&status=available", nil, testutil.TestMember)
	w := httptest.NewRecorder()

	handler.List(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBookHandler_GetByID(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		setupMock      func(repo *mocks.MockRepository)
		expectedStatus int
	}{
		{
			name: "found",
			id:   "book-1",
			setupMock: func(repo *mocks.MockRepository) {
				repo.EXPECT().GetByID(gomock.Any(), "book-1").Return(testBook, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "not found",
			id:   "missing",
			setupMock: func(repo *mocks.MockRepository) {
				repo.EXPECT().GetByID(gomock.Any(), "missing").Return(book.Book{}, book.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, repo := newHandler(t)
			tt.setupMock(repo)

			r := testutil.NewRequestWithPrincipal(http.MethodGet, "/books/"+tt.id, nil, testutil.TestMember)
			r.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()

			handler.GetByID(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestBookHandler_Delete(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(repo *mocks.MockRepository)
		expectedStatus int
	}{
		{
			name: "success",
			setupMock: func(repo *mocks.MockRepository) {
				repo.EXPECT().Delete(gomock.Any(), "book-1").Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name: "borrowed book conflicts",
			setupMock: func(repo *mocks.MockRepository) {
				repo.EXPECT().Delete(gomock.Any(), "book-1").Return(book.ErrBorrowed)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "not found",
			setupMock: func(repo *mocks.MockRepository) {
				repo.EXPECT().Delete(gomock.Any(), "book-1").Return(book.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, repo := newHandler(t)
			tt.setupMock(repo)

			r := testutil.NewRequestWithPrincipal(http.MethodDelete, "/books/book-1", nil, testutil.TestAdmin)
			r.SetPathValue("id", "book-1")
			w := httptest.NewRecorder()

			handler.Delete(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestBookHandler_Update(t *testing.T) {
	handler, repo := newHandler(t)

	category := "Classics"
	repo.EXPECT().
		Update(gomock.Any(), "book-1", book.UpdateFields{Title: "Dune Messiah", Category: &category}).
		Return(testBook, nil)

	r := testutil.NewRequestWithPrincipal(http.MethodPut, "/books/book-1",
		map[string]any{"title": "Dune Messiah", "category": "Classics"}, testutil.TestAdmin)
	r.SetPathValue("id", "book-1")
	w := httptest.NewRecorder()

	handler.Update(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}
