package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/shareit/shareit-service/internal/errs"
	"github.com/shareit/shareit-service/internal/model"
)

func TestHandler_CreateUser(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(m mocks)

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			body: `{"name":"alice","email":"alice@mail.com"}`,
			mockBehavior: func(m mocks) {
				m.users.EXPECT().
					Create(context.Background(), model.CreateUserRequest{Name: "alice", Email: "alice@mail.com"}).
					Return(model.User{ID: 1, Name: "alice", Email: "alice@mail.com"}, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"id":1,"name":"alice","email":"alice@mail.com"}`,
			},
		},
		{
			name: "err. duplicate email",
			body: `{"name":"mallory","email":"alice@mail.com"}`,
			mockBehavior: func(m mocks) {
				m.users.EXPECT().
					Create(context.Background(), gomock.Any()).
					Return(model.User{}, errs.Conflict("email alice@mail.com is already in use"))
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"email alice@mail.com is already in use: conflict"}`,
			},
		},
		{
			name:         "err. email required",
			body:         `{"name":"alice"}`,
			mockBehavior: func(m mocks) {},
			response: response{
				expectedCode: http.StatusBadRequest,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, m := newTestRouter(t)
			tt.mockBehavior(m)

			r := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

func TestHandler_DeleteUser(t *testing.T) {
	t.Parallel()
	e, m := newTestRouter(t)
	m.users.EXPECT().Delete(context.Background(), int64(1)).Return(nil)

	r := httptest.NewRequest(http.MethodDelete, "/api/v1/users/1", http.NoBody)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Empty(t, w.Body.String())
}

func TestHandler_UpdateUser(t *testing.T) {
	t.Parallel()
	e, m := newTestRouter(t)
	name := "alicia"
	m.users.EXPECT().
		Update(context.Background(), int64(1), model.UpdateUserRequest{Name: &name}).
		Return(model.User{ID: 1, Name: "alicia", Email: "alice@mail.com"}, nil)

	r := httptest.NewRequest(http.MethodPatch, "/api/v1/users/1", strings.NewReader(`{"name":"alicia"}`))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, `{"id":1,"name":"alicia","email":"alice@mail.com"}`, strings.Trim(w.Body.String(), "\n"))
}
