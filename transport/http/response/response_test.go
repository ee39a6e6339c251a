package response_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realty/shared/constant"
	"realty/shared/failure"
	"realty/transport/http/response"
)

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "failure message is exposed",
			err:      failure.Conflict("the selected slot is already booked"),
			wantCode: http.StatusConflict,
			wantMsg:  "the selected slot is already booked",
		},
		{
			name:     "wrapped failure keeps its message",
			err:      fmt.Errorf("create reservation: %w", failure.NotFound("reservation not found")),
			wantCode: http.StatusNotFound,
			wantMsg:  "reservation not found",
		},
		{
			name:     "internal errors are masked",
			err:      errors.New(`pq: relation "reservations" does not exist`),
			wantCode: http.StatusInternalServerError,
			wantMsg:  constant.ResponseErrorInternal,
		},
		{
			name:     "deadline",
			err:      fmt.Errorf("calendar: %w", context.DeadlineExceeded),
			wantCode: http.StatusGatewayTimeout,
			wantMsg:  constant.ResponseErrorTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			response.WithError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, constant.ContentTypeJSON, rec.Header().Get(constant.RequestHeaderContentType))

			var body struct {
				Error string `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMsg, body.Error)
		})
	}
}

func TestWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	response.WithJSON(rec, http.StatusCreated, map[string]string{"id": "r-1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"data":{"id":"r-1"}}`, rec.Body.String())
}

func TestWithJSON_Unencodable(t *testing.T) {
	rec := httptest.NewRecorder()
	response.WithJSON(rec, http.StatusOK, make(chan int))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"`+constant.ResponseErrorInternal+`"}`, rec.Body.String())
}
