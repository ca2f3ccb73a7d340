package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRespondWithError(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondWithError(rec, http.StatusNotFound, "Booking not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"Booking not found"}`, rec.Body.String())
}

func TestRespondWithJSON_Null(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondWithJSON(rec, http.StatusOK, map[string]interface{}{"allocation": nil})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"allocation":null}`, rec.Body.String())
}
