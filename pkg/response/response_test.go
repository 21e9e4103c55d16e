package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceLinks(t *testing.T) {
	links := ResourceLinks("/events", "/events/abc")
	require.Len(t, links, 4)
	assert.Equal(t, "POST", links[0].Action)
	assert.Equal(t, "/events", links[0].Href)
	for _, l := range links[1:] {
		assert.Equal(t, "/events/abc", l.Href)
	}
	actions := []string{links[1].Action, links[2].Action, links[3].Action}
	assert.Equal(t, []string{"GET", "PUT", "DELETE"}, actions)
}

func TestValidationFailed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ValidationFailed(c, FieldErrors{}.Add("end_time", "end_time must be greater than start_time"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "end_time", body.Errors[0].Field)
}

func TestFieldErrorsError(t *testing.T) {
	var errs FieldErrors
	assert.Equal(t, "validation failed", errs.Error())
	errs = errs.Add("quota", "required")
	assert.Equal(t, "quota: required", errs.Error())
}
