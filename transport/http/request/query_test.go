package request_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"realty/transport/http/request"
)

func TestQueryHelpers(t *testing.T) {
	r := httptest.NewRequest("GET", "/listings?featured=true&rooms=3&min_price=1500.5&bad=x", nil)

	assert.Equal(t, true, request.Bool(r, "featured"))
	assert.Equal(t, 3, request.Int(r, "rooms"))
	assert.Equal(t, 1500.5, request.Float(r, "min_price"))

	assert.Nil(t, request.Bool(r, "bad"))
	assert.Nil(t, request.Int(r, "bad"))
	assert.Nil(t, request.Float(r, "missing"))
}

func TestImageUpload_NotMultipart(t *testing.T) {
	r := httptest.NewRequest("POST", "/upload", nil)

	_, err := request.ImageUpload(r)

	assert.Error(t, err)
}
