package s3_test

import (
	"testing"

	"realty/config"
	"realty/infras/otel/mocks"
	"realty/infras/s3"

	"github.com/stretchr/testify/assert"
)

func TestBucket_ObjectKeyFromURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.External.S3.PublicDomain = "https://cdn.example.com/"
	cfg.External.S3.APIEndpoint = "https://account.r2.example.com"
	cfg.External.S3.BucketName = "realty"
	cfg.External.S3.Region = "auto"

	bucket := s3.New(cfg, mocks.NewOtel())

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "public domain", url: "https://cdn.example.com/blog/cover.png", want: "blog/cover.png"},
		{name: "api endpoint", url: "https://account.r2.example.com/realty/properties/a.jpg", want: "properties/a.jpg"},
		{name: "foreign host", url: "https://images.other.com/a.jpg", want: ""},
		{name: "bare domain", url: "https://cdn.example.com/", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bucket.ObjectKeyFromURL(tt.url))
		})
	}
}
