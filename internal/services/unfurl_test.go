package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnfurlHTML_OpenGraph(t *testing.T) {
	page := `<!DOCTYPE html>
<html><head>
<title>Fallback Title</title>
<meta name="description" content="Fallback description.">
<meta property="og:title" content="A Great Nugget">
<meta property="og:description" content="Short and sweet.">
<meta property="og:image" content="https://cdn.example.com/cover.png">
<meta property="og:site_name" content="Example News">
</head><body><p>hello</p></body></html>`

	result := ParseUnfurlHTML(strings.NewReader(page))

	assert.Equal(t, "A Great Nugget", result.Title)
	assert.Equal(t, "Short and sweet.", result.Description)
	assert.Equal(t, "https://cdn.example.com/cover.png", result.Image)
	assert.Equal(t, "Example News", result.SiteName)
}

func TestParseUnfurlHTML_Fallbacks(t *testing.T) {
	page := `<html><head>
<title>  Plain Page  </title>
<meta name="description" content="Only a meta description here.">
</head><body></body></html>`

	result := ParseUnfurlHTML(strings.NewReader(page))

	assert.Equal(t, "Plain Page", result.Title)
	assert.Equal(t, "Only a meta description here.", result.Description)
	assert.Empty(t, result.Image)
}

func TestParseUnfurlHTML_Garbage(t *testing.T) {
	result := ParseUnfurlHTML(strings.NewReader("not <really< html >>"))
	assert.Empty(t, result.Image)
	assert.Empty(t, result.SiteName)
}

func TestFetchUnfurl(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><head><meta property="og:title" content="Server Title"></head></html>`))
	}))
	defer srv.Close()

	result, err := FetchUnfurl(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Server Title", result.Title)
	assert.Equal(t, srv.URL, result.URL)
}

func TestFetchUnfurl_NonHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	_, err := FetchUnfurl(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrUnfurlNotHTML)
}

func TestFetchUnfurl_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := FetchUnfurl(context.Background(), srv.URL)
	assert.Error(t, err)
}
