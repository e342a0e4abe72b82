package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/scrapekit/internal/entity"
	"github.com/user/scrapekit/internal/repository"
	"go.uber.org/zap"
)

type fakeHeaders struct {
	snap       *entity.HeaderSnapshot
	refreshErr error
	refreshed  bool
}

func (f *fakeHeaders) Get(context.Context) ([]entity.HeaderSet, error) { return f.snap.Headers, nil }
func (f *fakeHeaders) Random(context.Context) (entity.HeaderSet, error) {
	return f.snap.Headers[0], nil
}
func (f *fakeHeaders) Refresh(context.Context) ([]entity.HeaderSet, error) {
	f.refreshed = true
	return f.snap.Headers, f.refreshErr
}
func (f *fakeHeaders) Snapshot(context.Context) (*entity.HeaderSnapshot, error) { return f.snap, nil }

type fakePages struct {
	err error
	got entity.PageRequest
}

func (f *fakePages) Save(_ context.Context, req entity.PageRequest) (*entity.PageCapture, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &entity.PageCapture{URL: req.URL, Path: "/data/html_parse/" + req.OutputFile, Engine: "browser", Attempts: 1}, nil
}

type fakeParser struct {
	err     error
	partial bool // return the record together with err
}

func (f *fakeParser) Parse(_ context.Context, pageURL, _ string) (*entity.ProductRecord, error) {
	rec := &entity.ProductRecord{URL: pageURL, Title: "Blue Mug"}
	if f.err != nil && !f.partial {
		return nil, f.err
	}
	return rec, f.err
}

type fakeAudio struct {
	err error
	got entity.AudioRequest
}

func (f *fakeAudio) Download(_ context.Context, req entity.AudioRequest) (string, error) {
	f.got = req
	return "downloaded_song/" + req.OutputFile + ".%(ext)s", f.err
}

func newTestHandler(pages *fakePages, parser *fakeParser, audio *fakeAudio) *Handler {
	headers := &fakeHeaders{snap: &entity.HeaderSnapshot{
		Headers:   []entity.HeaderSet{{"user-agent": "UA"}},
		FetchedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}}
	if parser == nil {
		return NewHandler(headers, pages, nil, audio, zap.NewNop())
	}
	return NewHandler(headers, pages, parser, audio, zap.NewNop())
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandleSavePage(t *testing.T) {
	pages := &fakePages{}
	h := newTestHandler(pages, &fakeParser{}, &fakeAudio{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/pages", strings.NewReader(`{"url":"https://shop.com/p","output_file":"p.html","engine":"http","parse":true}`))
	h.HandleSavePage(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, entity.PageRequest{URL: "https://shop.com/p", OutputFile: "p.html", Engine: "http"}, pages.got)

	body := decode(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Blue Mug", body["product"].(map[string]any)["title"])
}

func TestHandleSavePageParseFailureIsPartial(t *testing.T) {
	cases := []struct {
		name    string
		parser  *fakeParser
		code    int
		product bool
	}{
		{"invalid page", &fakeParser{err: fmt.Errorf("%w: page.html", repository.ErrInvalidPage)}, http.StatusUnprocessableEntity, false},
		{"file processing failed", &fakeParser{err: fmt.Errorf("%w: files/abc", repository.ErrFileProcessingFailed)}, http.StatusBadGateway, false},
		{"model error", &fakeParser{err: errors.New("quota")}, http.StatusBadGateway, false},
		{"store error", &fakeParser{err: errors.New("db down"), partial: true}, http.StatusCreated, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := newTestHandler(&fakePages{}, c.parser, &fakeAudio{})

			rec := httptest.NewRecorder()
			h.HandleSavePage(rec, httptest.NewRequest(http.MethodPost, "/api/pages", strings.NewReader(`{"url":"https://shop.com/p","output_file":"p.html","parse":true}`)))

			require.Equal(t, c.code, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, "partial", body["status"])
			assert.Equal(t, c.parser.err.Error(), body["parse_error"])
			assert.Equal(t, "/data/html_parse/p.html", body["capture"].(map[string]any)["path"])
			if c.product {
				assert.Equal(t, "Blue Mug", body["product"].(map[string]any)["title"])
			} else {
				assert.Nil(t, body["product"])
			}
		})
	}
}

func TestHandleSavePageValidation(t *testing.T) {
	h := newTestHandler(&fakePages{}, nil, &fakeAudio{})

	for name, payload := range map[string]string{
		"bad json":          `{`,
		"bad url":           `{"url":"nope"}`,
		"parse unavailable": `{"url":"https://a.com","parse":true}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.HandleSavePage(rec, httptest.NewRequest(http.MethodPost, "/api/pages", strings.NewReader(payload)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleSavePageErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: bad", repository.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("%w: api down", repository.ErrNoHeaders), http.StatusServiceUnavailable},
		{fmt.Errorf("%w: timeout", repository.ErrFetchFailed), http.StatusBadGateway},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		t.Run(c.err.Error(), func(t *testing.T) {
			h := newTestHandler(&fakePages{err: c.err}, nil, &fakeAudio{})
			rec := httptest.NewRecorder()
			h.HandleSavePage(rec, httptest.NewRequest(http.MethodPost, "/api/pages", strings.NewReader(`{"url":"https://a.com"}`)))
			assert.Equal(t, c.code, rec.Code)
		})
	}
}

func TestHandleDownloadAudio(t *testing.T) {
	audio := &fakeAudio{}
	h := newTestHandler(&fakePages{}, nil, audio)

	rec := httptest.NewRecorder()
	h.HandleDownloadAudio(rec, httptest.NewRequest(http.MethodPost, "/api/audio", strings.NewReader(`{"title":"Yesterday","artist":"The Beatles","output_file":"y","geo":"US"}`)))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, entity.AudioRequest{Title: "Yesterday", Artist: "The Beatles", OutputFile: "y", GeoLocation: "US"}, audio.got)
	assert.Equal(t, "downloaded_song/y.%(ext)s", decode(t, rec)["output"])
}

func TestHandleDownloadAudioFailure(t *testing.T) {
	h := newTestHandler(&fakePages{}, nil, &fakeAudio{err: fmt.Errorf("%w: 403", repository.ErrDownloadFailed)})

	rec := httptest.NewRecorder()
	h.HandleDownloadAudio(rec, httptest.NewRequest(http.MethodPost, "/api/audio", strings.NewReader(`{"title":"x"}`)))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleGetHeaders(t *testing.T) {
	h := newTestHandler(&fakePages{}, nil, &fakeAudio{})

	rec := httptest.NewRecorder()
	h.HandleGetHeaders(rec, httptest.NewRequest(http.MethodGet, "/api/headers?refresh=true", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, h.headers.(*fakeHeaders).refreshed)
	body := decode(t, rec)
	assert.EqualValues(t, 1, body["count"])
	assert.Equal(t, "2024-05-01T00:00:00Z", body["fetched_at"])
}

func TestHandleGetHeadersRefreshFailure(t *testing.T) {
	h := newTestHandler(&fakePages{}, nil, &fakeAudio{})
	h.headers.(*fakeHeaders).refreshErr = errors.New("401")

	rec := httptest.NewRecorder()
	h.HandleGetHeaders(rec, httptest.NewRequest(http.MethodGet, "/api/headers?refresh=true", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
