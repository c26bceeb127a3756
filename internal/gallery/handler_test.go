package gallery_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"strings"
	"testing"

	"github.com/JaimeStill/campus-gallery/internal/gallery"
	"github.com/JaimeStill/campus-gallery/pkg/routes"
)

type upload struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

type response struct {
	OK        bool            `json:"ok"`
	Record    *gallery.Record `json:"record"`
	Message   string          `json:"message"`
	ErrorKind string          `json:"error_kind"`
	Detail    string          `json:"detail"`
}

func newServer(t *testing.T) (*fixture, http.Handler) {
	t.Helper()
	f := newFixture(t)

	h := gallery.NewHandler(f.sys, f.media, testLogger(), testPaging(), 64<<20, 0)
	mux := http.NewServeMux()
	routes.Register(mux, "/api", h.Routes())
	routes.Register(mux, "", h.MediaRoutes())
	return f, mux
}

func multipartBody(t *testing.T, fields map[string][]string, files ...upload) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for key, values := range fields {
		for _, v := range values {
			if err := w.WriteField(key, v); err != nil {
				t.Fatalf("WriteField: %v", err)
			}
		}
	}

	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.filename+`"`)
		if f.contentType != "" {
			header.Set("Content-Type", f.contentType)
		}
		part, err := w.CreatePart(header)
		if err != nil {
			t.Fatalf("CreatePart: %v", err)
		}
		part.Write(f.data)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func do(t *testing.T, h http.Handler, req *http.Request) (int, response) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var body response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return w.Code, body
}

func createRequest(t *testing.T, fields map[string][]string, files ...upload) *http.Request {
	t.Helper()
	body, ct := multipartBody(t, fields, files...)
	req := httptest.NewRequest(http.MethodPost, "/api/gallery", body)
	req.Header.Set("Content-Type", ct)
	return req
}

func TestHandler_Lifecycle(t *testing.T) {
	f, h := newServer(t)

	status, created := do(t, h, createRequest(t,
		map[string][]string{"title": {"Science Fair"}, "category": {"SCIENCE_FAIR"}, "description": {"Projects"}},
		upload{"files", "volcano.jpg", "image/jpeg", bytes.Repeat([]byte{0xff}, 256)},
		upload{"files", "robot.png", "image/png", bytes.Repeat([]byte{0x89}, 256)},
	))
	if status != http.StatusCreated || !created.OK {
		t.Fatalf("create status = %d body = %+v", status, created)
	}
	if len(created.Record.Files) != 2 || created.Message != "Gallery created with 2 files" {
		t.Fatalf("unexpected create result: %+v", created)
	}
	id := created.Record.ID
	path := "/api/gallery/" + itoa(id)

	status, got := do(t, h, httptest.NewRequest(http.MethodGet, path, nil))
	if status != http.StatusOK || got.Record.Title != "Science Fair" {
		t.Fatalf("get status = %d body = %+v", status, got)
	}

	remove, _ := json.Marshal([]string{created.Record.Files[0]})
	body, ct := multipartBody(t,
		map[string][]string{
			"title":         {"Science Fair 2024"},
			"category":      {"SCIENCE_FAIR"},
			"version":       {"1"},
			"filesToRemove": {string(remove)},
		},
		upload{"newFiles", "clip.mp4", "video/mp4", []byte("....ftypmp42")},
	)
	req := httptest.NewRequest(http.MethodPut, path, body)
	req.Header.Set("Content-Type", ct)

	status, updated := do(t, h, req)
	if status != http.StatusOK || !updated.OK {
		t.Fatalf("update status = %d body = %+v", status, updated)
	}
	if updated.Record.Version != 2 || len(updated.Record.Files) != 2 {
		t.Fatalf("unexpected update result: %+v", updated.Record)
	}
	if updated.Record.Files[0] != created.Record.Files[1] || !strings.HasSuffix(updated.Record.Files[1], "-clip.mp4") {
		t.Errorf("files = %v", updated.Record.Files)
	}

	media := httptest.NewRecorder()
	h.ServeHTTP(media, httptest.NewRequest(http.MethodGet, updated.Record.Files[0], nil))
	if media.Code != http.StatusOK || media.Body.Len() != 256 {
		t.Errorf("media status = %d len = %d", media.Code, media.Body.Len())
	}

	status, conflict := do(t, h, httptest.NewRequest(http.MethodDelete, path+"?version=1", nil))
	if status != http.StatusConflict || conflict.ErrorKind != "conflict" {
		t.Errorf("stale delete status = %d body = %+v", status, conflict)
	}

	status, deleted := do(t, h, httptest.NewRequest(http.MethodDelete, path+"?version=2", nil))
	if status != http.StatusOK || !deleted.OK {
		t.Fatalf("delete status = %d body = %+v", status, deleted)
	}
	if n := f.blobCount(t); n != 0 {
		t.Errorf("blobs left = %d", n)
	}

	status, missing := do(t, h, httptest.NewRequest(http.MethodGet, path, nil))
	if status != http.StatusNotFound || missing.OK || missing.ErrorKind != "not_found" {
		t.Errorf("get after delete status = %d body = %+v", status, missing)
	}
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		req    func(t *testing.T) *http.Request
		status int
		kind   string
	}{
		{
			name:   "invalid id",
			req:    func(t *testing.T) *http.Request { return httptest.NewRequest(http.MethodGet, "/api/gallery/abc", nil) },
			status: http.StatusBadRequest,
			kind:   "invalid_id",
		},
		{
			name:   "zero id",
			req:    func(t *testing.T) *http.Request { return httptest.NewRequest(http.MethodDelete, "/api/gallery/0", nil) },
			status: http.StatusBadRequest,
			kind:   "invalid_id",
		},
		{
			name: "invalid category",
			req: func(t *testing.T) *http.Request {
				return createRequest(t,
					map[string][]string{"title": {"T"}, "category": {"INVALID_CAT"}},
					upload{"files", "a.jpg", "image/jpeg", []byte{0xff, 0xd8, 0xff}},
				)
			},
			status: http.StatusBadRequest,
			kind:   "invalid_category",
		},
		{
			name: "pdf",
			req: func(t *testing.T) *http.Request {
				return createRequest(t,
					map[string][]string{"title": {"T"}, "category": {"GENERAL"}},
					upload{"files", "a.pdf", "application/pdf", []byte("%PDF-1.7")},
				)
			},
			status: http.StatusUnsupportedMediaType,
			kind:   "unsupported_file_type",
		},
		{
			name: "oversized file",
			req: func(t *testing.T) *http.Request {
				return createRequest(t,
					map[string][]string{"title": {"T"}, "category": {"GENERAL"}},
					upload{"files", "big.jpg", "image/jpeg", make([]byte, 11<<20)},
				)
			},
			status: http.StatusRequestEntityTooLarge,
			kind:   "file_too_large",
		},
		{
			name: "no files",
			req: func(t *testing.T) *http.Request {
				return createRequest(t, map[string][]string{"title": {"T"}, "category": {"GENERAL"}})
			},
			status: http.StatusUnprocessableEntity,
			kind:   "empty_gallery",
		},
		{
			name: "not multipart",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/api/gallery", strings.NewReader(`{"title":"T"}`))
			},
			status: http.StatusBadRequest,
			kind:   "missing_required_field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, h := newServer(t)

			status, body := do(t, h, tt.req(t))
			if status != tt.status || body.OK || body.ErrorKind != tt.kind {
				t.Errorf("status = %d kind = %q, want %d %q", status, body.ErrorKind, tt.status, tt.kind)
			}
			if body.Detail == "" {
				t.Error("detail is empty")
			}
			if n := f.blobCount(t); n != 0 {
				t.Errorf("blobs written = %d", n)
			}
		})
	}
}

func TestHandler_FilesToRemove_RepeatedFields(t *testing.T) {
	f, h := newServer(t)
	rec := f.seed(t, "a.jpg", "b.jpg", "c.jpg")

	body, ct := multipartBody(t, map[string][]string{
		"title":         {"Seed"},
		"category":      {"GENERAL"},
		"filesToRemove": {rec.Files[0], rec.Files[2]},
	})
	req := httptest.NewRequest(http.MethodPut, "/api/gallery/"+itoa(rec.ID), body)
	req.Header.Set("Content-Type", ct)

	status, res := do(t, h, req)
	if status != http.StatusOK {
		t.Fatalf("status = %d body = %+v", status, res)
	}
	if len(res.Record.Files) != 1 || res.Record.Files[0] != rec.Files[1] {
		t.Errorf("files = %v, want [%s]", res.Record.Files, rec.Files[1])
	}
}

func TestHandler_List(t *testing.T) {
	f, h := newServer(t)
	f.seed(t, "a.jpg")
	f.seed(t, "b.jpg")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/gallery?category=general&page_size=1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var page struct {
		Data       []gallery.Record `json:"data"`
		Total      int              `json:"total"`
		TotalPages int              `json:"total_pages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Total != 2 || len(page.Data) != 1 || page.TotalPages != 2 {
		t.Errorf("unexpected page: %+v", page)
	}
}

func TestHandler_Media_NotFound(t *testing.T) {
	_, h := newServer(t)

	for _, path := range []string{"/gallery/missing.jpg", "/gallery/.hidden"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("%s status = %d, want 404", path, w.Code)
		}
	}
}

func TestHandler_Categories(t *testing.T) {
	_, h := newServer(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/gallery/categories", nil))

	body, _ := io.ReadAll(w.Body)
	var got []string
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 29 || got[0] != "GENERAL" || got[28] != "OTHER" {
		t.Errorf("categories = %v", got)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
