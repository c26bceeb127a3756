package gallery

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/JaimeStill/campus-gallery/pkg/handlers"
	"github.com/JaimeStill/campus-gallery/pkg/pagination"
	"github.com/JaimeStill/campus-gallery/pkg/routes"
	"github.com/JaimeStill/campus-gallery/pkg/storage"
)

const multipartMemory = 32 << 20

// Success is the body written for a successful lifecycle operation.
type Success struct {
	OK      bool    `json:"ok"`
	Record  *Record `json:"record"`
	Message string  `json:"message,omitempty"`
}

// Handler provides HTTP endpoints for gallery operations and media serving.
type Handler struct {
	sys            System
	media          storage.System
	logger         *slog.Logger
	pagination     pagination.Config
	maxRequestSize int64
	maxFileSize    int64
}

// NewHandler creates a gallery handler. maxRequestSize bounds a whole
// multipart body; parts declaring more than maxFileSize are not read.
func NewHandler(sys System, media storage.System, logger *slog.Logger, pagination pagination.Config, maxRequestSize, maxFileSize int64) *Handler {
	if maxFileSize <= 0 {
		maxFileSize = MaxFileSize
	}
	return &Handler{
		sys:            sys,
		media:          media,
		logger:         logger.With("handler", "gallery"),
		pagination:     pagination,
		maxRequestSize: maxRequestSize,
		maxFileSize:    maxFileSize,
	}
}

// Routes returns the gallery API route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/gallery",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/categories", Handler: h.Categories},
			{Method: "GET", Pattern: "/{id}", Handler: h.Get},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// MediaRoutes returns the public route group serving stored media by name.
func (h *Handler) MediaRoutes() routes.Group {
	return routes.Group{
		Prefix: strings.TrimSuffix(ReferencePrefix, "/"),
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{name}", Handler: h.Media},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Categories())
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r.PathValue("id"))
	if err != nil {
		h.fail(w, err)
		return
	}

	rec, err := h.sys.Get(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Success{OK: true, Record: rec})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := h.parseForm(w, r)
	if err != nil {
		h.fail(w, err)
		return
	}

	files, err := h.readFiles(form, "files", "files[]")
	if err != nil {
		h.fail(w, err)
		return
	}

	res, err := h.sys.Create(r.Context(), CreateCommand{
		Title:       formValue(form, "title"),
		Description: formValue(form, "description"),
		Category:    formValue(form, "category"),
		Files:       files,
	})
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, Success{OK: true, Record: res.Record, Message: res.Message})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r.PathValue("id"))
	if err != nil {
		h.fail(w, err)
		return
	}

	form, err := h.parseForm(w, r)
	if err != nil {
		h.fail(w, err)
		return
	}

	version, err := parseVersion(formValue(form, "version"))
	if err != nil {
		h.fail(w, err)
		return
	}

	remove, err := filesToRemove(form)
	if err != nil {
		h.fail(w, err)
		return
	}

	files, err := h.readFiles(form, "newFiles", "newFiles[]", "files", "files[]")
	if err != nil {
		h.fail(w, err)
		return
	}

	res, err := h.sys.Update(r.Context(), id, UpdateCommand{
		Title:           formValue(form, "title"),
		Description:     formValue(form, "description"),
		Category:        formValue(form, "category"),
		FilesToRemove:   remove,
		NewFiles:        files,
		ExpectedVersion: version,
	})
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Success{OK: true, Record: res.Record, Message: res.Message})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r.PathValue("id"))
	if err != nil {
		h.fail(w, err)
		return
	}

	version, err := parseVersion(r.URL.Query().Get("version"))
	if err != nil {
		h.fail(w, err)
		return
	}

	res, err := h.sys.Delete(r.Context(), id, version)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Success{OK: true, Record: res.Record, Message: res.Message})
}

// Media serves a stored blob. Unknown and malformed names are both 404.
func (h *Handler) Media(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	f, err := h.media.Open(r.Context(), name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("open media failed", "name", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		h.logger.Error("stat media failed", "name", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeContent(w, r, name, info.ModTime(), f)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	handlers.RespondError(w, h.logger, MapHTTPStatus(err), KindOf(err), err)
}

func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) (*multipart.Form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: request exceeds %d bytes", ErrFileTooLarge, tooLarge.Limit)
		}
		return nil, fmt.Errorf("%w: multipart form: %v", ErrMissingField, err)
	}
	return r.MultipartForm, nil
}

func formValue(form *multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// filesToRemove accepts repeated fields or a single JSON array string.
func filesToRemove(form *multipart.Form) ([]string, error) {
	var refs []string
	for _, key := range []string{"filesToRemove", "filesToRemove[]"} {
		for _, v := range form.Value[key] {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if strings.HasPrefix(v, "[") {
				var list []string
				if err := json.Unmarshal([]byte(v), &list); err != nil {
					return nil, fmt.Errorf("%w: filesToRemove is not a JSON string array", ErrMissingField)
				}
				refs = append(refs, list...)
				continue
			}
			refs = append(refs, v)
		}
	}
	return refs, nil
}

func parseVersion(v string) (*int, error) {
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return nil, fmt.Errorf("%w: version %q", ErrInvalidID, v)
	}
	return &n, nil
}

// readFiles loads every uploaded part under keys in upload order. Oversized
// parts are passed through with their declared size and no content so
// validation can name them.
func (h *Handler) readFiles(form *multipart.Form, keys ...string) ([]NewFile, error) {
	var files []NewFile
	for _, key := range keys {
		for _, header := range form.File[key] {
			f := NewFile{
				Name:        header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Size:        header.Size,
			}

			if header.Size > 0 && header.Size <= h.maxFileSize {
				data, err := readPart(header)
				if err != nil {
					return nil, fmt.Errorf("read upload %s: %w", header.Filename, err)
				}
				f.Data = data
				f.ContentType = detectContentType(f.ContentType, data)
			}

			files = append(files, f)
		}
	}
	return files, nil
}

func readPart(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func detectContentType(header string, data []byte) string {
	if header != "" && header != "application/octet-stream" {
		return header
	}
	return http.DetectContentType(data)
}
