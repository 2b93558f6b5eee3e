package web

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"github.com/gradewise/marksight/shield"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	// An encode failure here means the client went away; nothing to do.
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Service) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readUpload pulls one PDF out of a multipart form field.
func readUpload(r *http.Request, field string) ([]byte, string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", errors.New("no PDF file provided")
	}
	defer file.Close()

	if header.Filename == "" {
		return nil, "", errors.New("no file selected")
	}
	if !isAllowedFile(header.Filename) {
		return nil, "", errors.New("only PDF files are allowed")
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", errors.New("failed to read uploaded file")
	}
	if len(data) == 0 {
		return nil, "", errors.New("uploaded file is empty")
	}
	return data, header.Filename, nil
}

// handleExtractStream parses a PDF sent directly in the request body and
// returns the extraction result without persisting anything.
func (s *Service) handleExtractStream(w http.ResponseWriter, r *http.Request) {
	data, name, err := readUpload(r, "pdf")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, _, err := s.extract(r.Context(), data, "stream", name)
	if err != nil {
		shield.GetLogger(r.Context()).Error("extraction failed", "filename", name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to extract data from PDF")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleExtract parses a previously uploaded PDF by filename.
func (s *Service) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filename string `json:"filename"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validateFilename(req.Filename); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := os.ReadFile(filepath.Join(s.cfg.UploadDir, req.Filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeError(w, http.StatusNotFound, "file not found")
			return
		}
		shield.GetLogger(r.Context()).Error("read upload failed", "filename", req.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read file")
		return
	}

	res, _, err := s.extract(r.Context(), data, "file", req.Filename)
	if err != nil {
		shield.GetLogger(r.Context()).Error("extraction failed", "filename", req.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to extract data from PDF")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleUploadPDFs stores one or more PDFs in the upload directory.
// Files arrive under the "pdfs" field; a single "pdf" field also works.
func (s *Service) handleUploadPDFs(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.cfg.MaxFileBytes()); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	files := r.MultipartForm.File["pdfs"]
	if len(files) == 0 {
		files = r.MultipartForm.File["pdf"]
	}
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no PDF files provided")
		return
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		shield.GetLogger(r.Context()).Error("create upload dir failed", "dir", s.cfg.UploadDir, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store files")
		return
	}

	var uploaded, skipped []string
	for _, fh := range files {
		name := filepath.Base(fh.Filename)
		if validateFilename(name) != nil {
			skipped = append(skipped, fh.Filename)
			continue
		}
		if err := s.saveUpload(fh, name); err != nil {
			shield.GetLogger(r.Context()).Error("store upload failed", "filename", name, "error", err)
			skipped = append(skipped, name)
			continue
		}
		uploaded = append(uploaded, name)
	}

	if len(uploaded) == 0 {
		writeError(w, http.StatusBadRequest, "no valid PDF files in upload")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"uploaded": uploaded,
		"skipped":  skipped,
	})
}

func (s *Service) saveUpload(fh *multipart.FileHeader, name string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.cfg.UploadDir, name))
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

// handleListPDFs lists the PDFs currently in the upload directory.
func (s *Service) handleListPDFs(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(s.cfg.UploadDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeJSON(w, http.StatusOK, map[string]any{"pdfs": []string{}})
			return
		}
		shield.GetLogger(r.Context()).Error("list uploads failed", "dir", s.cfg.UploadDir, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list files")
		return
	}

	names := []string{}
	for _, e := range entries {
		if !e.IsDir() && isAllowedFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	writeJSON(w, http.StatusOK, map[string]any{"pdfs": names})
}

// handleDeletePDF removes one uploaded PDF.
func (s *Service) handleDeletePDF(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filename string `json:"filename"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validateFilename(req.Filename); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	path := filepath.Join(s.cfg.UploadDir, req.Filename)
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeError(w, http.StatusNotFound, "file not found")
			return
		}
		shield.GetLogger(r.Context()).Error("delete upload failed", "filename", req.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete file")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": req.Filename})
}

// handleDeleteAll removes every uploaded PDF.
func (s *Service) handleDeleteAll(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(s.cfg.UploadDir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		shield.GetLogger(r.Context()).Error("list uploads failed", "dir", s.cfg.UploadDir, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete files")
		return
	}

	deleted := 0
	for _, e := range entries {
		if e.IsDir() || !isAllowedFile(e.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(s.cfg.UploadDir, e.Name())); err != nil {
			shield.GetLogger(r.Context()).Error("delete upload failed", "filename", e.Name(), "error", err)
			continue
		}
		deleted++
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}
