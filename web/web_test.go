package web

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func newTestService(t *testing.T) (*Service, http.Handler) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.UploadDir = t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(cfg, logger)
	return s, s.Routes()
}

// pdfUpload builds a multipart body with one file under the given field.
func pdfUpload(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatal(err)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	_, h := newTestService(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestIndexPage(t *testing.T) {
	_, h := newTestService(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<form") {
		t.Errorf("index page missing upload form")
	}
}

func TestExtractStreamRejectsBadUploads(t *testing.T) {
	_, h := newTestService(t)

	tests := []struct {
		name     string
		field    string
		filename string
		data     []byte
	}{
		{"wrong field", "document", "sheet.pdf", []byte("%PDF-1.4")},
		{"wrong extension", "pdf", "sheet.txt", []byte("%PDF-1.4")},
		{"empty file", "pdf", "sheet.pdf", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ctype := pdfUpload(t, tt.field, tt.filename, tt.data)
			req := httptest.NewRequest(http.MethodPost, "/api/extract_stream", body)
			req.Header.Set("Content-Type", ctype)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestExtractStreamEndToEnd(t *testing.T) {
	_, h := newTestService(t)

	body, ctype := pdfUpload(t, "pdf", "sheet.pdf", marksheetPDF(t))
	req := httptest.NewRequest(http.MethodPost, "/api/extract_stream", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var out struct {
		GeneralInfo [][2]string `json:"general_info"`
		Blocks      []struct {
			Summary map[string]string `json:"summary"`
			Header  []string          `json:"header"`
			Rows    [][]string        `json:"rows"`
		} `json:"marksheet_blocks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}

	info := map[string]string{}
	for _, p := range out.GeneralInfo {
		info[p[0]] = p[1]
	}
	if info["RollNo"] != "12345" {
		t.Errorf("RollNo = %q", info["RollNo"])
	}
	if len(out.Blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(out.Blocks))
	}
	b := out.Blocks[0]
	if b.Summary["Semester"] != "1" || b.Summary["Even/Odd"] != "Odd" {
		t.Errorf("summary = %v", b.Summary)
	}
	if len(b.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(b.Rows))
	}
	if b.Rows[0][0] != "CSE101" || b.Rows[0][1] != "Programming Fundamentals" {
		t.Errorf("row 0 = %v", b.Rows[0])
	}
}

func TestExtractFileValidation(t *testing.T) {
	_, h := newTestService(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"invalid json", `{`, http.StatusBadRequest},
		{"missing filename", `{}`, http.StatusBadRequest},
		{"traversal", `{"filename":"../etc/passwd.pdf"}`, http.StatusBadRequest},
		{"wrong extension", `{"filename":"sheet.txt"}`, http.StatusBadRequest},
		{"not found", `{"filename":"missing.pdf"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/api/extract", tt.body)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestUploadListExtractDeleteRoundtrip(t *testing.T) {
	s, h := newTestService(t)

	// Upload.
	body, ctype := pdfUpload(t, "pdfs", "sheet.pdf", marksheetPDF(t))
	req := httptest.NewRequest(http.MethodPost, "/api/upload_pdfs", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if _, err := os.Stat(filepath.Join(s.cfg.UploadDir, "sheet.pdf")); err != nil {
		t.Fatalf("uploaded file missing: %v", err)
	}

	// List.
	rec = doJSON(t, h, http.MethodGet, "/api/list_pdfs", "")
	var listing struct {
		PDFs []string `json:"pdfs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatal(err)
	}
	if len(listing.PDFs) != 1 || listing.PDFs[0] != "sheet.pdf" {
		t.Fatalf("listing = %v", listing.PDFs)
	}

	// Extract by filename.
	rec = doJSON(t, h, http.MethodPost, "/api/extract", `{"filename":"sheet.pdf"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("extract status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"marksheet_blocks"`) {
		t.Errorf("extract body = %s", rec.Body.String())
	}

	// Delete.
	rec = doJSON(t, h, http.MethodPost, "/api/delete_pdf", `{"filename":"sheet.pdf"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodPost, "/api/extract", `{"filename":"sheet.pdf"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("extract after delete = %d, want 404", rec.Code)
	}
}

func TestDeleteAll(t *testing.T) {
	s, h := newTestService(t)

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.pdf", "b.pdf"} {
		if err := os.WriteFile(filepath.Join(s.cfg.UploadDir, name), []byte("%PDF-1.4"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	rec := doJSON(t, h, http.MethodPost, "/api/delete_all", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out struct {
		Deleted int `json:"deleted"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Deleted != 2 {
		t.Errorf("deleted = %d, want 2", out.Deleted)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/list_pdfs", "")
	if strings.Contains(rec.Body.String(), ".pdf") {
		t.Errorf("listing not empty: %s", rec.Body.String())
	}
}

// marksheetPDF builds a one-page PDF containing a minimal but complete
// transcript: document fields, one summary, the table header and two rows.
func marksheetPDF(t *testing.T) []byte {
	t.Helper()
	lines := []string{
		"Name : ALICE DOE",
		"Roll No : 12345",
		"Semester : 1",
		"Even/Odd : Odd",
		"SGPA : 8.1",
		"Code Name Type Internal External Back Paper Grade",
		"CSE101 Programming Fundamentals Theory 40 50 -- A",
		"CSE102 Engineering Maths Theory 35 45 -- B+",
		"Minor Result",
	}
	ops := []string{"72 720 Td"}
	for _, l := range lines {
		ops = append(ops, "("+l+") Tj", "0 -14 Td")
	}
	return buildPDF(t, ops)
}

// buildPDF assembles a minimal single-page PDF whose content stream is the
// given operator lines, with correct xref offsets.
func buildPDF(t *testing.T, ops []string) []byte {
	t.Helper()

	stream := "BT\n/F1 10 Tf\n" + strings.Join(ops, "\n") + "\nET"

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")

	offsets := make([]int, 6)

	offsets[1] = b.Len()
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	offsets[2] = b.Len()
	b.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")

	offsets[3] = b.Len()
	b.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>\nendobj\n")

	offsets[4] = b.Len()
	b.WriteString("4 0 obj\n<< /Length " + strconv.Itoa(len(stream)) + " >>\nstream\n")
	b.WriteString(stream)
	b.WriteString("\nendstream\nendobj\n")

	offsets[5] = b.Len()
	b.WriteString("5 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n")

	xref := b.Len()
	b.WriteString("xref\n0 6\n0000000000 65535 f \n")
	for i := 1; i <= 5; i++ {
		off := strconv.Itoa(offsets[i])
		b.WriteString(strings.Repeat("0", 10-len(off)) + off + " 00000 n \n")
	}
	b.WriteString("trailer\n<< /Size 6 /Root 1 0 R >>\nstartxref\n")
	b.WriteString(strconv.Itoa(xref))
	b.WriteString("\n%%EOF\n")

	return []byte(b.String())
}
