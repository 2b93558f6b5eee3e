package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gradewise/marksight/marksheet"
	"github.com/gradewise/marksight/shield"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type indexData struct {
	Result *marksheet.Result
	Error  string
}

// handleIndex serves the browser-facing page. A GET renders the upload form;
// a POST with a PDF renders the form plus the extraction result.
func (s *Service) handleIndex(w http.ResponseWriter, r *http.Request) {
	var data indexData

	if r.Method == http.MethodPost {
		pdf, name, err := readUpload(r, "pdf")
		if err != nil {
			data.Error = err.Error()
		} else {
			res, _, err := s.extract(r.Context(), pdf, "stream", name)
			if err != nil {
				shield.GetLogger(r.Context()).Error("extraction failed", "filename", name, "error", err)
				data.Error = "failed to extract data from PDF"
			} else {
				data.Result = res
			}
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		shield.GetLogger(r.Context()).Error("render index failed", "error", err)
	}
}
