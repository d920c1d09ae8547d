package server

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"kastelo.dev/internlog"
	"kastelo.dev/internlog/excel"
	"kastelo.dev/internlog/render"
)

const (
	xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfType  = "application/pdf"
)

const indexPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<p>Download the <a href="/template">Excel template</a>, fill in your details and one row per day, then upload it here.</p>
<form action="/generate" method="post" enctype="multipart/form-data">
<input type="file" name="file" accept=".xlsx,.xls" required>
<button type="submit">Generate PDF</button>
</form>
<p>Files up to {{.MaxMB}}MB.</p>
</body>
</html>
`

func (s *Server) index(c *gin.Context) {
	title := s.header.Title
	if title == "" {
		title = render.DefaultHeader.Title
	}
	c.HTML(http.StatusOK, "index", gin.H{
		"Title": title,
		"MaxMB": s.cfg.MaxUploadBytes >> 20,
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) downloadTemplate(c *gin.Context) {
	data, err := excel.TemplateXLSX()
	if err != nil {
		s.log.Error("Building template", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not build the template."})
		return
	}
	attachment(c, internlog.TemplateFilename)
	c.Data(http.StatusOK, xlsxType, data)
}

func (s *Server) generate(c *gin.Context) {
	data, err := s.upload(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	wb, err := internlog.Generate(data)
	if err != nil {
		s.respondError(c, err)
		return
	}

	doc := render.Render(wb.Student, wb.Logs, render.WithHeader(s.header))
	var buf bytes.Buffer
	if err := render.WritePDF(&buf, doc); err != nil {
		s.log.Error("Rendering PDF", zap.String("id", c.GetString(requestIDHeader)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate the PDF."})
		return
	}

	s.log.Info("Generated log",
		zap.String("id", c.GetString(requestIDHeader)),
		zap.Int("pages", len(doc.Pages)),
		zap.Int("bytes", buf.Len()),
	)
	attachment(c, internlog.OutputFilename(wb.Student.StudentName))
	c.Header("X-Page-Count", strconv.Itoa(len(doc.Pages)))
	c.Data(http.StatusOK, pdfType, buf.Bytes())
}

func (s *Server) validate(c *gin.Context) {
	data, err := s.upload(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	wb, err := internlog.Parse(data)
	if err != nil {
		s.respondError(c, err)
		return
	}

	res := internlog.Validate(wb)
	errs := res.Errors
	if errs == nil {
		errs = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":   res.Valid,
		"errors":  errs,
		"entries": len(wb.Logs),
	})
}

// upload returns the bytes of the multipart "file" field after the
// metadata checks.
func (s *Server) upload(c *gin.Context) ([]byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, internlog.CheckUploadLimit(".xlsx", "", maxErr.Limit, s.cfg.MaxUploadBytes)
		}
		return nil, &internlog.InputRejectedError{Reason: "Please upload a valid Excel file (.xlsx or .xls)"}
	}

	if err := internlog.CheckUploadLimit(fh.Filename, fh.Header.Get("Content-Type"), fh.Size, s.cfg.MaxUploadBytes); err != nil {
		return nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (s *Server) respondError(c *gin.Context, err error) {
	id := c.GetString(requestIDHeader)

	var rejected *internlog.InputRejectedError
	var parseErr *internlog.ParseError
	var validErr *internlog.ValidationError
	switch {
	case errors.As(err, &rejected):
		s.log.Info("Upload rejected", zap.String("id", id), zap.String("reason", rejected.Reason))
		c.JSON(http.StatusBadRequest, gin.H{"error": rejected.Reason})
	case errors.As(err, &parseErr):
		s.log.Info("Parse failed", zap.String("id", id), zap.Error(parseErr.Err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": parseErr.Error()})
	case errors.As(err, &validErr):
		s.log.Info("Validation failed", zap.String("id", id), zap.Strings("errors", validErr.Errors))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Validation Errors", "details": validErr.Errors})
	default:
		s.log.Error("Request failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred. Please try again later."})
	}
}

func attachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
}
