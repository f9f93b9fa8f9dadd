package controllerImp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"sheetchat/entities"
	"sheetchat/pkg/ai"
	"sheetchat/pkg/document/repository"
	"sheetchat/pkg/ingest"
)

var validTypes = map[string]bool{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/vnd.ms-excel": true,
}

type DocCtrl struct {
	r        repository.DocumentRepository
	allow    map[string]bool
	maxBytes int
}

func New(r repository.DocumentRepository) *DocCtrl {
	allow := map[string]bool{}
	for _, h := range strings.Split(os.Getenv("INGEST_ALLOWED_DOMAINS"), ",") {
		h = strings.TrimSpace(h)
		if h != "" {
			allow[strings.ToLower(h)] = true
		}
	}
	mb := 1500000
	if v := os.Getenv("INGEST_MAX_BYTES_PER_PAGE"); v != "" {
		fmt.Sscanf(v, "%d", &mb)
	}
	return &DocCtrl{r: r, allow: allow, maxBytes: mb}
}

// Upload ingests a multipart spreadsheet. Wrong MIME types are rejected
// before parsing; an empty parse result is rejected too. Nothing is
// persisted on either failure.
func (h *DocCtrl) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "file is required"})
	}
	// The declared type must be an Excel MIME type; the extension only
	// rescues clients that send a generic stream type.
	ct := fh.Header.Get("Content-Type")
	ok := validTypes[ct]
	if !ok && (ct == "" || ct == "application/octet-stream") {
		ok = hasExcelExt(fh.Filename)
	}
	if !ok {
		return c.JSON(http.StatusUnsupportedMediaType, map[string]string{"error": "Please upload an Excel file (.xlsx or .xls)"})
	}

	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "cannot read upload"})
	}
	defer f.Close()

	table, err := ingest.Parse(f)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "failed to parse spreadsheet"})
	}
	if len(table.Rows) == 0 {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "The Excel file appears to be empty"})
	}

	return h.save(c, fh.Filename, table)
}

// IngestURL fetches an allowed page and ingests its first HTML table
// through the same pipeline as an upload.
func (h *DocCtrl) IngestURL(c echo.Context) error {
	var body struct {
		URL  string `json:"url"`
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil || body.URL == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "url required"})
	}
	u, err := url.Parse(body.URL)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad url"})
	}
	if !h.allow[strings.ToLower(u.Host)] {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "domain not allowed"})
	}

	header, rows, title, err := fetchFirstTable(body.URL, h.maxBytes)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
	table := ingest.FromRows(header, rows)
	if len(table.Rows) == 0 {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "no table rows found on page"})
	}
	name := body.Name
	if name == "" {
		name = title
	}
	return h.save(c, name, table)
}

func (h *DocCtrl) save(c echo.Context, name string, table *ingest.Table) error {
	model := c.FormValue("model")
	var over *ai.Overrides
	if raw := c.FormValue("parameters"); raw != "" {
		var o ai.Overrides
		if err := json.Unmarshal([]byte(raw), &o); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid parameters json"})
		}
		over = &o
	}
	family := ai.FamilyLocal
	if over != nil {
		family = ai.ParseFamily(over.Type)
	}
	if model == "" {
		model = ai.DefaultEmbedModel(family)
	}

	d := &entities.Document{
		ID:             uuid.NewString(),
		Name:           name,
		EmbeddingModel: model,
		CreatedAt:      time.Now(),
	}
	if err := d.SetTable(table); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if err := d.SetOverrides(over); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if err := h.r.Create(d); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *DocCtrl) List(c echo.Context) error {
	out, err := h.r.List()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns the rendered table view: column specs plus display-formatted
// cells. Stored values stay plain; formatting happens only here.
func (h *DocCtrl) Get(c echo.Context) error {
	d, err := h.r.ByID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "document not found"})
	}
	table, err := d.Table()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	cells := make([][]string, len(table.Rows))
	for i, row := range table.Rows {
		cells[i] = make([]string, len(table.Columns))
		for j := range table.Columns {
			if j < len(row) {
				cells[i][j] = ingest.RenderCell(row[j], table.Columns[j].Type)
			} else {
				cells[i][j] = "-"
			}
		}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"id":      d.ID,
		"name":    d.Name,
		"columns": table.Columns,
		"rows":    cells,
	})
}

func (h *DocCtrl) Delete(c echo.Context) error {
	if err := h.r.Delete(c.Param("id")); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// --- helpers ---

func hasExcelExt(name string) bool {
	low := strings.ToLower(name)
	return strings.HasSuffix(low, ".xlsx") || strings.HasSuffix(low, ".xls")
}

// fetchFirstTable pulls a page (size-capped) and extracts the first
// <table> as header plus data rows.
func fetchFirstTable(u string, maxBytes int) ([]string, [][]string, string, error) {
	client := &http.Client{Timeout: 20 * time.Second}
	resp, err := client.Get(u)
	if err != nil {
		return nil, nil, "", err
	}
	defer resp.Body.Close()
	if ct := strings.ToLower(resp.Header.Get("Content-Type")); !strings.Contains(ct, "text/html") {
		return nil, nil, "", fmt.Errorf("unsupported content-type: %s", ct)
	}
	if resp.ContentLength > int64(maxBytes) {
		return nil, nil, "", fmt.Errorf("page too large")
	}
	// Read one byte past the cap so a page exactly at the cap passes and a
	// longer one is rejected rather than silently truncated.
	limited := io.LimitedReader{R: resp.Body, N: int64(maxBytes) + 1}
	b, err := io.ReadAll(&limited)
	if err != nil {
		return nil, nil, "", err
	}
	if len(b) > maxBytes {
		return nil, nil, "", fmt.Errorf("page too large")
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(b))
	if err != nil {
		return nil, nil, "", err
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, nil, "", fmt.Errorf("no table found on page")
	}

	var header []string
	var rows [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("th, td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(td.Text()))
		})
		if len(cells) == 0 {
			return
		}
		if header == nil {
			header = cells
			return
		}
		rows = append(rows, cells)
	})
	if header == nil {
		return nil, nil, "", fmt.Errorf("table has no rows")
	}
	return header, rows, title, nil
}
