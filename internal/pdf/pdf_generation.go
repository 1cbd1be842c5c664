package pdf

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/encoding/charmap"

	"tasksource/internal/models"
)

// ErrFontRequired is returned when a report holds text the core Helvetica
// font cannot encode and no UTF-8 font is configured.
var ErrFontRequired = errors.New("text needs a UTF-8 font: set files.font_path")

// Generator is the interface handlers depend on.
type Generator interface {
	GenerateTaskReport(data TaskReportData) (string, error)
	WriteTaskReport(w io.Writer, data TaskReportData) error
}

// TaskReportGenerator renders task lists to PDF.
type TaskReportGenerator struct {
	RootDir  string // where report files are stored, e.g. "./files"
	FontPath string // optional UTF-8 TTF; the core Helvetica font is used when empty
	fontName string
}

type TaskReportData struct {
	Title     string
	Source    string // "generate" or "db"
	Tasks     []models.Task
	CreatedAt time.Time
	Filename  string // file name only; generated when empty
}

func NewTaskReportGenerator(rootDir, fontPath string) *TaskReportGenerator {
	name := "Helvetica"
	if fontPath != "" {
		name = "DejaVu"
	}
	return &TaskReportGenerator{
		RootDir:  filepath.Clean(rootDir),
		FontPath: fontPath,
		fontName: name,
	}
}

// GenerateTaskReport writes the report under RootDir and returns its file name
// prefixed with "/".
func (g *TaskReportGenerator) GenerateTaskReport(data TaskReportData) (string, error) {
	filename := data.Filename
	if filename == "" {
		filename = fmt.Sprintf("tasks_%s_%s.pdf", data.Source, data.CreatedAt.Format("20060102_150405"))
	}
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	doc, err := g.render(data)
	if err != nil {
		return "", err
	}
	if err := doc.OutputFileAndClose(absPath); err != nil {
		return "", err
	}
	return "/" + filepath.ToSlash(filepath.Base(absPath)), nil
}

// WriteTaskReport streams the report to w.
func (g *TaskReportGenerator) WriteTaskReport(w io.Writer, data TaskReportData) error {
	doc, err := g.render(data)
	if err != nil {
		return err
	}
	return doc.Output(w)
}

func (g *TaskReportGenerator) render(data TaskReportData) (*gofpdf.Fpdf, error) {
	title := data.Title
	if title == "" {
		title = "Tasks"
	}
	if err := g.checkEncodable(title, data.Tasks); err != nil {
		return nil, err
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle(title, true)
	doc.SetAuthor("tasksource", true)
	doc.SetMargins(20, 20, 20)
	doc.SetAutoPageBreak(true, 20)
	g.addUTF8Font(doc)

	doc.AliasNbPages("")
	doc.SetFooterFunc(func() {
		doc.SetY(-15)
		doc.SetFont(g.fontName, "", 9)
		doc.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", doc.PageNo()), "", 0, "C", false, 0, "")
	})
	doc.AddPage()

	doc.SetFont(g.fontName, "B", 16)
	doc.CellFormat(0, 10, g.text(title), "", 1, "C", false, 0, "")
	doc.SetFont(g.fontName, "", 10)
	sub := fmt.Sprintf("source: %s   tasks: %d   created: %s",
		data.Source, len(data.Tasks), data.CreatedAt.Format("2006-01-02 15:04"))
	doc.CellFormat(0, 6, g.text(sub), "", 1, "C", false, 0, "")
	g.hr(doc)

	g.tableHeader(doc)
	for i, t := range data.Tasks {
		g.tableRow(doc, i, t)
	}
	return doc, nil
}

var columnWidths = []float64{12, 62, 26, 16, 26, 28}

func (g *TaskReportGenerator) tableHeader(doc *gofpdf.Fpdf) {
	doc.SetFont(g.fontName, "B", 10)
	doc.SetFillColor(230, 230, 230)
	for i, h := range []string{"#", "Description", "Due", "Prio", "Status", "Assignee"} {
		doc.CellFormat(columnWidths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	doc.Ln(-1)
}

func (g *TaskReportGenerator) tableRow(doc *gofpdf.Fpdf, i int, t models.Task) {
	doc.SetFont(g.fontName, "", 9)
	num := strconv.Itoa(i + 1)
	if t.ID != nil {
		num = strconv.FormatInt(*t.ID, 10)
	}
	desc := t.Description
	if t.Title != "" {
		desc = t.Title + ": " + t.Description
	}
	assignee := "-"
	if t.AssignedTo != nil {
		assignee = strconv.FormatInt(*t.AssignedTo, 10)
	}
	cells := []string{num, desc, t.DueDate.String(), strconv.Itoa(t.Priority), string(t.Status), assignee}
	for c, v := range cells {
		doc.CellFormat(columnWidths[c], 6, g.fit(doc, v, columnWidths[c]-2), "1", 0, "L", false, 0, "")
	}
	doc.Ln(-1)
}

// fit trims s so it fits into width mm in the current font.
func (g *TaskReportGenerator) fit(doc *gofpdf.Fpdf, s string, width float64) string {
	if out := g.text(s); doc.GetStringWidth(out) <= width {
		return out
	}
	r := []rune(s)
	for len(r) > 0 && doc.GetStringWidth(g.text(string(r)+"...")) > width {
		r = r[:len(r)-1]
	}
	return g.text(string(r) + "...")
}

// text converts s to the encoding of the active font. Core fonts take
// cp1252 bytes; UTF-8 fonts take s unchanged.
func (g *TaskReportGenerator) text(s string) string {
	if g.FontPath != "" {
		return s
	}
	out, err := charmap.Windows1252.NewEncoder().String(s)
	if err != nil {
		return s
	}
	return out
}

func (g *TaskReportGenerator) checkEncodable(title string, tasks []models.Task) error {
	if g.FontPath != "" {
		return nil
	}
	enc := charmap.Windows1252.NewEncoder()
	check := func(s string) error {
		if _, err := enc.String(s); err != nil {
			return fmt.Errorf("%w: %q", ErrFontRequired, s)
		}
		return nil
	}
	if err := check(title); err != nil {
		return err
	}
	for _, t := range tasks {
		if err := check(t.Title); err != nil {
			return err
		}
		if err := check(t.Description); err != nil {
			return err
		}
	}
	return nil
}

func (g *TaskReportGenerator) hr(doc *gofpdf.Fpdf) {
	y := doc.GetY() + 1.5
	doc.SetLineWidth(0.2)
	doc.Line(20, y, 190, y)
	doc.SetY(y + 3)
}

func (g *TaskReportGenerator) ensureTarget(filename string) (string, error) {
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("create files dir: %w", err)
	}
	filename = filepath.Base(filename)
	return filepath.Join(g.RootDir, filename), nil
}

func (g *TaskReportGenerator) addUTF8Font(doc *gofpdf.Fpdf) {
	if g.FontPath == "" {
		return
	}
	doc.AddUTF8Font(g.fontName, "", g.FontPath)
	doc.AddUTF8Font(g.fontName, "B", g.FontPath)
}
