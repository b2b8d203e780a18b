package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/freightdesk/freightdesk/internal/observability"
	"github.com/freightdesk/freightdesk/internal/process"
	"github.com/freightdesk/freightdesk/internal/shared"
)

// Options customises one generated report.
type Options struct {
	// ClientID narrows the filename suffix when no client name is known.
	ClientID string
	// ClientName personalises the title and filename.
	ClientName string
	// Archived marks the report as covering archived processes.
	Archived bool
	// ClientView drops client-assignment audit entries from the details.
	ClientView bool
}

// Artifact is one rendered report on disk.
type Artifact struct {
	Path     string
	Filename string
	HTML     []byte
}

// DataURI returns the artifact as a base64 data link suitable for an HTML
// download anchor.
func (a *Artifact) DataURI() string {
	return "data:text/html;base64," + base64.StdEncoding.EncodeToString(a.HTML)
}

// Generator renders process listings into self-contained HTML files.
type Generator struct {
	dir     string
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewGenerator constructs a Generator writing into dir.
func NewGenerator(dir string, logger *slog.Logger, metrics *observability.Metrics) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{dir: dir, logger: logger, metrics: metrics}
}

// Generate renders the rows into a standalone HTML artifact. An empty row
// set yields shared.ErrNoData and no file.
func (g *Generator) Generate(rows []Row, company process.CompanyInfo, opts Options) (*Artifact, error) {
	if len(rows) == 0 {
		return nil, shared.ErrNoData
	}

	title := "Processos de Importação e Exportação"
	if opts.Archived {
		title += " Arquivados"
	}
	if opts.ClientName != "" {
		title += " - Cliente: " + opts.ClientName
	}
	title += " - " + company.Name

	data := pageData{
		Title:        title,
		Company:      company,
		GeneratedAt:  time.Now().Format("02/01/2006 15:04"),
		Columns:      Columns,
		Rows:         rows,
		StatusCounts: CountStatuses(rows),
		PageSize:     PageSize,
		ClientName:   opts.ClientName,
		Archived:     opts.Archived,
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("report: render: %w", err)
	}

	filename := artifactFilename(opts)
	path := filepath.Join(g.dir, filename)
	if err := writeAtomic(g.dir, path, buf.Bytes()); err != nil {
		return nil, err
	}

	if g.metrics != nil {
		g.metrics.ObserveReportRendered()
	}
	g.logger.Info("report rendered",
		slog.String("file", filename),
		slog.Int("rows", len(rows)))

	return &Artifact{Path: path, Filename: filename, HTML: buf.Bytes()}, nil
}

func artifactFilename(opts Options) string {
	var clientSuffix string
	if opts.ClientName != "" {
		clientSuffix = "_cliente_" + strings.ReplaceAll(opts.ClientName, " ", "_")
	} else if opts.ClientID != "" {
		clientSuffix = "_cliente_" + opts.ClientID
	}
	var archivedSuffix string
	if opts.Archived {
		archivedSuffix = "_arquivados"
	}
	stamp := time.Now().Format("20060102_150405")
	token := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("processos%s%s_%s_%s.html", clientSuffix, archivedSuffix, stamp, token)
}

func writeAtomic(dir, path string, content []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("report: create export dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".report-*.html")
	if err != nil {
		return fmt.Errorf("report: create temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("report: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("report: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("report: replace artifact: %w", err)
	}
	return nil
}
