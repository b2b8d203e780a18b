package process

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/freightdesk/freightdesk/internal/platform/store"
)

// Repository defines persistence for the process document and the status
// catalog.
type Repository interface {
	Document(ctx context.Context) (*Document, error)
	SaveDocument(ctx context.Context, doc *Document) error
	Catalog(ctx context.Context) (*StatusCatalog, error)
	SaveCatalog(ctx context.Context, catalog *StatusCatalog) error
}

// FileRepository implements Repository on JSON files.
type FileRepository struct {
	mu     sync.Mutex
	data   *store.File
	status *store.File
}

// NewRepository constructs a file backed repository over the process
// document and status catalog paths.
func NewRepository(dataPath, statusPath string) *FileRepository {
	return &FileRepository{
		data:   store.NewFile(dataPath),
		status: store.NewFile(statusPath),
	}
}

// DefaultDocument returns the document used when no data file exists yet.
func DefaultDocument() *Document {
	return &Document{
		CompanyInfo: CompanyInfo{
			Name:     "JGR BROKER",
			LogoPath: "assets/images/jgr_logo.png",
			Contact:  "contato@jgrbroker.com",
			Phone:    "+55 (XX) XXXX-XXXX",
		},
		Config:    Config{StorageDaysPerPeriod: DefaultPeriodDays},
		Processes: []*Process{},
	}
}

// Document loads and normalizes the process document. A missing file yields
// the default document.
func (r *FileRepository) Document(ctx context.Context) (*Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var doc Document
	if err := r.data.Load(&doc); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultDocument(), nil
		}
		return nil, err
	}
	for _, p := range doc.Processes {
		p.Normalize()
	}
	return &doc, nil
}

// SaveDocument writes the process document atomically.
func (r *FileRepository) SaveDocument(ctx context.Context, doc *Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data.Save(doc)
}

// Catalog loads the status catalog, migrating the legacy list format. A
// missing file yields the default catalog.
func (r *FileRepository) Catalog(ctx context.Context) (*StatusCatalog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var catalog StatusCatalog
	if err := r.status.Load(&catalog); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			def := DefaultStatusCatalog()
			return &def, nil
		}
		return nil, err
	}
	catalog.Normalize()
	return &catalog, nil
}

// SaveCatalog writes the status catalog atomically.
func (r *FileRepository) SaveCatalog(ctx context.Context, catalog *StatusCatalog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status.Save(catalog)
}

var _ Repository = (*FileRepository)(nil)
