package contacts

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/goliatone/go-formflow/pkg/persistence"
	"github.com/goliatone/go-formflow/pkg/search"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned when no contact matches an id.
var ErrNotFound = errors.New("contacts: not found")

// Migrate creates or upgrades the contacts schema.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return persistence.Migrate(ctx, db, migrationsFS, "migrations")
}

// Repository runs read queries against the contacts table. Writes go
// through the save workflow's unit of work.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Find loads a contact by id.
func (r *Repository) Find(ctx context.Context, id uint) (*Contact, error) {
	var contact Contact
	err := r.db.WithContext(ctx).First(&contact, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("contacts: find %d: %w", id, err)
	}
	return &contact, nil
}

// Search matches query against names and email, ordered by id. An empty
// query matches every contact.
func (r *Repository) Search(ctx context.Context, query string, page, perPage int) ([]Contact, int64, error) {
	if perPage <= 0 {
		perPage = search.DefaultPerPage
	}
	matching := r.matching(ctx, query)

	var total int64
	if err := matching().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("contacts: count: %w", err)
	}

	offset := search.Offset(page, perPage)
	if int64(offset) >= total {
		return []Contact{}, total, nil
	}

	var out []Contact
	err := matching().
		Order("id ASC").
		Offset(offset).
		Limit(perPage).
		Find(&out).Error
	if err != nil {
		return nil, 0, fmt.Errorf("contacts: search: %w", err)
	}
	return out, total, nil
}

func (r *Repository) matching(ctx context.Context, query string) func() *gorm.DB {
	query = strings.TrimSpace(query)
	return func() *gorm.DB {
		tx := r.db.WithContext(ctx).Model(&Contact{})
		if query == "" {
			return tx
		}
		pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
		return tx.Where(
			`LOWER(first_name) LIKE ? ESCAPE '\' OR LOWER(last_name) LIKE ? ESCAPE '\' OR LOWER(first_name || ' ' || last_name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern, pattern,
		)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
