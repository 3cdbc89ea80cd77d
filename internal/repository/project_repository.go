package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/cms-service/internal/domain"
	"github.com/spec-kit/cms-service/internal/query"
)

// projectSearchFields are the columns the keyword filter searches, in order.
var projectSearchFields = []string{"title", "description"}

// projectSortColumns whitelists client-facing sort fields.
var projectSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
}

// ProjectRepository encapsulates project persistence.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	ListPage(ctx context.Context, keyword string, page query.Page) ([]domain.Project, int, error)
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository instantiates repository.
func NewProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &projectRepository{pool: pool}
}

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) error {
	const sql = `
        INSERT INTO projects (title, description, image)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, sql,
		project.Title,
		project.Description,
		project.Image,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	const sql = `
        SELECT id, title, description, image, created_at, updated_at
        FROM projects WHERE id=$1`
	var project domain.Project
	if err := r.pool.QueryRow(ctx, sql, id).Scan(
		&project.ID,
		&project.Title,
		&project.Description,
		&project.Image,
		&project.CreatedAt,
		&project.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &project, nil
}

// ListPage returns one sorted page of projects plus the total count of the
// filtered set before skip/limit. Both statements ride a single batch so the
// pair is computed in one round trip.
func (r *projectRepository) ListPage(ctx context.Context, keyword string, page query.Page) ([]domain.Project, int, error) {
	args := []any{}
	clauses := []string{"1=1"}
	if kw := query.KeywordFilter(keyword, projectSearchFields, &args); kw != "" {
		clauses = append(clauses, kw)
	}
	where := strings.Join(clauses, " AND ")

	listSQL := fmt.Sprintf(`SELECT id, title, description, image, created_at, updated_at
        FROM projects WHERE %s %s %s`,
		where, page.OrderClause(projectSortColumns, "created_at"), page.LimitOffsetClause())
	countSQL := fmt.Sprintf(`SELECT COUNT(*) FROM projects WHERE %s`, where)

	batch := &pgx.Batch{}
	batch.Queue(listSQL, args...)
	batch.Queue(countSQL, args...)

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	rows, err := results.Query()
	if err != nil {
		return nil, 0, err
	}
	items, err := scanProjects(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := results.QueryRow().Scan(&total); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *projectRepository) Update(ctx context.Context, project *domain.Project) error {
	const sql = `
        UPDATE projects SET title=$1, description=$2, image=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, sql,
		project.Title,
		project.Description,
		project.Image,
		project.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanProjects(rows pgx.Rows) ([]domain.Project, error) {
	var result []domain.Project
	for rows.Next() {
		var project domain.Project
		if err := rows.Scan(
			&project.ID,
			&project.Title,
			&project.Description,
			&project.Image,
			&project.CreatedAt,
			&project.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, project)
	}
	return result, rows.Err()
}
