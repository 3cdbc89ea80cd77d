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

var teamSearchFields = []string{"name", "role", "description"}

var teamSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"name":      "name",
	"role":      "role",
}

// TeamRepository encapsulates team member persistence.
type TeamRepository interface {
	Create(ctx context.Context, member *domain.TeamMember) error
	GetByID(ctx context.Context, id string) (*domain.TeamMember, error)
	ListPage(ctx context.Context, keyword string, page query.Page) ([]domain.TeamMember, int, error)
	Update(ctx context.Context, member *domain.TeamMember) error
	Delete(ctx context.Context, id string) error
}

type teamRepository struct {
	pool *pgxpool.Pool
}

// NewTeamRepository instantiates repository.
func NewTeamRepository(pool *pgxpool.Pool) TeamRepository {
	return &teamRepository{pool: pool}
}

func (r *teamRepository) Create(ctx context.Context, member *domain.TeamMember) error {
	const sql = `
        INSERT INTO team_members (name, role, description, image)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, sql,
		member.Name,
		member.Role,
		member.Description,
		member.Image,
	).Scan(&member.ID, &member.CreatedAt, &member.UpdatedAt)
}

func (r *teamRepository) GetByID(ctx context.Context, id string) (*domain.TeamMember, error) {
	const sql = `
        SELECT id, name, role, description, image, created_at, updated_at
        FROM team_members WHERE id=$1`
	var member domain.TeamMember
	if err := r.pool.QueryRow(ctx, sql, id).Scan(
		&member.ID,
		&member.Name,
		&member.Role,
		&member.Description,
		&member.Image,
		&member.CreatedAt,
		&member.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *teamRepository) ListPage(ctx context.Context, keyword string, page query.Page) ([]domain.TeamMember, int, error) {
	args := []any{}
	clauses := []string{"1=1"}
	if kw := query.KeywordFilter(keyword, teamSearchFields, &args); kw != "" {
		clauses = append(clauses, kw)
	}
	where := strings.Join(clauses, " AND ")

	listSQL := fmt.Sprintf(`SELECT id, name, role, description, image, created_at, updated_at
        FROM team_members WHERE %s %s %s`,
		where, page.OrderClause(teamSortColumns, "created_at"), page.LimitOffsetClause())
	countSQL := fmt.Sprintf(`SELECT COUNT(*) FROM team_members WHERE %s`, where)

	batch := &pgx.Batch{}
	batch.Queue(listSQL, args...)
	batch.Queue(countSQL, args...)

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	rows, err := results.Query()
	if err != nil {
		return nil, 0, err
	}
	items, err := scanTeamMembers(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := results.QueryRow().Scan(&total); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *teamRepository) Update(ctx context.Context, member *domain.TeamMember) error {
	const sql = `
        UPDATE team_members SET name=$1, role=$2, description=$3, image=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, sql,
		member.Name,
		member.Role,
		member.Description,
		member.Image,
		member.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *teamRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM team_members WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanTeamMembers(rows pgx.Rows) ([]domain.TeamMember, error) {
	var result []domain.TeamMember
	for rows.Next() {
		var member domain.TeamMember
		if err := rows.Scan(
			&member.ID,
			&member.Name,
			&member.Role,
			&member.Description,
			&member.Image,
			&member.CreatedAt,
			&member.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, member)
	}
	return result, rows.Err()
}
