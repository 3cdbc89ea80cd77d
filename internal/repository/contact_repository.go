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

var contactSearchFields = []string{"first_name", "last_name", "email_address", "message"}

var contactSortColumns = map[string]string{
	"createdAt": "created_at",
	"firstName": "first_name",
	"lastName":  "last_name",
}

// ContactRepository encapsulates contact message persistence.
type ContactRepository interface {
	Create(ctx context.Context, message *domain.ContactMessage) error
	GetByID(ctx context.Context, id string) (*domain.ContactMessage, error)
	ListPage(ctx context.Context, keyword string, page query.Page) ([]domain.ContactMessage, int, error)
}

type contactRepository struct {
	pool *pgxpool.Pool
}

// NewContactRepository instantiates repository.
func NewContactRepository(pool *pgxpool.Pool) ContactRepository {
	return &contactRepository{pool: pool}
}

func (r *contactRepository) Create(ctx context.Context, message *domain.ContactMessage) error {
	const sql = `
        INSERT INTO contact_messages (first_name, last_name, email_address, message)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, sql,
		message.FirstName,
		message.LastName,
		strings.ToLower(message.EmailAddress),
		message.Message,
	).Scan(&message.ID, &message.CreatedAt, &message.UpdatedAt)
}

func (r *contactRepository) GetByID(ctx context.Context, id string) (*domain.ContactMessage, error) {
	const sql = `
        SELECT id, first_name, last_name, email_address, message, created_at, updated_at
        FROM contact_messages WHERE id=$1`
	var message domain.ContactMessage
	if err := r.pool.QueryRow(ctx, sql, id).Scan(
		&message.ID,
		&message.FirstName,
		&message.LastName,
		&message.EmailAddress,
		&message.Message,
		&message.CreatedAt,
		&message.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *contactRepository) ListPage(ctx context.Context, keyword string, page query.Page) ([]domain.ContactMessage, int, error) {
	args := []any{}
	clauses := []string{"1=1"}
	if kw := query.KeywordFilter(keyword, contactSearchFields, &args); kw != "" {
		clauses = append(clauses, kw)
	}
	where := strings.Join(clauses, " AND ")

	listSQL := fmt.Sprintf(`SELECT id, first_name, last_name, email_address, message, created_at, updated_at
        FROM contact_messages WHERE %s %s %s`,
		where, page.OrderClause(contactSortColumns, "created_at"), page.LimitOffsetClause())
	countSQL := fmt.Sprintf(`SELECT COUNT(*) FROM contact_messages WHERE %s`, where)

	batch := &pgx.Batch{}
	batch.Queue(listSQL, args...)
	batch.Queue(countSQL, args...)

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	rows, err := results.Query()
	if err != nil {
		return nil, 0, err
	}
	items, err := scanContactMessages(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := results.QueryRow().Scan(&total); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func scanContactMessages(rows pgx.Rows) ([]domain.ContactMessage, error) {
	var result []domain.ContactMessage
	for rows.Next() {
		var message domain.ContactMessage
		if err := rows.Scan(
			&message.ID,
			&message.FirstName,
			&message.LastName,
			&message.EmailAddress,
			&message.Message,
			&message.CreatedAt,
			&message.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, message)
	}
	return result, rows.Err()
}
