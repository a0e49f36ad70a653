package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/recipebox/recipebox-api/internal/model"
)

// attributeTable describes where an attribute kind lives and how recipes link to it.
type attributeTable struct {
	table      string
	joinTable  string
	joinColumn string
}

var (
	tagTable        = attributeTable{table: "tags", joinTable: "recipe_tags", joinColumn: "tag_id"}
	ingredientTable = attributeTable{table: "ingredients", joinTable: "recipe_ingredients", joinColumn: "ingredient_id"}
)

// AttributeRepository persists one attribute kind (tags or ingredients).
// Every query is scoped by the owning user.
type AttributeRepository struct {
	db *sql.DB
	t  attributeTable
}

func NewTagRepository(db *sql.DB) *AttributeRepository {
	return &AttributeRepository{db: db, t: tagTable}
}

func NewIngredientRepository(db *sql.DB) *AttributeRepository {
	return &AttributeRepository{db: db, t: ingredientTable}
}

// ListByUser returns the user's attributes ordered by name descending. With
// assignedOnly set, only attributes linked to at least one of the user's
// recipes are returned, each once.
func (r *AttributeRepository) ListByUser(ctx context.Context, userID int64, assignedOnly bool) ([]model.Attribute, error) {
	query := fmt.Sprintf(`SELECT a.id, a.user_id, a.name FROM %s a WHERE a.user_id = ?`, r.t.table)
	if assignedOnly {
		query += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM %s j JOIN recipes rc ON rc.id = j.recipe_id
			WHERE j.%s = a.id AND rc.user_id = ?)`, r.t.joinTable, r.t.joinColumn)
	}
	query += ` ORDER BY a.name DESC, a.id DESC`

	args := []any{userID}
	if assignedOnly {
		args = append(args, userID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attrs := []model.Attribute{}
	for rows.Next() {
		var a model.Attribute
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name); err != nil {
			return nil, err
		}
		attrs = append(attrs, a)
	}

	return attrs, rows.Err()
}

// Create inserts attr and sets its generated ID.
func (r *AttributeRepository) Create(ctx context.Context, attr *model.Attribute) error {
	query := fmt.Sprintf(`INSERT INTO %s (user_id, name) VALUES (?, ?)`, r.t.table)

	result, err := r.db.ExecContext(ctx, query, attr.UserID, attr.Name)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	attr.ID = id
	return nil
}

// MissingIDs returns the ids in ids that do not exist or belong to another user.
func (r *AttributeRepository) MissingIDs(ctx context.Context, userID int64, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	in, args := inClause(ids)
	query := fmt.Sprintf(`SELECT id FROM %s WHERE user_id = ? AND id IN (%s)`, r.t.table, in)

	rows, err := r.db.QueryContext(ctx, query, append([]any{userID}, args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	owned := make(map[int64]bool, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		owned[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []int64
	for _, id := range ids {
		if !owned[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
