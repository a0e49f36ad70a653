package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/recipebox/recipebox-api/internal/model"
)

var ErrRecipeNotFound = errors.New("recipe not found")

const recipeColumns = `r.id, r.user_id, r.title, r.time_minutes, r.price, r.image`

// RecipeRepository handles recipe persistence and the recipe_tags and
// recipe_ingredients link tables.
type RecipeRepository struct {
	db *sql.DB
}

// NewRecipeRepository creates a new RecipeRepository.
func NewRecipeRepository(db *sql.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// List returns the user's recipes, newest first, with link ids populated.
func (r *RecipeRepository) List(ctx context.Context, userID int64, filter model.RecipeFilter) ([]model.Recipe, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + recipeColumns + ` FROM recipes r WHERE r.user_id = ?`)
	args := []any{userID}

	for _, f := range []struct {
		t   attributeTable
		ids []int64
	}{
		{tagTable, filter.TagIDs},
		{ingredientTable, filter.IngredientIDs},
	} {
		if len(f.ids) == 0 {
			continue
		}
		in, inArgs := inClause(f.ids)
		fmt.Fprintf(&sb, ` AND EXISTS (SELECT 1 FROM %s j WHERE j.recipe_id = r.id AND j.%s IN (%s))`,
			f.t.joinTable, f.t.joinColumn, in)
		args = append(args, inArgs...)
	}
	sb.WriteString(` ORDER BY r.id DESC`)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := []model.Recipe{}
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadLinkIDs(ctx, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// Get returns one of the user's recipes with its tags and ingredients resolved.
// A recipe owned by someone else is reported as ErrRecipeNotFound.
func (r *RecipeRepository) Get(ctx context.Context, userID, id int64) (*model.RecipeDetail, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes r WHERE r.id = ? AND r.user_id = ?`, id, userID)

	rec, err := scanRecipe(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	detail := &model.RecipeDetail{Recipe: *rec}
	if detail.Tags, err = r.linkedAttributes(ctx, tagTable, id); err != nil {
		return nil, err
	}
	if detail.Ingredients, err = r.linkedAttributes(ctx, ingredientTable, id); err != nil {
		return nil, err
	}
	for _, t := range detail.Tags {
		detail.TagIDs = append(detail.TagIDs, t.ID)
	}
	for _, i := range detail.Ingredients {
		detail.IngredientIDs = append(detail.IngredientIDs, i.ID)
	}

	return detail, nil
}

// Create inserts rec and its links in one transaction and sets the generated ID.
func (r *RecipeRepository) Create(ctx context.Context, rec *model.Recipe) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO recipes (user_id, title, time_minutes, price, image) VALUES (?, ?, ?, ?, ?)`,
			rec.UserID, rec.Title, rec.TimeMinutes, rec.Price, rec.Image,
		)
		if err != nil {
			return err
		}

		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		rec.ID = id

		if err := replaceLinks(ctx, tx, tagTable, id, rec.TagIDs); err != nil {
			return err
		}
		return replaceLinks(ctx, tx, ingredientTable, id, rec.IngredientIDs)
	})
}

// Update writes the scalar fields of rec. Link sets are rewritten only when
// the matching replace flag is set; otherwise they are left untouched.
func (r *RecipeRepository) Update(ctx context.Context, rec *model.Recipe, replaceTags, replaceIngredients bool) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM recipes WHERE id = ? AND user_id = ?`, rec.ID, rec.UserID).Scan(&exists)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRecipeNotFound
			}
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE recipes SET title = ?, time_minutes = ?, price = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND user_id = ?`,
			rec.Title, rec.TimeMinutes, rec.Price, rec.ID, rec.UserID,
		)
		if err != nil {
			return err
		}

		if replaceTags {
			if err := replaceLinks(ctx, tx, tagTable, rec.ID, rec.TagIDs); err != nil {
				return err
			}
		}
		if replaceIngredients {
			if err := replaceLinks(ctx, tx, ingredientTable, rec.ID, rec.IngredientIDs); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetImage records the stored image path of a recipe.
func (r *RecipeRepository) SetImage(ctx context.Context, userID, id int64, path string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE recipes SET image = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?`,
		path, id, userID)
	if err != nil {
		return err
	}
	return expectAffected(result, ErrRecipeNotFound)
}

// Delete removes a recipe; its link rows cascade.
func (r *RecipeRepository) Delete(ctx context.Context, userID, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return expectAffected(result, ErrRecipeNotFound)
}

func expectAffected(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func scanRecipe(scanner interface{ Scan(dest ...any) error }) (*model.Recipe, error) {
	var rec model.Recipe
	if err := scanner.Scan(&rec.ID, &rec.UserID, &rec.Title, &rec.TimeMinutes, &rec.Price, &rec.Image); err != nil {
		return nil, err
	}
	return &rec, nil
}

// replaceLinks deletes the recipe's rows in t's join table and inserts ids.
func replaceLinks(ctx context.Context, tx *sql.Tx, t attributeTable, recipeID int64, ids []int64) error {
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE recipe_id = ?`, t.joinTable), recipeID); err != nil {
		return err
	}

	insert := fmt.Sprintf(`INSERT INTO %s (recipe_id, %s) VALUES (?, ?)`, t.joinTable, t.joinColumn)
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, err := tx.ExecContext(ctx, insert, recipeID, id); err != nil {
			return fmt.Errorf("link %s %d: %w", t.joinColumn, id, err)
		}
	}
	return nil
}

func (r *RecipeRepository) linkedAttributes(ctx context.Context, t attributeTable, recipeID int64) ([]model.Attribute, error) {
	query := fmt.Sprintf(`SELECT a.id, a.user_id, a.name FROM %s a
		JOIN %s j ON j.%s = a.id
		WHERE j.recipe_id = ? ORDER BY a.id`, t.table, t.joinTable, t.joinColumn)

	rows, err := r.db.QueryContext(ctx, query, recipeID)
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

// loadLinkIDs fills TagIDs and IngredientIDs for recipes with one query per join table.
func (r *RecipeRepository) loadLinkIDs(ctx context.Context, recipes []model.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	index := make(map[int64]int, len(recipes))
	ids := make([]int64, len(recipes))
	for i, rec := range recipes {
		index[rec.ID] = i
		ids[i] = rec.ID
	}
	in, args := inClause(ids)

	for _, t := range []attributeTable{tagTable, ingredientTable} {
		query := fmt.Sprintf(`SELECT recipe_id, %s FROM %s WHERE recipe_id IN (%s) ORDER BY %s`,
			t.joinColumn, t.joinTable, in, t.joinColumn)

		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		for rows.Next() {
			var recipeID, attrID int64
			if err := rows.Scan(&recipeID, &attrID); err != nil {
				rows.Close()
				return err
			}
			rec := &recipes[index[recipeID]]
			if t == tagTable {
				rec.TagIDs = append(rec.TagIDs, attrID)
			} else {
				rec.IngredientIDs = append(rec.IngredientIDs, attrID)
			}
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
