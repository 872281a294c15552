package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	"github.com/algebra-practice/backend/models"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ListCategories returns every category with its question count, ordered by id.
func (s *Store) ListCategories(ctx context.Context) ([]*models.Category, error) {
	ctx, span := tracer.Start(ctx, "ListCategories")
	defer span.End()

	b := s.builder()
	c := b.Table(categoriesTable)
	q := b.Table(questionsTable).As("q")

	query, args := b.
		Select(c.C("id"), c.C("name"), c.C("description"), entsql.Count(q.C("id"))).
		From(c).
		LeftJoin(q).
		On(c.C("name"), q.C("category")).
		GroupBy(c.C("id"), c.C("name"), c.C("description")).
		OrderBy(c.C("id")).
		Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		span.SetStatus(otelcodes.Error, "Failed to list categories")
		span.RecordError(err)
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*models.Category, 0)
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Description, &category.QuestionCount); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, &category)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list categories: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "Categories listed")
	return categories, nil
}

// GetCategory returns the category with the given id, or ErrNotFound.
func (s *Store) GetCategory(ctx context.Context, id int) (*models.Category, error) {
	return s.getCategory(ctx, entsql.EQ("id", id))
}

// GetCategoryByName returns the category with the given name, or ErrNotFound.
func (s *Store) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	return s.getCategory(ctx, entsql.EQ("name", strings.TrimSpace(name)))
}

func (s *Store) getCategory(ctx context.Context, where *entsql.Predicate) (*models.Category, error) {
	query, args := s.builder().
		Select("id", "name", "description").
		From(s.builder().Table(categoriesTable)).
		Where(where).
		Query()

	var category models.Category
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&category.ID, &category.Name, &category.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	count, err := s.countQuestionsInCategory(ctx, s.db, category.Name)
	if err != nil {
		return nil, err
	}
	category.QuestionCount = count

	return &category, nil
}

// CreateCategory creates a category. It returns ErrConflict when the name is taken.
func (s *Store) CreateCategory(ctx context.Context, name, description string) (*models.Category, error) {
	ctx, span := tracer.Start(ctx, "CreateCategory",
		trace.WithAttributes(
			attribute.String("category.name", name),
		))
	defer span.End()

	name = strings.TrimSpace(name)

	id, err := s.insert(ctx, s.db, s.builder().
		Insert(categoriesTable).
		Columns("name", "description").
		Values(name, description))
	if err != nil {
		if sqlgraph.IsUniqueConstraintError(err) {
			span.SetStatus(otelcodes.Error, "Category already exists")
			return nil, fmt.Errorf("%w: category %q", ErrConflict, name)
		}

		span.SetStatus(otelcodes.Error, "Failed to create category")
		span.RecordError(err)
		return nil, fmt.Errorf("create category: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "Category created")
	return &models.Category{ID: id, Name: name, Description: description}, nil
}

// EnsureCategory returns the category with the given name, creating it when
// it does not exist.
func (s *Store) EnsureCategory(ctx context.Context, name, description string) (*models.Category, error) {
	category, err := s.GetCategoryByName(ctx, name)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	category, err = s.CreateCategory(ctx, name, description)
	if errors.Is(err, ErrConflict) {
		// created concurrently
		return s.GetCategoryByName(ctx, name)
	}
	return category, err
}

// UpdateCategory renames a category and changes its description. Questions
// labelled with the old name are moved in the same transaction.
func (s *Store) UpdateCategory(ctx context.Context, id int, name, description string) (*models.Category, error) {
	ctx, span := tracer.Start(ctx, "UpdateCategory",
		trace.WithAttributes(
			attribute.Int("category.id", id),
			attribute.String("category.name", name),
		))
	defer span.End()

	name = strings.TrimSpace(name)

	current, err := s.GetCategory(ctx, id)
	if err != nil {
		span.SetStatus(otelcodes.Error, "Category not found")
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args := s.builder().
		Update(categoriesTable).
		Set("name", name).
		Set("description", description).
		Where(entsql.EQ("id", id)).
		Query()
	if err := exec(ctx, tx, query, args); err != nil {
		if sqlgraph.IsUniqueConstraintError(err) {
			span.SetStatus(otelcodes.Error, "Category already exists")
			return nil, fmt.Errorf("%w: category %q", ErrConflict, name)
		}

		span.SetStatus(otelcodes.Error, "Failed to update category")
		span.RecordError(err)
		return nil, fmt.Errorf("update category: %w", err)
	}

	if current.Name != name {
		// a new version keeps cached renderings from showing the old name
		query, args = s.builder().
			Update(questionsTable).
			Set("category", name).
			Set("updated_at", time.Now().UTC().Truncate(time.Microsecond)).
			Where(entsql.EQ("category", current.Name)).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			span.SetStatus(otelcodes.Error, "Failed to move questions")
			span.RecordError(err)
			return nil, fmt.Errorf("move questions to category %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("commit: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "Category updated")
	return &models.Category{
		ID:            id,
		Name:          name,
		Description:   description,
		QuestionCount: current.QuestionCount,
	}, nil
}

// DeleteCategory deletes an unused category. It returns ErrCategoryInUse when
// questions still carry its name.
func (s *Store) DeleteCategory(ctx context.Context, id int) error {
	ctx, span := tracer.Start(ctx, "DeleteCategory",
		trace.WithAttributes(
			attribute.Int("category.id", id),
		))
	defer span.End()

	category, err := s.GetCategory(ctx, id)
	if err != nil {
		span.SetStatus(otelcodes.Error, "Category not found")
		return err
	}
	if category.QuestionCount > 0 {
		span.SetStatus(otelcodes.Error, "Category in use")
		return fmt.Errorf("%w: %d questions in %q", ErrCategoryInUse, category.QuestionCount, category.Name)
	}

	query, args := s.builder().
		Delete(categoriesTable).
		Where(entsql.EQ("id", id)).
		Query()
	if err := exec(ctx, s.db, query, args); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}

		span.SetStatus(otelcodes.Error, "Failed to delete category")
		span.RecordError(err)
		return fmt.Errorf("delete category: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "Category deleted")
	return nil
}

func (s *Store) categoryExists(ctx context.Context, q querier, name string) (bool, error) {
	query, args := s.builder().
		Select(entsql.Count("*")).
		From(s.builder().Table(categoriesTable)).
		Where(entsql.EQ("name", name)).
		Query()

	var count int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("look up category %q: %w", name, err)
	}
	return count > 0, nil
}

func (s *Store) countQuestionsInCategory(ctx context.Context, q querier, name string) (int, error) {
	query, args := s.builder().
		Select(entsql.Count("*")).
		From(s.builder().Table(questionsTable)).
		Where(entsql.EQ("category", name)).
		Query()

	var count int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count questions in %q: %w", name, err)
	}
	return count, nil
}
