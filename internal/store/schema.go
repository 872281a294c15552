package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	categoriesTable  = "categories"
	questionsTable   = "questions"
	submissionsTable = "submissions"
)

var (
	// CategoriesColumns holds the columns for the "categories" table.
	CategoriesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "name", Type: field.TypeString, Unique: true},
		{Name: "description", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	// CategoriesTable holds the schema information for the "categories" table.
	CategoriesTable = &schema.Table{
		Name:       categoriesTable,
		Columns:    CategoriesColumns,
		PrimaryKey: []*schema.Column{CategoriesColumns[0]},
	}
	// QuestionsColumns holds the columns for the "questions" table.
	QuestionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "text", Type: field.TypeString, Size: 2147483647},
		{Name: "type", Type: field.TypeEnum, Enums: []string{"single-select", "fill-blank"}},
		{Name: "choices", Type: field.TypeJSON, Nullable: true},
		{Name: "correct_choice", Type: field.TypeInt, Default: 0},
		{Name: "blank_answers", Type: field.TypeJSON, Nullable: true},
		{Name: "category", Type: field.TypeString},
		{Name: "difficulty", Type: field.TypeEnum, Enums: []string{"easy", "medium", "hard"}, Default: "medium"},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// QuestionsTable holds the schema information for the "questions" table.
	QuestionsTable = &schema.Table{
		Name:       questionsTable,
		Columns:    QuestionsColumns,
		PrimaryKey: []*schema.Column{QuestionsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "question_category",
				Unique:  false,
				Columns: []*schema.Column{QuestionsColumns[6]},
			},
		},
	}
	// SubmissionsColumns holds the columns for the "submissions" table.
	SubmissionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "answer", Type: field.TypeJSON, Nullable: true},
		{Name: "correct", Type: field.TypeBool},
		{Name: "attempt", Type: field.TypeInt, Default: 1},
		{Name: "client", Type: field.TypeString, Default: ""},
		{Name: "submitted_at", Type: field.TypeTime},
		{Name: "question_id", Type: field.TypeInt},
	}
	// SubmissionsTable holds the schema information for the "submissions" table.
	SubmissionsTable = &schema.Table{
		Name:       submissionsTable,
		Columns:    SubmissionsColumns,
		PrimaryKey: []*schema.Column{SubmissionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "submissions_questions_submissions",
				Columns:    []*schema.Column{SubmissionsColumns[6]},
				RefColumns: []*schema.Column{QuestionsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "submission_question_id",
				Unique:  false,
				Columns: []*schema.Column{SubmissionsColumns[6]},
			},
		},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		CategoriesTable,
		QuestionsTable,
		SubmissionsTable,
	}
)

func init() {
	SubmissionsTable.ForeignKeys[0].RefTable = QuestionsTable
}

// Migrate creates or upgrades the schema.
func (s *Store) Migrate(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Migrate")
	defer span.End()

	migrate, err := schema.NewMigrate(entsql.OpenDB(s.dialect, s.db))
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("ent/migrate: %w", err)
	}

	if err := migrate.Create(ctx, Tables...); err != nil {
		span.RecordError(err)
		return fmt.Errorf("ent/migrate: create schema: %w", err)
	}

	return nil
}
