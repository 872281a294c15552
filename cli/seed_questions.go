package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/algebra-practice/backend/internal/question"
	"github.com/algebra-practice/backend/internal/store"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// QuestionSeedRecord is one question of a seed file.
type QuestionSeedRecord struct {
	Text          string   `yaml:"text"`
	Type          string   `yaml:"type"`
	Choices       []string `yaml:"choices,omitempty"`
	CorrectChoice int      `yaml:"correctChoice,omitempty"`
	BlankAnswers  []string `yaml:"blankAnswers,omitempty"`
	Category      string   `yaml:"category,omitempty"`
	Difficulty    string   `yaml:"difficulty,omitempty"`
}

// ToQuestion returns the normalized question of the record.
func (r QuestionSeedRecord) ToQuestion() *question.Question {
	q := &question.Question{
		Text:          r.Text,
		Type:          question.Type(r.Type),
		Choices:       r.Choices,
		CorrectChoice: r.CorrectChoice,
		BlankAnswers:  r.BlankAnswers,
		Category:      r.Category,
		Difficulty:    question.Difficulty(r.Difficulty),
	}
	q.Normalize()

	return q
}

// ParseQuestionSeedRecords parses a YAML list of question records.
func ParseQuestionSeedRecords(content []byte) ([]QuestionSeedRecord, error) {
	var records []QuestionSeedRecord
	if err := yaml.Unmarshal(content, &records); err != nil {
		return nil, err
	}

	return records, nil
}

// SeedQuestions validates every record, creates the missing categories and
// saves the questions. A question whose text already exists in its category
// is skipped. It returns the number of questions created.
func (c *Context) SeedQuestions(ctx context.Context, records []QuestionSeedRecord) (int, error) {
	questions := make([]*question.Question, 0, len(records))
	for i, record := range records {
		q := record.ToQuestion()
		if err := q.Validate(); err != nil {
			return 0, fmt.Errorf("question seed record #%d: %w", i, err)
		}
		questions = append(questions, q)
	}

	categories := lo.Uniq(lo.Map(questions, func(q *question.Question, _ int) string {
		return q.Category
	}))
	for _, name := range categories {
		if _, err := c.store.EnsureCategory(ctx, name, ""); err != nil {
			return 0, fmt.Errorf("ensure category %q: %w", name, err)
		}
	}

	created := 0
	for _, q := range questions {
		existing, err := c.store.ListQuestions(ctx, store.QuestionFilter{Category: q.Category})
		if err != nil {
			return created, fmt.Errorf("list questions in %q: %w", q.Category, err)
		}
		if lo.ContainsBy(existing, func(e *question.Question) bool { return e.Text == q.Text }) {
			log.Printf("⚠️ Question %q already exists in %q, skipping creation", q.Text, q.Category)
			continue
		}

		if err := c.store.SaveQuestion(ctx, q); err != nil {
			return created, fmt.Errorf("save question %q: %w", q.Text, err)
		}

		created++
		log.Printf("✅ Question #%d (%s, %q) is created", q.ID, q.Type, q.Category)
	}

	return created, nil
}
