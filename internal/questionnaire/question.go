package questionnaire

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var defaultCatalogYAML []byte

// QuestionID is the stable identity of a question. Answers are keyed by it,
// never by display position.
type QuestionID int

// Question is a single yes/no prompt in the self-assessment.
type Question struct {
	ID       QuestionID `yaml:"id" json:"id"`
	Section  string     `yaml:"section" json:"section"`
	Text     string     `yaml:"text" json:"text"`
	Optional bool       `yaml:"optional" json:"optional"`
}

// catalogFile is the on-disk YAML layout.
type catalogFile struct {
	Version   int        `yaml:"version"`
	Questions []Question `yaml:"questions"`
}

// Catalog is an ordered, validated list of questions with an ID index.
type Catalog struct {
	questions []Question
	byID      map[QuestionID]int
}

// NewCatalog validates the questions and builds the ID index.
// IDs must be positive and unique and every question needs text.
func NewCatalog(questions []Question) (*Catalog, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("catalog has no questions")
	}

	c := &Catalog{
		questions: make([]Question, len(questions)),
		byID:      make(map[QuestionID]int, len(questions)),
	}
	copy(c.questions, questions)

	for i, q := range c.questions {
		if q.ID <= 0 {
			return nil, fmt.Errorf("question %d: id must be positive, got %d", i, q.ID)
		}
		if q.Text == "" {
			return nil, fmt.Errorf("question %d: text is required", q.ID)
		}
		if prev, dup := c.byID[q.ID]; dup {
			return nil, fmt.Errorf("question %d: duplicate id (also at position %d)", q.ID, prev)
		}
		c.byID[q.ID] = i
	}
	return c, nil
}

// ParseCatalog decodes a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return NewCatalog(f.Questions)
}

// LoadCatalog reads a YAML catalog from path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// DefaultCatalog returns the embedded 42-question catalog.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Len returns the number of questions.
func (c *Catalog) Len() int {
	return len(c.questions)
}

// At returns the question at display position step.
func (c *Catalog) At(step int) (Question, bool) {
	if step < 0 || step >= len(c.questions) {
		return Question{}, false
	}
	return c.questions[step], true
}

// ByID looks up a question by its stable ID.
func (c *Catalog) ByID(id QuestionID) (Question, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Question{}, false
	}
	return c.questions[i], true
}

// Has reports whether id belongs to the catalog.
func (c *Catalog) Has(id QuestionID) bool {
	_, ok := c.byID[id]
	return ok
}

// Questions returns a copy of the questions in display order.
func (c *Catalog) Questions() []Question {
	out := make([]Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// OptionalCount returns how many questions are marked optional.
func (c *Catalog) OptionalCount() int {
	n := 0
	for _, q := range c.questions {
		if q.Optional {
			n++
		}
	}
	return n
}
