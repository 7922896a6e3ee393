package cms

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Blog is an article.
type Blog struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Excerpt   string    `json:"excerpt,omitempty"`
	Content   string    `json:"content"`
	Author    string    `json:"author,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Form encodes the blog for create/update.
func (b Blog) Form() *Form {
	return NewForm().
		Set("title", b.Title).
		Set("slug", b.Slug).
		Set("excerpt", b.Excerpt).
		Set("content", b.Content).
		Set("author", b.Author).
		SetJSON("tags", nonNil(b.Tags))
}

// Course is a paid or free course offering.
type Course struct {
	ID           string   `json:"_id"`
	Title        string   `json:"title"`
	Slug         string   `json:"slug"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	Duration     string   `json:"duration,omitempty"`
	Level        string   `json:"level,omitempty"`
	Features     []string `json:"features,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
	Image        string   `json:"image,omitempty"`
}

func (c Course) Form() *Form {
	return NewForm().
		Set("title", c.Title).
		Set("slug", c.Slug).
		Set("description", c.Description).
		Set("price", strconv.FormatFloat(c.Price, 'f', -1, 64)).
		Set("duration", c.Duration).
		Set("level", c.Level).
		SetJSON("features", nonNil(c.Features)).
		SetJSON("requirements", nonNil(c.Requirements))
}

// SubService is one line item of a Service.
type SubService struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// Service is a consultancy offering with optional sub-services.
type Service struct {
	ID          string       `json:"_id"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Description string       `json:"description"`
	Features    []string     `json:"features,omitempty"`
	SubServices []SubService `json:"subServices,omitempty"`
	MainImage   string       `json:"mainImage,omitempty"`
}

// Form encodes the service. Sub-service images are attached separately
// with SubServiceImageField(i).
func (s Service) Form() *Form {
	subs := s.SubServices
	if subs == nil {
		subs = []SubService{}
	}
	return NewForm().
		Set("title", s.Title).
		Set("slug", s.Slug).
		Set("description", s.Description).
		SetJSON("features", nonNil(s.Features)).
		SetJSON("subServices", subs)
}

type Testimonial struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Role    string `json:"role,omitempty"`
	Message string `json:"message"`
	Rating  int    `json:"rating,omitempty"`
	Media   string `json:"media,omitempty"`
}

func (t Testimonial) Form() *Form {
	return NewForm().
		Set("name", t.Name).
		Set("role", t.Role).
		Set("message", t.Message).
		SetInt("rating", t.Rating)
}

type SuccessStory struct {
	ID          string `json:"_id"`
	StudentName string `json:"studentName"`
	Title       string `json:"title"`
	Story       string `json:"story"`
	Course      string `json:"course,omitempty"`
	Media       string `json:"media,omitempty"`
}

func (s SuccessStory) Form() *Form {
	return NewForm().
		Set("studentName", s.StudentName).
		Set("title", s.Title).
		Set("story", s.Story).
		Set("course", s.Course)
}

type Student struct {
	ID           string   `json:"_id"`
	Name         string   `json:"name"`
	Slug         string   `json:"slug"`
	Course       string   `json:"course,omitempty"`
	Bio          string   `json:"bio,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
	Image        string   `json:"image,omitempty"`
}

func (s Student) Form() *Form {
	return NewForm().
		Set("name", s.Name).
		Set("slug", s.Slug).
		Set("course", s.Course).
		Set("bio", s.Bio).
		SetJSON("achievements", nonNil(s.Achievements))
}

// Document is a schema-less item, used where the resource is chosen at
// runtime.
type Document map[string]any

// ID returns "_id" or "id".
func (d Document) ID() string {
	for _, k := range []string{"_id", "id"} {
		if v, ok := d[k]; ok && v != nil {
			return fmt.Sprint(v)
		}
	}
	return ""
}

// Title returns the first present display field.
func (d Document) Title() string {
	for _, k := range []string{"title", "name", "studentName", "slug"} {
		if s, ok := d[k].(string); ok && s != "" {
			return s
		}
	}
	return d.ID()
}

// Slug returns the "slug" field.
func (d Document) Slug() string {
	s, _ := d["slug"].(string)
	return s
}

// JSON renders the document indented.
func (d Document) JSON() string {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Sprint(map[string]any(d))
	}
	return string(b)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
