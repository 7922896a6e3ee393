package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCMS serves one resource from memory and records what it saw.
type fakeCMS struct {
	mu       sync.Mutex
	items    []map[string]any
	lists    int
	lastForm map[string]string
	files    map[string]string
	auth     string
	nextID   int
}

func (f *fakeCMS) handler(resource string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.auth = r.Header.Get("Authorization")

		path := strings.TrimPrefix(r.URL.Path, "/"+resource)
		switch {
		case r.Method == http.MethodGet && path == "":
			f.lists++
			_ = json.NewEncoder(w).Encode(map[string]any{"data": f.items})
		case r.Method == http.MethodGet && strings.HasPrefix(path, "/slug/"):
			slug := strings.TrimPrefix(path, "/slug/")
			for _, it := range f.items {
				if it["slug"] == slug {
					_ = json.NewEncoder(w).Encode(it)
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Blog not found"}`))
		case r.Method == http.MethodPost && path == "/create":
			item := f.readForm(r)
			f.nextID++
			item["_id"] = "id-" + string(rune('0'+f.nextID))
			f.items = append(f.items, item)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{"data": item})
		case r.Method == http.MethodPut:
			id := strings.TrimPrefix(path, "/")
			for i, it := range f.items {
				if it["_id"] == id {
					item := f.readForm(r)
					item["_id"] = id
					f.items[i] = item
					_ = json.NewEncoder(w).Encode(item)
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodDelete:
			id := strings.TrimPrefix(path, "/")
			for i, it := range f.items {
				if it["_id"] == id {
					f.items = append(f.items[:i], f.items[i+1:]...)
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func (f *fakeCMS) readForm(r *http.Request) map[string]any {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		return map[string]any{"parseError": err.Error()}
	}
	f.lastForm = map[string]string{}
	item := map[string]any{}
	for k, v := range r.MultipartForm.Value {
		f.lastForm[k] = v[0]
		item[k] = formValue(v[0])
	}
	f.files = map[string]string{}
	for k, fhs := range r.MultipartForm.File {
		fh, err := fhs[0].Open()
		if err != nil {
			continue
		}
		b, _ := io.ReadAll(fh)
		_ = fh.Close()
		f.files[k] = fhs[0].Filename + ":" + string(b)
	}
	return item
}

// formValue decodes JSON-encoded arrays and numbers the way the API stores
// them; anything else stays a string.
func formValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		switch v.(type) {
		case []any, float64:
			return v
		}
	}
	return s
}

func (f *fakeCMS) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists
}

func (f *fakeCMS) field(k string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastForm[k]
}

func (f *fakeCMS) file(k string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.files[k]
}

func (f *fakeCMS) authHeader() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.auth
}

func newFake(t *testing.T, r Resource) (*fakeCMS, *Client) {
	t.Helper()
	fake := &fakeCMS{}
	mux := http.NewServeMux()
	mux.Handle("/api/"+string(r), http.StripPrefix("/api", fake.handler(string(r))))
	mux.Handle("/api/"+string(r)+"/", http.StripPrefix("/api", fake.handler(string(r))))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return fake, NewClient(srv.URL+"/api/", WithAPIKey("secret"))
}

func TestCollection_CreateListBySlug(t *testing.T) {
	fake, c := newFake(t, Blogs)
	blogs := NewCollection[Blog](c, Blogs)
	ctx := context.Background()

	form := Blog{Title: "North-east corner", Slug: "north-east", Content: "...", Tags: []string{"kitchen", "zones"}}.Form().
		Attach(FieldImage, "cover.png", strings.NewReader("png-bytes"))
	created, err := blogs.Create(ctx, form)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "id-1", created.ID)
	assert.Equal(t, "Bearer secret", fake.authHeader())

	assert.Equal(t, `["kitchen","zones"]`, fake.field("tags"))
	assert.Equal(t, "cover.png:png-bytes", fake.file(FieldImage))

	list, err := blogs.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "North-east corner", list[0].Title)

	got, err := blogs.BySlug(ctx, "north-east")
	require.NoError(t, err)
	assert.Equal(t, "id-1", got.ID)
}

func TestCollection_BySlugNotFound(t *testing.T) {
	_, c := newFake(t, Blogs)
	_, err := NewCollection[Blog](c, Blogs).BySlug(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Not found", Message(err))
}

func TestCollection_UpdateAndDelete(t *testing.T) {
	fake, c := newFake(t, Courses)
	courses := NewCollection[Course](c, Courses)
	ctx := context.Background()

	created, err := courses.Create(ctx, Course{Title: "Basics", Slug: "basics", Price: 49.5}.Form())
	require.NoError(t, err)
	assert.Equal(t, "49.5", fake.field("price"))
	assert.Equal(t, "[]", fake.field("features"))

	_, err = courses.Update(ctx, created.ID, Course{Title: "Basics II", Slug: "basics", Requirements: []string{"A floor plan"}}.Form())
	require.NoError(t, err)
	assert.Equal(t, `["A floor plan"]`, fake.field("requirements"))

	require.NoError(t, courses.Delete(ctx, created.ID))
	err = courses.Delete(ctx, created.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCollection_ServiceSubServiceImages(t *testing.T) {
	fake, c := newFake(t, Services)
	svc := Service{
		Title:       "Home audit",
		Slug:        "home-audit",
		SubServices: []SubService{{Title: "Kitchen"}, {Title: "Bedroom"}},
	}
	form := svc.Form().
		Attach(FieldMainImage, "main.jpg", strings.NewReader("m")).
		Attach(SubServiceImageField(1), "bed.jpg", strings.NewReader("b"))

	_, err := NewCollection[Service](c, Services).Create(context.Background(), form)
	require.NoError(t, err)

	var subs []SubService
	require.NoError(t, json.Unmarshal([]byte(fake.field("subServices")), &subs))
	assert.Len(t, subs, 2)
	assert.Equal(t, "main.jpg:m", fake.file(FieldMainImage))
	assert.Equal(t, "bed.jpg:b", fake.file("subServiceImage_1"))
}

func TestForm_FileRules(t *testing.T) {
	_, _, err := NewForm().
		Attach(FieldImage, "a", strings.NewReader("")).
		Attach(FieldMedia, "b", strings.NewReader("")).
		Encode()
	assert.ErrorContains(t, err, "only one primary file")

	_, _, err = NewForm().Attach("avatar", "a", strings.NewReader("")).Encode()
	assert.ErrorContains(t, err, "unsupported file field")

	_, _, err = NewForm().AttachFile(FieldImage, filepath.Join(t.TempDir(), "nope.png")).Encode()
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpg"), 0o644))
	_, ct, err := NewForm().AttachFile(FieldMedia, path).Encode()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ct, "multipart/form-data"))

	var nilForm *Form
	_, _, err = nilForm.Encode()
	assert.NoError(t, err)
}

func TestForm_SetJSONErrorIsDeferred(t *testing.T) {
	f := NewForm().SetJSON("bad", make(chan int)).Set("title", "x")
	assert.Equal(t, "x", f.Fields()["title"])
	_, _, err := f.Encode()
	assert.ErrorContains(t, err, "encode bad")
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "boom", errorMessage([]byte(`{"error":"boom"}`), 500))
	assert.Equal(t, "nope", errorMessage([]byte(`{"message":"nope"}`), 400))
	assert.Equal(t, "nested", errorMessage([]byte(`{"error":{"message":"nested"}}`), 400))
	assert.Equal(t, "Bad Gateway", errorMessage([]byte("<html>"), 502))
	assert.Equal(t, "request failed", errorMessage(nil, 599))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "quota", Message(&APIError{StatusCode: 429, Message: "quota"}))
	assert.Equal(t, "Not found", Message(&APIError{StatusCode: 404, Message: "x"}))
	assert.Equal(t, "dial failed", Message(errors.New("dial failed")))
}

func TestDecodeEnvelopes(t *testing.T) {
	for _, body := range []string{
		`[{"_id":"1","name":"A"}]`,
		`{"data":[{"_id":"1","name":"A"}]}`,
		`{"testimonials":[{"_id":"1","name":"A"}]}`,
		`{"items":[{"_id":"1","name":"A"}]}`,
	} {
		got, err := decodeList[Testimonial]([]byte(body), Testimonials)
		require.NoError(t, err, body)
		require.Len(t, got, 1)
		assert.Equal(t, "A", got[0].Name)
	}

	for _, body := range []string{`null`, ``, `{"data":null}`, `{"count":0}`, `[]`, `{"data":[]}`} {
		got, err := decodeList[Testimonial]([]byte(body), Testimonials)
		require.NoError(t, err, body)
		assert.NotNil(t, got, body)
		assert.Empty(t, got, body)
	}

	for _, body := range []string{`{"data":"oops"}`, `"text"`, `42`} {
		_, err := decodeList[Testimonial]([]byte(body), Testimonials)
		assert.Error(t, err, body)
	}
}

func TestDocument(t *testing.T) {
	d := Document{"id": 7, "name": "Priya"}
	assert.Equal(t, "7", d.ID())
	assert.Equal(t, "Priya", d.Title())
	assert.Equal(t, "", d.Slug())

	d = Document{"_id": "abc", "slug": "s"}
	assert.Equal(t, "abc", d.ID())
	assert.Equal(t, "s", d.Title())
	assert.Contains(t, d.JSON(), `"_id": "abc"`)
}

func TestResources(t *testing.T) {
	r, ok := ParseResource("student-success-stories")
	require.True(t, ok)
	assert.Equal(t, SuccessStories, r)
	assert.Equal(t, "Success stories", r.Label())

	_, ok = ParseResource("users")
	assert.False(t, ok)
	assert.Len(t, Resources(), 6)
}

func TestPanel_RefetchesAfterEveryMutation(t *testing.T) {
	fake, c := newFake(t, Testimonials)
	p := NewPanel(NewCollection[Testimonial](c, Testimonials))
	ctx := context.Background()

	require.NoError(t, p.Load(ctx))
	assert.Empty(t, p.Items)
	assert.Equal(t, 1, fake.count())

	require.NoError(t, p.Create(ctx, Testimonial{Name: "Ravi", Message: "Great", Rating: 5}.Form()))
	assert.Equal(t, 2, fake.count())
	require.Len(t, p.Items, 1)
	assert.Equal(t, "5", fake.field("rating"))

	id := p.Items[0].ID
	require.NoError(t, p.Update(ctx, id, Testimonial{Name: "Ravi K", Message: "Great"}.Form()))
	assert.Equal(t, 3, fake.count())
	assert.Equal(t, "Ravi K", p.Items[0].Name)

	require.NoError(t, p.Delete(ctx, id))
	assert.Equal(t, 4, fake.count())
	assert.Empty(t, p.Items)
	assert.False(t, p.Loading)
	assert.Empty(t, p.Err)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(fmt.Errorf("delete blogs x: %w", &APIError{StatusCode: http.StatusNotFound, Message: "gone"})))
	assert.False(t, isNotFound(&APIError{StatusCode: http.StatusInternalServerError, Message: "Not found"}))
	assert.False(t, isNotFound(errors.New("Not found")))
}

func TestPanel_ErrorState(t *testing.T) {
	fake, c := newFake(t, Students)
	p := NewPanel(NewCollection[Student](c, Students))
	ctx := context.Background()

	err := p.Delete(ctx, "ghost")
	require.Error(t, err)
	assert.Equal(t, "Not found", p.Err)
	assert.True(t, p.NotFound)
	assert.False(t, p.Loading)
	assert.Equal(t, 0, fake.count(), "failed mutation must not refetch")

	require.NoError(t, p.Load(ctx))
	assert.Empty(t, p.Err)
	assert.False(t, p.NotFound)
}

func TestPanel_EmptyCollection(t *testing.T) {
	for _, body := range []string{`null`, `{"data":null}`, `{"success":true}`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		}))

		p := NewPanel(NewCollection[Blog](NewClient(srv.URL), Blogs))
		require.NoError(t, p.Load(context.Background()), body)
		assert.Empty(t, p.Err, body)
		assert.False(t, p.NotFound, body)
		assert.NotNil(t, p.Items, body)
		assert.Empty(t, p.Items, body)
		srv.Close()
	}
}

func TestPanel_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	p := NewPanel(NewCollection[Blog](NewClient(url), Blogs))
	p.Items = []Blog{{Title: "stale"}}
	require.Error(t, p.Load(context.Background()))
	assert.Nil(t, p.Items)
	assert.Contains(t, p.Err, "request failed")
}
