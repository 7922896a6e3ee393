package cms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

// Primary file fields. A form carries at most one of them.
const (
	FieldImage     = "image"
	FieldMedia     = "media"
	FieldMainImage = "mainImage"
)

var subServiceImageRe = regexp.MustCompile(`^subServiceImage_[0-9]+$`)

// SubServiceImageField names the file field for the i-th sub-service.
func SubServiceImageField(i int) string {
	return "subServiceImage_" + strconv.Itoa(i)
}

type formField struct {
	key   string
	value string
}

type formFile struct {
	field    string
	filename string
	path     string
	reader   io.Reader
}

// Form builds a multipart body: scalar fields, JSON-encoded array fields
// and file attachments under the fixed field names. Errors are deferred
// to Encode so calls can be chained.
type Form struct {
	fields []formField
	files  []formFile
	err    error
}

// NewForm returns an empty form.
func NewForm() *Form {
	return &Form{}
}

// Set adds a scalar field. Empty values are still sent so updates can clear
// a field.
func (f *Form) Set(key, value string) *Form {
	f.fields = append(f.fields, formField{key: key, value: value})
	return f
}

// SetInt adds an integer field.
func (f *Form) SetInt(key string, v int) *Form {
	return f.Set(key, strconv.Itoa(v))
}

// SetJSON adds a field whose value is v encoded as JSON, the way the API
// expects tags, features, requirements and sub-services.
func (f *Form) SetJSON(key string, v any) *Form {
	b, err := json.Marshal(v)
	if err != nil {
		if f.err == nil {
			f.err = fmt.Errorf("encode %s: %w", key, err)
		}
		return f
	}
	return f.Set(key, string(b))
}

// AttachFile attaches the file at path, opened when the form is encoded.
func (f *Form) AttachFile(field, path string) *Form {
	f.files = append(f.files, formFile{field: field, filename: filepath.Base(path), path: path})
	return f
}

// Attach attaches content read from r.
func (f *Form) Attach(field, filename string, r io.Reader) *Form {
	f.files = append(f.files, formFile{field: field, filename: filename, reader: r})
	return f
}

// Fields returns the scalar fields as a map; later values win.
func (f *Form) Fields() map[string]string {
	out := make(map[string]string, len(f.fields))
	for _, fld := range f.fields {
		out[fld.key] = fld.value
	}
	return out
}

func (f *Form) validateFiles() error {
	primary := ""
	for _, file := range f.files {
		switch {
		case file.field == FieldImage || file.field == FieldMedia || file.field == FieldMainImage:
			if primary != "" {
				return fmt.Errorf("only one primary file allowed, got %q and %q", primary, file.field)
			}
			primary = file.field
		case subServiceImageRe.MatchString(file.field):
		default:
			return fmt.Errorf("unsupported file field %q", file.field)
		}
	}
	return nil
}

// Encode writes the multipart body and returns it with its content type.
func (f *Form) Encode() (io.Reader, string, error) {
	if f == nil {
		f = NewForm()
	}
	if f.err != nil {
		return nil, "", f.err
	}
	if err := f.validateFiles(); err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, fld := range f.fields {
		if err := w.WriteField(fld.key, fld.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", fld.key, err)
		}
	}
	for _, file := range f.files {
		if err := writeFile(w, file); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func writeFile(w *multipart.Writer, file formFile) error {
	r := file.reader
	if r == nil {
		fh, err := os.Open(file.path)
		if err != nil {
			return fmt.Errorf("open %s: %w", file.path, err)
		}
		defer fh.Close()
		r = fh
	}
	part, err := w.CreateFormFile(file.field, file.filename)
	if err != nil {
		return fmt.Errorf("create file part %s: %w", file.field, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("copy %s: %w", file.field, err)
	}
	return nil
}
