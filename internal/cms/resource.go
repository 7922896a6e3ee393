package cms

// Resource names a CMS collection as it appears in the URL.
type Resource string

const (
	Blogs          Resource = "blogs"
	Courses        Resource = "courses"
	Services       Resource = "services"
	Testimonials   Resource = "testimonials"
	SuccessStories Resource = "student-success-stories"
	Students       Resource = "students"
)

// Resources lists every collection in menu order.
func Resources() []Resource {
	return []Resource{Blogs, Courses, Services, Testimonials, SuccessStories, Students}
}

// ParseResource accepts a URL name and reports whether it is known.
func ParseResource(s string) (Resource, bool) {
	for _, r := range Resources() {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// Label is the human name shown in menus.
func (r Resource) Label() string {
	switch r {
	case Blogs:
		return "Blogs"
	case Courses:
		return "Courses"
	case Services:
		return "Services"
	case Testimonials:
		return "Testimonials"
	case SuccessStories:
		return "Success stories"
	case Students:
		return "Students"
	}
	return string(r)
}
