// Package leads handles the lead generation forms: review submission,
// newsletter signup and callback requests. Submissions are validated, logged
// and counted but never stored or forwarded.
package leads

import (
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"
)

// Kind identifies a lead form.
type Kind string

const (
	KindReview     Kind = "review"
	KindNewsletter Kind = "newsletter"
	KindCallback   Kind = "callback"
)

// DefaultReviewRating is applied when a review omits its rating.
const DefaultReviewRating = 5

// Form is a submittable lead form.
type Form interface {
	Kind() Kind
	// Normalize trims whitespace and fills defaults in place.
	Normalize()
	Validate() error
	logFields() []zap.Field
}

// ValidationError maps form fields to what is wrong with them.
type ValidationError struct {
	Kind   Kind
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s form: %d field(s)", e.Kind, len(e.Fields))
}

type fieldErrors map[string]string

func (f fieldErrors) required(name, value string) {
	if value == "" {
		f[name] = "is required"
	}
}

func (f fieldErrors) email(name, value string) {
	if value == "" {
		f[name] = "is required"
		return
	}
	if !validEmail(value) {
		f[name] = "must be a valid email address"
	}
}

func (f fieldErrors) err(kind Kind) error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Kind: kind, Fields: f}
}

// validEmail accepts a bare address only, so "Name <a@b.com>" is rejected.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && strings.Contains(s, "@")
}

// ReviewForm is a visitor review of a provider.
type ReviewForm struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Content  string `json:"content"`
	Rating   int    `json:"rating"`
	Provider string `json:"provider,omitempty"`
}

func (*ReviewForm) Kind() Kind { return KindReview }

func (f *ReviewForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Author = strings.TrimSpace(f.Author)
	f.Content = strings.TrimSpace(f.Content)
	f.Provider = strings.TrimSpace(f.Provider)
	if f.Rating == 0 {
		f.Rating = DefaultReviewRating
	}
}

func (f *ReviewForm) Validate() error {
	errs := fieldErrors{}
	errs.required("title", f.Title)
	errs.required("author", f.Author)
	errs.required("content", f.Content)
	if f.Rating < 1 || f.Rating > 5 {
		errs["rating"] = "must be between 1 and 5"
	}
	return errs.err(KindReview)
}

func (f *ReviewForm) logFields() []zap.Field {
	return []zap.Field{
		zap.String("title", f.Title),
		zap.String("author", f.Author),
		zap.Int("rating", f.Rating),
		zap.String("provider", f.Provider),
	}
}

// NewsletterForm is a newsletter signup.
type NewsletterForm struct {
	Email string `json:"email"`
}

func (*NewsletterForm) Kind() Kind { return KindNewsletter }

func (f *NewsletterForm) Normalize() { f.Email = strings.TrimSpace(f.Email) }

func (f *NewsletterForm) Validate() error {
	errs := fieldErrors{}
	errs.email("email", f.Email)
	return errs.err(KindNewsletter)
}

func (f *NewsletterForm) logFields() []zap.Field {
	return []zap.Field{zap.String("email_domain", emailDomain(f.Email))}
}

// emailDomain returns the part after the last @, so addresses never reach the log.
func emailDomain(addr string) string {
	i := strings.LastIndexByte(addr, '@')
	if i < 0 {
		return ""
	}
	return strings.ToLower(addr[i+1:])
}

// CallbackForm asks for a sales callback.
type CallbackForm struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Postcode string `json:"postcode"`
	Provider string `json:"provider,omitempty"`
}

func (*CallbackForm) Kind() Kind { return KindCallback }

func (f *CallbackForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Postcode = strings.TrimSpace(f.Postcode)
	f.Provider = strings.TrimSpace(f.Provider)
}

func (f *CallbackForm) Validate() error {
	errs := fieldErrors{}
	errs.required("name", f.Name)
	errs.email("email", f.Email)
	errs.required("phone", f.Phone)
	errs.required("postcode", f.Postcode)
	return errs.err(KindCallback)
}

func (f *CallbackForm) logFields() []zap.Field {
	return []zap.Field{
		zap.String("postcode", f.Postcode),
		zap.String("provider", f.Provider),
	}
}
