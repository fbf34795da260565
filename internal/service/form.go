package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/devburak/contextHub-Theme/internal/api"
	"github.com/devburak/contextHub-Theme/internal/i18n"
	"github.com/devburak/contextHub-Theme/internal/model"
	"github.com/devburak/contextHub-Theme/internal/util"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[\d\s+().-]{6,}$`)
)

// ErrNotConfigured is returned when a submission is attempted without an
// API key or form id.
var ErrNotConfigured = errors.New("contact form is not configured")

// defaultSuccessMessage is used when the form defines none.
var defaultSuccessMessage = model.NewLocalizedText(map[string]string{
	"tr": "Gönderiminiz için teşekkürler!",
	"en": "Thank you for your submission!",
})

// FormService fetches, caches, and validates the contact form.
type FormService struct {
	api           *api.Client
	apiKey        string
	formID        string
	formSlug      string
	defaultLocale string
	ttl           time.Duration
	now           func() time.Time
	logger        *slog.Logger

	mu        sync.Mutex
	cached    *model.Form
	fetchedAt time.Time
	localeKey string
}

// FormOptions configures a FormService.
type FormOptions struct {
	APIKey        string
	FormID        string
	FormSlug      string
	DefaultLocale string
	TTL           time.Duration
	Now           func() time.Time
	Logger        *slog.Logger
}

// NewFormService creates a contact form service.
func NewFormService(client *api.Client, opts FormOptions) *FormService {
	if opts.DefaultLocale == "" {
		opts.DefaultLocale = "tr"
	}
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &FormService{
		api:           client,
		apiKey:        opts.APIKey,
		formID:        opts.FormID,
		formSlug:      opts.FormSlug,
		defaultLocale: opts.DefaultLocale,
		ttl:           opts.TTL,
		now:           opts.Now,
		logger:        opts.Logger,
	}
}

// Configured reports whether a contact form is configured at all.
func (s *FormService) Configured() bool {
	return s.formID != "" || s.formSlug != ""
}

// resolveText resolves a localized value against the preference chain:
// requested locales, the configured default, then tr and en.
func (s *FormService) resolveText(value model.LocalizedText, locales []string) string {
	return value.Resolve(locales, s.defaultLocale, "tr", "en")
}

// flexString decodes values that may arrive as string, number, or bool.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch {
	case s == "null":
		*f = ""
	case len(s) >= 2 && s[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			*f = ""
			return nil
		}
		*f = flexString(v)
	default:
		*f = flexString(s)
	}
	return nil
}

type rawFormOption struct {
	Value string              `json:"value"`
	Label model.LocalizedText `json:"label"`
}

type rawFormValidation struct {
	Min          *float64            `json:"min"`
	Max          *float64            `json:"max"`
	ErrorMessage model.LocalizedText `json:"errorMessage"`
}

type rawFormField struct {
	LegacyID     model.ID            `json:"_id"`
	ID           model.ID            `json:"id"`
	Name         string              `json:"name"`
	Type         string              `json:"type"`
	Label        model.LocalizedText `json:"label"`
	Placeholder  model.LocalizedText `json:"placeholder"`
	HelpText     model.LocalizedText `json:"helpText"`
	Required     bool                `json:"required"`
	Validation   rawFormValidation   `json:"validation"`
	Options      []rawFormOption     `json:"options"`
	DefaultValue flexString          `json:"defaultValue"`
	Order        model.Number        `json:"order"`
	Width        string              `json:"width"`
	ClassName    string              `json:"className"`
}

type rawFormSettings struct {
	SubmitButtonText model.LocalizedText `json:"submitButtonText"`
	SuccessMessage   model.LocalizedText `json:"successMessage"`
	EnableHoneypot   *bool               `json:"enableHoneypot"`
}

type rawForm struct {
	LegacyID    model.ID            `json:"_id"`
	ID          model.ID            `json:"id"`
	Slug        string              `json:"slug"`
	Title       model.LocalizedText `json:"title"`
	Description model.LocalizedText `json:"description"`
	Fields      []rawFormField      `json:"fields"`
	Settings    rawFormSettings     `json:"settings"`
}

type formEnvelope struct {
	Form *rawForm `json:"form"`
}

// buildForm shapes an upstream form for the given locale preference.
// Fields are ordered by their order value, ties keep upstream order.
func (s *FormService) buildForm(raw *rawForm, locales []string) *model.Form {
	if raw == nil {
		return nil
	}

	fields := make([]model.FormField, 0, len(raw.Fields))
	for _, rf := range raw.Fields {
		label := s.resolveText(rf.Label, locales)

		name := rf.Name
		if name == "" {
			name = util.FieldName(label)
		}

		options := make([]model.FieldOption, 0, len(rf.Options))
		for _, opt := range rf.Options {
			options = append(options, model.FieldOption{
				Value: opt.Value,
				Label: s.resolveText(opt.Label, locales),
			})
		}

		id := model.FirstID(rf.ID, rf.LegacyID).String()
		if id == "" {
			id = name
		}

		width := rf.Width
		if width == "" {
			width = "full"
		}

		fields = append(fields, model.FormField{
			ID:          id,
			Name:        name,
			Type:        rf.Type,
			Label:       label,
			Placeholder: s.resolveText(rf.Placeholder, locales),
			HelpText:    s.resolveText(rf.HelpText, locales),
			Required:    rf.Required,
			Validation: model.FieldValidation{
				Min:          rf.Validation.Min,
				Max:          rf.Validation.Max,
				ErrorMessage: rf.Validation.ErrorMessage,
			},
			Options:      options,
			DefaultValue: string(rf.DefaultValue),
			Order:        rf.Order.Int(),
			Width:        width,
			ClassName:    rf.ClassName,
		})
	}

	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].Order < fields[j].Order
	})

	id := model.FirstID(raw.LegacyID, raw.ID).String()
	if id == "" {
		id = s.formID
	}

	slug := raw.Slug
	if slug == "" {
		slug = s.formSlug
	}

	submitText := s.resolveText(raw.Settings.SubmitButtonText, locales)
	if submitText == "" {
		submitText = i18n.T(i18n.ResolvePrimaryLocale(locales), "contact.submit_button")
	}

	successMessage := raw.Settings.SuccessMessage
	if successMessage.IsZero() {
		successMessage = defaultSuccessMessage
	}

	return &model.Form{
		ID:          id,
		Slug:        slug,
		Title:       s.resolveText(raw.Title, locales),
		Description: s.resolveText(raw.Description, locales),
		Fields:      fields,
		Settings: model.FormSettings{
			SubmitButtonText: submitText,
			SuccessMessage:   successMessage,
			EnableHoneypot:   raw.Settings.EnableHoneypot == nil || *raw.Settings.EnableHoneypot,
		},
	}
}

func (s *FormService) fetchPrivate(ctx context.Context, locales []string) (*model.Form, error) {
	if s.formID == "" {
		return nil, nil
	}

	var envelope formEnvelope
	found, err := s.api.GetJSON(ctx, "/forms/"+s.formID, nil, true, &envelope)
	if err != nil {
		return nil, err
	}
	if !found || envelope.Form == nil {
		s.logger.Warn("private form fetch returned no form", "form_id", s.formID)
		return nil, nil
	}

	return s.buildForm(envelope.Form, locales), nil
}

func (s *FormService) fetchPublic(ctx context.Context, locales []string) (*model.Form, error) {
	slug := s.formSlug
	if slug == "" {
		slug = s.formID
	}
	if slug == "" {
		return nil, nil
	}

	raw, err := s.api.Request(ctx, "/public/forms/"+slug, api.RequestOptions{
		AllowNotFound: true,
		SkipAuth:      true,
	})
	if err != nil {
		s.logger.Warn("public form fetch failed", "slug", slug, "error", err)
		return nil, nil
	}
	if raw == nil {
		s.logger.Warn("public form fetch returned no form", "slug", slug)
		return nil, nil
	}

	var envelope formEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Form == nil {
		s.logger.Warn("public form fetch returned no form", "slug", slug)
		return nil, nil
	}

	return s.buildForm(envelope.Form, locales), nil
}

func (s *FormService) fetch(ctx context.Context, locales []string) *model.Form {
	form, err := s.fetchPrivate(ctx, locales)
	if err != nil {
		s.logger.Warn("private form fetch failed, falling back to public endpoint", "error", err)
	}

	if form == nil {
		form, _ = s.fetchPublic(ctx, locales)
	}

	if form == nil {
		s.logger.Error("contact form could not be fetched",
			"form_id", s.formID,
			"form_slug", s.formSlug,
		)
	}
	return form
}

// Get returns the contact form shaped for the locale preference,
// refreshing when the TTL passed, force is set, or the locale changed.
// A nil form means the contact page should render as unavailable.
func (s *FormService) Get(ctx context.Context, locales []string, force bool) *model.Form {
	if !s.Configured() {
		return nil
	}

	localeKey := strings.Join(locales, ",")
	now := s.now()

	s.mu.Lock()
	valid := !force &&
		s.cached != nil &&
		now.Sub(s.fetchedAt) < s.ttl &&
		s.localeKey == localeKey
	cached := s.cached
	s.mu.Unlock()

	if valid {
		return cached
	}

	form := s.fetch(ctx, locales)
	if form == nil {
		return cached
	}

	s.mu.Lock()
	s.cached = form
	s.fetchedAt = s.now()
	s.localeKey = localeKey
	s.mu.Unlock()

	return form
}

// ClearCache drops the cached form.
func (s *FormService) ClearCache() {
	s.mu.Lock()
	s.cached = nil
	s.fetchedAt = time.Time{}
	s.localeKey = ""
	s.mu.Unlock()
}

// fieldMessage returns the field's custom validation message when set,
// otherwise the given catalog message.
func (s *FormService) fieldMessage(field model.FormField, locales []string, fallback string) string {
	if custom := s.resolveText(field.Validation.ErrorMessage, locales); custom != "" {
		return custom
	}
	return fallback
}

func firstValue(values url.Values, name string) (string, bool) {
	vs, ok := values[name]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], vs[0] != ""
}

func checkboxValues(values url.Values, name, defaultValue string) []string {
	var out []string
	for _, v := range values[name] {
		if v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 && defaultValue != "" {
		out = append(out, defaultValue)
	}
	return out
}

// BuildSubmission validates posted values against the form definition
// and shapes the typed payload for the upstream submission endpoint.
func (s *FormService) BuildSubmission(form *model.Form, posted url.Values, locales []string) model.Submission {
	sub := model.Submission{
		Errors: make(map[string]string),
		Values: make(map[string]any),
		Data:   make(map[string]any),
	}

	if form == nil {
		sub.Errors["form"] = "Form is unavailable."
		return sub
	}

	lang := i18n.ResolvePrimaryLocale(locales)

	for _, field := range form.Fields {
		if field.Type == "section" {
			continue
		}
		if field.Type == "file" {
			sub.Errors[field.Name] = s.fieldMessage(field, locales, i18n.T(lang, "validation.file_unsupported"))
			continue
		}

		raw, hasUserValue := firstValue(posted, field.Name)
		initial := raw
		if !hasUserValue {
			initial = field.DefaultValue
		}
		sub.Values[field.Name] = initial

		displayName := field.Label
		if displayName == "" {
			displayName = field.Name
		}
		requiredMessage := s.fieldMessage(field, locales, i18n.T(lang, "validation.required", displayName))

		switch field.Type {
		case "checkbox":
			checked := checkboxValues(posted, field.Name, field.DefaultValue)
			sub.Values[field.Name] = checked
			if field.Required && len(checked) == 0 {
				sub.Errors[field.Name] = requiredMessage
				continue
			}
			if len(checked) > 0 {
				sub.Data[field.Name] = checked
			}

		case "number", "rating":
			value := strings.TrimSpace(initial)
			if value == "" {
				if field.Required {
					sub.Errors[field.Name] = requiredMessage
				}
				continue
			}
			parsed, err := strconv.ParseFloat(value, 64)
			if err != nil {
				sub.Errors[field.Name] = s.fieldMessage(field, locales, i18n.T(lang, "validation.number", displayName))
				continue
			}
			sub.Values[field.Name] = value
			if field.Validation.Min != nil && parsed < *field.Validation.Min {
				sub.Errors[field.Name] = s.fieldMessage(field, locales, i18n.T(lang, "validation.min", displayName, *field.Validation.Min))
			}
			if field.Validation.Max != nil && parsed > *field.Validation.Max {
				sub.Errors[field.Name] = s.fieldMessage(field, locales, i18n.T(lang, "validation.max", displayName, *field.Validation.Max))
			}
			if _, invalid := sub.Errors[field.Name]; !invalid {
				sub.Data[field.Name] = parsed
			}

		case "email":
			value := strings.TrimSpace(initial)
			sub.Values[field.Name] = value
			if value == "" {
				if field.Required {
					sub.Errors[field.Name] = requiredMessage
				}
				continue
			}
			if !emailPattern.MatchString(value) {
				sub.Errors[field.Name] = s.fieldMessage(field, locales, i18n.T(lang, "validation.email"))
				continue
			}
			sub.Data[field.Name] = value

		case "phone":
			value := strings.TrimSpace(initial)
			sub.Values[field.Name] = value
			if value == "" {
				if field.Required {
					sub.Errors[field.Name] = requiredMessage
				}
				continue
			}
			if !phonePattern.MatchString(value) {
				sub.Errors[field.Name] = s.fieldMessage(field, locales, i18n.T(lang, "validation.phone"))
				continue
			}
			sub.Data[field.Name] = value

		case "select", "radio":
			value := strings.TrimSpace(initial)
			sub.Values[field.Name] = value
			if value == "" {
				if field.Required {
					sub.Errors[field.Name] = requiredMessage
				}
				continue
			}
			if len(field.Options) > 0 && !hasOption(field.Options, value) {
				sub.Errors[field.Name] = s.fieldMessage(field, locales, i18n.T(lang, "validation.invalid_option", displayName))
				continue
			}
			sub.Data[field.Name] = value

		case "date":
			// Dates never fall back to the default value.
			value := strings.TrimSpace(raw)
			sub.Values[field.Name] = value
			if value == "" {
				if field.Required {
					sub.Errors[field.Name] = requiredMessage
				}
				continue
			}
			sub.Data[field.Name] = value

		case "hidden":
			value := initial
			if value == "" {
				value = field.DefaultValue
				sub.Values[field.Name] = value
			}
			if value != "" {
				sub.Data[field.Name] = value
			}

		default:
			value := strings.TrimSpace(initial)
			sub.Values[field.Name] = value
			if value == "" {
				if field.Required {
					sub.Errors[field.Name] = requiredMessage
				}
				continue
			}
			sub.Data[field.Name] = value
		}
	}

	return sub
}

func hasOption(options []model.FieldOption, value string) bool {
	for _, opt := range options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// SubmitResult carries the upstream response to a form submission.
type SubmitResult struct {
	Message model.LocalizedText `json:"message"`
}

// Submit posts a validated payload to the public submission endpoint.
func (s *FormService) Submit(ctx context.Context, formID string, data map[string]any, locale, honeypot string) (*SubmitResult, error) {
	if formID == "" {
		formID = s.formID
	}
	if s.apiKey == "" || formID == "" {
		return nil, ErrNotConfigured
	}
	if locale == "" {
		locale = s.defaultLocale
	}

	body := map[string]any{
		"apiKey":   s.apiKey,
		"data":     data,
		"locale":   locale,
		"source":   "web",
		"honeypot": honeypot,
	}

	raw, err := s.api.Request(ctx, "/public/forms/"+formID+"/submit", api.RequestOptions{
		Method:   "POST",
		Body:     body,
		Headers:  map[string]string{"X-API-Key": s.apiKey},
		SkipAuth: true,
	})
	if err != nil {
		return nil, err
	}

	result := &SubmitResult{}
	if raw != nil {
		if err := json.Unmarshal(raw, result); err != nil {
			return &SubmitResult{}, nil
		}
	}
	return result, nil
}
