package handler

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/mileusna/useragent"

	"github.com/devburak/contextHub-Theme/internal/api"
	"github.com/devburak/contextHub-Theme/internal/guard"
	"github.com/devburak/contextHub-Theme/internal/i18n"
	"github.com/devburak/contextHub-Theme/internal/middleware"
	"github.com/devburak/contextHub-Theme/internal/model"
	"github.com/devburak/contextHub-Theme/internal/service"
)

// honeypotField is the hidden trap input rendered when the form has the
// honeypot enabled. Bots fill it, humans never see it.
const honeypotField = "_website"

type contactView struct {
	Form    *model.Form
	Status  string
	Message string

	values url.Values
	errors map[string]string
}

// Value returns the posted value for a field, falling back to the
// field's default when nothing was posted.
func (v contactView) Value(name string) string {
	if vals, ok := v.values[name]; ok {
		if len(vals) > 0 {
			return vals[0]
		}
		return ""
	}
	if v.Form != nil {
		for _, f := range v.Form.Fields {
			if f.Name == name {
				return f.DefaultValue
			}
		}
	}
	return ""
}

// Checked reports whether an option is selected for a choice field.
func (v contactView) Checked(name, option string) bool {
	if vals, ok := v.values[name]; ok {
		for _, val := range vals {
			if val == option {
				return true
			}
		}
		return false
	}
	return v.Value(name) == option
}

// Error returns the validation message for a field, if any.
func (v contactView) Error(name string) string {
	return v.errors[name]
}

// ContactForm handles GET /contact.
func (h *Handler) ContactForm(w http.ResponseWriter, r *http.Request) {
	chain := middleware.LocaleChainFrom(r.Context())
	lang := middleware.LocaleFrom(r.Context())

	view := contactView{}
	if remaining, message := h.guard.Cooldown(middleware.ClientIP(r)); remaining > 0 {
		if message == "" {
			message = i18n.T(lang, "contact.cooldown_default")
		}
		view.Status = "success"
		view.Message = message
	}

	view.Form = h.forms.Get(r.Context(), chain, false)
	if view.Form == nil && view.Status == "" {
		view.Status = "error"
		view.Message = i18n.T(lang, "contact.form_unavailable")
	}

	h.render(w, r, http.StatusOK, "contact", h.pageData(r, h.contactTitle(view.Form, lang), view))
}

// ContactSubmit handles POST /contact.
func (h *Handler) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.serverError(w, r, err)
		return
	}

	chain := middleware.LocaleChainFrom(r.Context())
	if posted := r.PostForm.Get("lang"); posted != "" {
		chain = append([]string{posted}, chain...)
	}
	lang := i18n.ResolvePrimaryLocale(chain)
	ip := middleware.ClientIP(r)

	renderView := func(status int, view contactView) {
		h.render(w, r, status, "contact", h.pageData(r, h.contactTitle(view.Form, lang), view))
	}

	// A visitor in cooldown sees the confirmation again instead of a
	// duplicate submission.
	if remaining, message := h.guard.Cooldown(ip); remaining > 0 {
		if message == "" {
			message = i18n.T(lang, "contact.cooldown_default")
		}
		renderView(http.StatusOK, contactView{
			Form:    h.forms.Get(r.Context(), chain, false),
			Status:  "success",
			Message: message,
		})
		return
	}

	form := h.forms.Get(r.Context(), chain, false)
	if form == nil {
		renderView(http.StatusOK, contactView{
			Status:  "error",
			Message: i18n.T(lang, "contact.form_unavailable"),
		})
		return
	}

	honeypot := r.PostForm.Get(honeypotField)
	if form.Settings.EnableHoneypot && honeypot != "" {
		// Pretend the submission worked so the bot moves on.
		message := h.successMessage(form, nil, chain, lang)
		h.guard.StartCooldown(ip, message)
		h.logger.Warn("honeypot triggered", "ip", ip, "form", form.ID)
		renderView(http.StatusOK, contactView{Form: form, Status: "success", Message: message})
		return
	}

	submission := h.forms.BuildSubmission(form, r.PostForm, chain)
	if !submission.Valid() {
		renderView(http.StatusOK, contactView{
			Form:    form,
			Status:  "error",
			Message: i18n.T(lang, "contact.validation_error"),
			values:  r.PostForm,
			errors:  submission.Errors,
		})
		return
	}

	if err := h.guard.Allow(ip); err != nil {
		renderView(http.StatusOK, contactView{
			Form:    form,
			Status:  "error",
			Message: h.rateLimitMessage(err, lang),
			values:  r.PostForm,
		})
		return
	}

	result, err := h.forms.Submit(r.Context(), form.ID, submission.Data, lang, honeypot)
	if err != nil {
		renderView(http.StatusOK, contactView{
			Form:    form,
			Status:  "error",
			Message: h.submitErrorMessage(err, chain, lang),
			values:  r.PostForm,
		})
		return
	}

	message := h.successMessage(form, result, chain, lang)
	h.guard.StartCooldown(ip, message)
	h.logSubmission(r, form, ip, lang)

	renderView(http.StatusOK, contactView{Form: form, Status: "success", Message: message})
}

func (h *Handler) contactTitle(form *model.Form, lang string) string {
	if form != nil && form.Title != "" {
		return form.Title
	}
	return i18n.T(lang, "contact.page_title")
}

// successMessage picks the confirmation text: the upstream response
// wins, then the form's own success copy, then the catalog default.
func (h *Handler) successMessage(form *model.Form, result *service.SubmitResult, chain []string, lang string) string {
	if result != nil {
		if msg := result.Message.Resolve(chain, lang, "tr", "en"); msg != "" {
			return msg
		}
	}
	if msg := form.Settings.SuccessMessage.Resolve(chain, lang, "tr", "en"); msg != "" {
		return msg
	}
	return i18n.T(lang, "contact.success_default")
}

func (h *Handler) rateLimitMessage(err error, lang string) string {
	message := i18n.T(lang, "contact.rate_limit")
	var rle *guard.RateLimitError
	if errors.As(err, &rle) && rle.RetryAfter > 0 {
		seconds := int(math.Ceil(rle.RetryAfter.Seconds()))
		message += " " + i18n.T(lang, "contact.cooldown_wait", seconds)
	}
	return message
}

// submitErrorMessage maps an upstream failure to visitor-facing copy.
func (h *Handler) submitErrorMessage(err error, chain []string, lang string) string {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Status == http.StatusTooManyRequests {
			return i18n.T(lang, "contact.rate_limit")
		}
		var body struct {
			Message model.LocalizedText `json:"message"`
		}
		if jsonErr := json.Unmarshal([]byte(statusErr.Body), &body); jsonErr == nil {
			if msg := body.Message.Resolve(chain, lang, "tr", "en"); msg != "" {
				return msg
			}
		}
	}
	return i18n.T(lang, "contact.submission_error")
}

func (h *Handler) logSubmission(r *http.Request, form *model.Form, ip, lang string) {
	ua := useragent.Parse(r.UserAgent())

	country := ""
	if h.geo != nil {
		country = h.geo.LookupCountry(ip)
	}

	h.logger.Info("contact submission accepted",
		"submission", uuid.NewString(),
		"form", form.ID,
		"locale", lang,
		"country", country,
		"browser", ua.Name,
		"os", ua.OS,
		"mobile", ua.Mobile)
}
