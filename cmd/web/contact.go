package main

import (
	"net/http"
	"net/mail"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"finitefield.org/folio-web/internal/backend"
	mw "finitefield.org/folio-web/internal/middleware"
	"finitefield.org/folio-web/internal/observability"
)

const maxContactMessage = 5000

type contactView struct {
	Lang      string
	CSRFToken string
	Form      backend.ContactMessage
	Errors    map[string]string
	// Status is "", "sent", "invalid" or "failed".
	Status string
}

// ContactHandler renders the contact form.
func (a *app) ContactHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	vm := a.newPageData(r, i18nOrDefault(lang, "nav.contact", "Contact"), "", "")
	vm.Contact = contactView{Lang: lang, CSRFToken: vm.CSRFToken}
	renderPage(w, r, "contact", vm)
}

// ContactSubmitHandler validates and forwards the form. htmx requests get
// the form fragment back; plain posts get the full page.
func (a *app) ContactSubmitHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	view := contactView{
		Lang:      lang,
		CSRFToken: mw.CSRFToken(r),
		Form: backend.ContactMessage{
			Name:    strings.TrimSpace(r.PostFormValue("name")),
			Email:   strings.TrimSpace(r.PostFormValue("email")),
			Message: strings.TrimSpace(r.PostFormValue("message")),
		},
	}
	status := http.StatusOK
	if errs := validateContact(view.Form); len(errs) > 0 {
		view.Errors = errs
		view.Status = "invalid"
		status = http.StatusUnprocessableEntity
	} else if err := a.api.SendContactMessage(r.Context(), view.Form); err != nil {
		observability.FromContext(r.Context()).Error("contact message failed", zap.Error(err))
		view.Status = "failed"
		status = http.StatusBadGateway
	} else {
		view.Status = "sent"
		view.Form = backend.ContactMessage{}
	}

	if mw.IsHTMX(r.Context()) {
		// htmx only swaps 2xx responses by default
		executeTemplate(w, r, http.StatusOK, "contact_form", view)
		return
	}
	vm := a.newPageData(r, i18nOrDefault(lang, "nav.contact", "Contact"), "", "")
	vm.Contact = view
	renderPageStatus(w, r, status, "contact", vm)
}

func validateContact(m backend.ContactMessage) map[string]string {
	errs := map[string]string{}
	if m.Name == "" {
		errs["name"] = "Name is required."
	}
	if m.Email == "" {
		errs["email"] = "Email is required."
	} else if addr, err := mail.ParseAddress(m.Email); err != nil || addr.Address != m.Email {
		errs["email"] = "Enter a valid email address."
	}
	switch {
	case m.Message == "":
		errs["message"] = "Message is required."
	case utf8.RuneCountInString(m.Message) > maxContactMessage:
		errs["message"] = "Message is too long."
	}
	return errs
}
