package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"wonderland.co.zw/panels-web/internal/contact"
	mw "wonderland.co.zw/panels-web/internal/middleware"
	"wonderland.co.zw/panels-web/internal/observability"
	"wonderland.co.zw/panels-web/internal/pages"
)

const contactPanel = "contact_panel"

// Contact renders the form with the visitor's draft and submission status.
func (h *Handlers) Contact(w http.ResponseWriter, r *http.Request) {
	route := h.route(pages.Contact)
	in := h.intake(r)
	pd := h.layout(r, route)
	pd.Contact = h.contactView(r, in.State())
	h.page(w, r, http.StatusOK, route, pd)
}

// ContactSubmit hands the form to the intake. A second submit while one is
// pending is rejected with 409 and no gateway call.
func (h *Handlers) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	fields, err := formFields(r)
	if err != nil {
		mw.WriteError(w, r, http.StatusBadRequest, "malformed form")
		return
	}
	in := h.intake(r)
	st, err := in.Submit(fields)
	if errors.Is(err, contact.ErrIntakeClosed) {
		// swept between lookup and submit; a fresh intake takes over
		in = h.intake(r)
		st, err = in.Submit(fields)
	}
	switch {
	case errors.Is(err, contact.ErrSubmissionPending):
		mw.WriteError(w, r, http.StatusConflict, "a submission is already in progress")
		return
	case err != nil:
		h.fail(w, r, err)
		return
	}
	observability.FromContext(r.Context()).Info("contact submitted", zap.String("submission_id", st.SubmissionID))

	if !mw.IsHTMX(r.Context()) {
		http.Redirect(w, r, "/contact", http.StatusSeeOther)
		return
	}
	h.fragment(w, r, http.StatusAccepted, "contact", contactPanel, h.contactView(r, st))
}

// ContactDraft records edits. A resolved submission returns the form to idle.
func (h *Handlers) ContactDraft(w http.ResponseWriter, r *http.Request) {
	fields, err := formFields(r)
	if err != nil {
		mw.WriteError(w, r, http.StatusBadRequest, "malformed form")
		return
	}
	in := h.intake(r)
	prev := in.State().Status
	st, err := in.Edit(fields)
	if errors.Is(err, contact.ErrIntakeClosed) {
		in = h.intake(r)
		st, err = in.Edit(fields)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !mw.IsHTMX(r.Context()) {
		http.Redirect(w, r, "/contact", http.StatusSeeOther)
		return
	}
	if !prev.Terminal() {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	// only the status line changes; the inputs being typed into stay put
	view := h.contactView(r, st)
	view.OOB = true
	h.fragment(w, r, http.StatusOK, "contact", "contact_status", view)
}

// ContactStatus serves the panel htmx polls while a submission is pending.
func (h *Handlers) ContactStatus(w http.ResponseWriter, r *http.Request) {
	st := contact.State{Status: contact.StatusIdle}
	if in, ok := h.intakes.Peek(mw.GetSession(r).ID); ok && !in.Closed() {
		st = in.State()
	}
	w.Header().Set("Cache-Control", "no-store")
	h.fragment(w, r, http.StatusOK, "contact", contactPanel, h.contactView(r, st))
}

func (h *Handlers) intake(r *http.Request) *contact.Intake {
	return h.intakes.Get(mw.GetSession(r).ID)
}

func (h *Handlers) contactView(r *http.Request, st contact.State) *ContactView {
	biz := h.content.Current().Site.Business
	return &ContactView{
		Status:         st.Status,
		Fields:         st.Fields,
		Missing:        st.Missing,
		DeliveryFailed: st.DeliveryFailed,
		Map:            biz.Map,
		Hours:          biz.Hours,
		CSRF:           mw.CSRFToken(r),
		Lang:           mw.Lang(r),
	}
}

// formFields reads the raw values; whitespace is content, so nothing is trimmed.
func formFields(r *http.Request) (contact.Fields, error) {
	if err := r.ParseForm(); err != nil {
		return contact.Fields{}, err
	}
	return contact.Fields{
		Name:    r.PostForm.Get("name"),
		Email:   r.PostForm.Get("email"),
		Message: r.PostForm.Get("message"),
	}, nil
}
