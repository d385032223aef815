package portal

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/thinkai/waitlist/internal/landing"
	"github.com/thinkai/waitlist/internal/session"
	"github.com/thinkai/waitlist/internal/views"
)

// InvalidEmailMessage is shown next to the form when the address is rejected.
const InvalidEmailMessage = "Please enter a valid email address."

func (p *Portal) handleHome(w http.ResponseWriter, r *http.Request) {
	v, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	p.renderLanding(w, r, v.Controller, http.StatusOK, "")
}

func (p *Portal) renderLanding(w http.ResponseWriter, r *http.Request, c *landing.Controller, status int, formError string) {
	alert := c.TakeAlert()
	state := c.Snapshot()

	p.render(w, status, views.Page(views.PageData{
		State:        state,
		Alert:        alert,
		FormError:    formError,
		LogoURL:      p.assetURL(r.Context(), p.config.Assets.Logo),
		VideoURL:     p.assetURL(r.Context(), p.config.Assets.Video),
		ContactEmail: p.config.Site.ContactEmail,
		Copyright:    p.config.Site.Copyright,
		Confirmation: c.ConfirmationRemaining(),
	}))
}

// assetURL resolves name, leaving the asset out of the page if it cannot be.
func (p *Portal) assetURL(ctx context.Context, name string) string {
	url, err := p.assets.URL(ctx, name)
	if err != nil {
		p.log.Warn("resolve asset", zap.String("asset", name), zap.Error(err))
		return ""
	}
	return url
}

func (p *Portal) handleJoin(w http.ResponseWriter, r *http.Request) {
	v, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	email := r.PostFormValue("email")

	task, err := v.Controller.Submit(r.Context(), email)
	switch {
	case errors.Is(err, landing.ErrInvalidEmail):
		p.renderLanding(w, r, v.Controller, http.StatusUnprocessableEntity, InvalidEmailMessage)
		return
	case err != nil:
		// In flight, confirming or closed: the form was not active, nothing to do.
		p.log.Debug("join ignored", zap.String("visitor", v.ID), zap.Error(err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	// Give the sink a moment so the redirect usually lands on the settled page;
	// otherwise the loading page refreshes until it does.
	ctx, cancel := context.WithTimeout(r.Context(), p.config.Submission.SettleWait)
	defer cancel()
	if outcome, err := task.Wait(ctx); err != nil {
		p.log.Debug("join still pending", zap.String("task", task.ID), zap.String("outcome", string(outcome)))
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (p *Portal) handleLock(w http.ResponseWriter, r *http.Request) {
	if v, ok := session.FromContext(r.Context()); ok {
		v.Controller.ToggleLock()
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (p *Portal) handleVideo(w http.ResponseWriter, r *http.Request) {
	if v, ok := session.FromContext(r.Context()); ok {
		v.Controller.ToggleVideo()
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (p *Portal) handleNotFound(w http.ResponseWriter, r *http.Request) {
	p.render(w, http.StatusNotFound, views.NotFound(r.URL.Path))
}
