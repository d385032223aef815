// Package views renders the landing page.
package views

import (
	"time"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/thinkai/waitlist/internal/models"
)

// PageData is everything the landing page needs for one render.
type PageData struct {
	State        models.PageState
	Alert        string
	FormError    string
	LogoURL      string
	VideoURL     string
	ContactEmail string
	Copyright    string
	// Confirmation is how long the showing "Added" state has left; the page
	// reloads when it ends.
	Confirmation time.Duration
}

// LoadingRefresh is how often a page showing an in-flight submission reloads.
const LoadingRefresh = time.Second

func Page(data PageData) g.Node {
	var refresh time.Duration
	switch {
	case data.State.IsLoading:
		refresh = LoadingRefresh
	case data.State.IsSubmitted:
		refresh = data.Confirmation
		if refresh <= 0 {
			refresh = LoadingRefresh
		}
	}

	return Layout(
		PageConfig{Refresh: refresh, Icon: data.LogoURL},
		Topbar(data.LogoURL),
		Main(
			Class("relative z-10 max-w-2xl mx-auto px-4 pt-16 pb-32"),
			Hero(),
			g.If(data.VideoURL != "", VideoSection(data.State, data.VideoURL)),
			WaitlistCard(data.State, data.FormError),
		),
		PageFooter(data.ContactEmail, data.Copyright),
		g.If(data.Alert != "", AlertDialog(data.Alert)),
	)
}

func NotFound(path string) g.Node {
	return Layout(
		PageConfig{Title: "Not Found - THINK AI"},
		Main(
			Class("max-w-2xl mx-auto px-4 pt-16 pb-32 text-center"),
			H1(Class("text-5xl font-extrabold mb-6"), g.Text("Not found")),
			P(Class("text-zinc-500"), g.Textf("Nothing lives at %s.", path)),
			A(Href("/"), Class("underline"), g.Text("Back to the waitlist")),
		),
	)
}
