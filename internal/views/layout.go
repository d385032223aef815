package views

import (
	"fmt"
	"time"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

type PageConfig struct {
	Title       string
	Description string
	// Refresh reloads the page after the given delay when non-zero.
	Refresh time.Duration
	Icon    string
}

func Layout(config PageConfig, content ...g.Node) g.Node {
	if config.Title == "" {
		config.Title = "THINK AI - Think through. Then do."
	}
	if config.Description == "" {
		config.Description = "The decision engine that visualizes outcomes through recursive reasoning."
	}

	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
				TitleEl(g.Text(config.Title)),
				Meta(Name("description"), Content(config.Description)),
				Meta(g.Attr("property", "og:title"), Content(config.Title)),
				Meta(g.Attr("property", "og:description"), Content(config.Description)),
				g.If(config.Refresh > 0,
					Meta(g.Attr("http-equiv", "refresh"), Content(refreshSeconds(config.Refresh))),
				),
				g.If(config.Icon != "", Link(Rel("icon"), Href(config.Icon))),
				Link(Rel("stylesheet"), Href("/static/styles.css")),
			),
			Body(
				Class("min-h-screen bg-white text-black overflow-x-hidden"),
				g.Group(content),
			),
		),
	})
}

// refreshSeconds rounds up so the reload never lands before the deadline.
func refreshSeconds(d time.Duration) string {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return fmt.Sprintf("%d", secs)
}
