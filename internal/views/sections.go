package views

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/thinkai/waitlist/internal/models"
)

const ConfirmationText = "You've been added to the wait list."

func Topbar(logoURL string) g.Node {
	return Nav(
		Class("sticky top-0 z-50 bg-white/80 backdrop-blur-md border-b border-zinc-100 px-6 py-4"),
		Div(
			Class("max-w-2xl mx-auto flex items-center justify-between"),
			Span(
				Class("font-bold tracking-tighter text-xl"),
				Img(Src(logoURL), Alt("Logo"), Width("100"), Height("100")),
			),
			Div(
				Class("status-badge flex items-center gap-2 text-[10px] font-bold text-zinc-400 uppercase tracking-[0.2em]"),
				Span(Class("w-1.5 h-1.5 rounded-full bg-blue-500")),
				g.Text("V1.0 Coming Soon"),
			),
		),
	)
}

func Hero() g.Node {
	return Div(
		Class("hero mb-12 px-2"),
		H1(
			Class("text-5xl md:text-6xl font-extrabold tracking-[-0.04em] mb-6 leading-[0.95]"),
			g.Text("Think through. "),
			Br(),
			Span(Class("text-zinc-300 tracking-tighter"), g.Text("Then do.")),
		),
		P(
			Class("text-xl text-zinc-500 leading-relaxed max-w-md"),
			g.Text("The decision engine that visualizes outcomes through recursive reasoning. Built for startups and businesses who prioritize their plans and privacy."),
		),
	)
}

func VideoSection(state models.PageState, src string) g.Node {
	return Div(
		Class("video mb-12 rounded-[30px] overflow-hidden bg-zinc-50 border border-zinc-200"),
		g.El("video",
			ID("demo-video"),
			Src(src),
			g.Attr("loop"),
			g.Attr("muted"),
			g.Attr("playsinline"),
			g.If(state.IsPlaying, g.Attr("autoplay")),
			Class("w-full"),
		),
		g.El("form",
			Method("post"),
			Action("/video"),
			Class("flex justify-end p-3"),
			Button(
				Type("submit"),
				ID("video-toggle"),
				g.Attr("aria-pressed", boolAttr(state.IsPlaying)),
				Class("px-4 py-1 rounded-full border border-zinc-200 bg-white text-xs font-bold uppercase tracking-widest"),
				g.Text(state.VideoLabel()),
			),
		),
	)
}

func lockButtonClass(locked bool) string {
	base := "flex items-center gap-3 px-5 py-2 rounded-full border transition-all duration-300 "
	if locked {
		return base + "border-zinc-900 bg-zinc-900 text-white"
	}
	return base + "border-zinc-200 bg-white text-zinc-400"
}

func WaitlistCard(state models.PageState, formError string) g.Node {
	disabled := state.FormDisabled()
	return Div(
		Class("relative bg-zinc-50 border border-zinc-200 p-8 md:p-14 rounded-[30px] md:rounded-[40px] text-center"),
		g.El("form",
			Method("post"),
			Action("/lock"),
			Class("flex justify-center mb-10"),
			Button(
				Type("submit"),
				ID("lock-toggle"),
				g.Attr("aria-pressed", boolAttr(state.IsLocked)),
				Class(lockButtonClass(state.IsLocked)),
				Span(Class("lock-label text-[10px] font-black uppercase tracking-widest"), g.Text(state.LockLabel())),
				Span(Class("lock-icon text-xs"), g.Text(state.LockIcon())),
			),
		),
		H2(Class("text-3xl font-bold mb-3 tracking-tight"), g.Text("Join the Waitlist")),
		P(Class("text-zinc-400 text-sm mb-10"), g.Text("Secure your spot in the V1.0 private beta.")),
		g.El("form",
			ID("waitlist-form"),
			Method("post"),
			Action("/join"),
			Class("flex flex-col gap-3 max-w-sm mx-auto"),
			Input(
				Type("email"),
				Name("email"),
				ID("email"),
				Value(state.Email),
				Placeholder("Email address"),
				Class("w-full px-6 py-4 rounded-2xl bg-white border border-zinc-200 focus:border-black outline-none transition-all text-black placeholder:text-zinc-300 disabled:opacity-50"),
				Required(),
				g.If(disabled, Disabled()),
			),
			g.If(formError != "",
				P(Class("form-error text-sm text-red-600"), g.Attr("role", "status"), g.Text(formError)),
			),
			Button(
				Type("submit"),
				ID("join"),
				Class("w-full bg-black text-white font-bold py-4 rounded-2xl hover:bg-zinc-800 transition-all active:scale-[0.98] disabled:bg-zinc-400"),
				g.If(disabled, Disabled()),
				g.Text(state.SubmitLabel()),
			),
		),
		g.If(state.IsSubmitted,
			P(
				ID("confirmation"),
				Class("mt-6 text-sm font-bold text-blue-600 fade-in"),
				g.Text(ConfirmationText),
			),
		),
	)
}

// AlertDialog is the blocking notice shown after a failed submission.
// Dismissing it reloads the page, which no longer carries the alert.
func AlertDialog(message string) g.Node {
	return g.El("dialog",
		ID("alert"),
		g.Attr("open", ""),
		g.Attr("role", "alertdialog"),
		g.Attr("aria-modal", "true"),
		Class("fixed inset-0 m-auto max-w-sm rounded-2xl border border-zinc-200 p-8 text-center shadow-xl"),
		P(Class("mb-6 text-sm"), g.Text(message)),
		A(Href("/"), Class("inline-block bg-black text-white font-bold px-6 py-2 rounded-2xl"), g.Text("OK")),
	)
}

func PageFooter(contactEmail, copyright string) g.Node {
	return Footer(
		Class("max-w-2xl mx-auto pb-16 px-6 flex flex-col gap-10 items-center border-t border-zinc-100 pt-16"),
		Div(
			Class("w-full text-center overflow-hidden"),
			H6(
				Class("contact text-zinc-400 text-[10vw] md:text-[80px] lg:text-[100px] font-black tracking-tighter leading-none break-all"),
				g.Text(contactEmail),
			),
		),
		Div(
			Class("copyright text-zinc-400 text-[10px] font-bold text-center uppercase tracking-widest"),
			g.Text(copyright),
		),
	)
}

func boolAttr(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
