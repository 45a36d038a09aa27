package handler

import "net/http"

// Route patterns, as reported in logs, spans and metrics labels.
const (
	RouteHome         = "/{$}"
	RouteStylesheet   = "/responder.css"
	RouteHealthz      = "/healthz/{$}"
	RouteCode         = "/code/{code}/{$}"
	RouteEmpty        = "/empty/{code}/{$}"
	RouteRandomError  = "/error/random/{percent}/{$}"
	RouteCountError   = "/error/count/{count}/{$}"
	RouteCountReset   = "/error/count/reset/{$}"
	RouteRedirect     = "/redirect/{$}"
	RouteRedirectCode = "/redirect/{code}/{$}"
	RouteRedirectNest = "/redirect/nested"
	RouteUnmatched    = "unmatched"
)

// Routes lists every responder route pattern, including those reserved for
// the home page and stylesheet.
var Routes = []string{
	RouteHome,
	RouteStylesheet,
	RouteHealthz,
	RouteCode,
	RouteEmpty,
	RouteRandomError,
	RouteCountError,
	RouteCountReset,
	RouteRedirect,
	RouteRedirectCode,
	RouteRedirectNest,
}

func (h *ResponderHandler) routes(home, stylesheet http.HandlerFunc) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc(RouteHome, home)
	mux.HandleFunc(RouteStylesheet, stylesheet)
	mux.HandleFunc(RouteHealthz, h.healthz)

	// /code/ and /empty/ are aliases.
	mux.HandleFunc(RouteCode, h.emptyResponse)
	mux.HandleFunc(RouteEmpty, h.emptyResponse)

	mux.HandleFunc(RouteRandomError, h.randomError)
	mux.HandleFunc(RouteCountError, h.errorCount)
	// More specific than RouteCountError, so ServeMux prefers it.
	mux.HandleFunc(RouteCountReset, h.errorCountReset)

	mux.HandleFunc(RouteRedirect, h.redirect)
	mux.HandleFunc(RouteRedirectCode, h.redirectCode)
	mux.HandleFunc(RouteRedirectNest, h.redirectNested)

	return mux
}
