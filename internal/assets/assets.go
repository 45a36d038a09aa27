// Package assets serves the embedded landing page and its stylesheet.
package assets

import (
	_ "embed"
	"net/http"
)

//go:embed static/home.html
var homePage []byte

//go:embed static/responder.css
var stylesheet []byte

func Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(homePage)
}

// Stylesheet sets the content type explicitly; the embedded bytes carry no
// type information.
func Stylesheet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(stylesheet)
}
