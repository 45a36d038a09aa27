package assets_test

import (
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/responder/internal/assets"
)

var _ = Describe("Assets", func() {
	It("serves the home page as HTML", func() {
		w := httptest.NewRecorder()
		assets.Home(w, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(HavePrefix("text/html"))
		Expect(w.Body.String()).To(ContainSubstring("/error/count/{count}/"))
	})

	It("serves the stylesheet as CSS", func() {
		w := httptest.NewRecorder()
		assets.Stylesheet(w, httptest.NewRequest(http.MethodGet, "/responder.css", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(Equal("text/css; charset=utf-8"))
		Expect(w.Body.Len()).To(BeNumerically(">", 0))
	})
})
