package redirect_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/responder/internal/redirect"
)

var _ = Describe("Redirect", func() {
	Describe("Fixed", func() {
		It("targets the code 200 path", func() {
			t := redirect.Fixed()
			Expect(t.Location).To(Equal("/code/200/"))
			Expect(t.Permanent).To(BeFalse())
			Expect(t.StatusCode()).To(Equal(http.StatusSeeOther))
		})
	})

	Describe("ForCode", func() {
		It("embeds the requested code", func() {
			t := redirect.ForCode(404)
			Expect(t.Location).To(Equal("/code/404/"))
			Expect(t.Location).To(ContainSubstring("404"))
			Expect(t.Permanent).To(BeFalse())
		})

		It("does not validate the code", func() {
			Expect(redirect.ForCode(9999).Location).To(Equal("/code/9999/"))
		})
	})

	Describe("Nested", func() {
		It("is permanent", func() {
			t := redirect.Nested()
			Expect(t.Permanent).To(BeTrue())
			Expect(t.StatusCode()).To(Equal(http.StatusPermanentRedirect))
		})

		It("is neither host-qualified nor root-absolute", func() {
			t := redirect.Nested()
			u, err := url.Parse(t.Location)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.IsAbs()).To(BeFalse())
			Expect(u.Host).To(BeEmpty())
			Expect(strings.HasPrefix(t.Location, "/")).To(BeFalse())
		})

		It("resolves against the request path", func() {
			base, _ := url.Parse("http://localhost:3000/redirect/nested")
			ref, _ := url.Parse(redirect.Nested().Location)
			Expect(base.ResolveReference(ref).Path).To(Equal("/redirect/200"))
		})
	})

	Describe("Write", func() {
		It("sends the location verbatim", func() {
			w := httptest.NewRecorder()
			redirect.Write(w, redirect.Nested())

			Expect(w.Code).To(Equal(http.StatusPermanentRedirect))
			Expect(w.Header().Get("Location")).To(Equal("200"))
			Expect(w.Body.Len()).To(BeZero())
		})

		It("uses See Other for temporary targets", func() {
			w := httptest.NewRecorder()
			redirect.Write(w, redirect.ForCode(418))

			Expect(w.Code).To(Equal(http.StatusSeeOther))
			Expect(w.Header().Get("Location")).To(Equal("/code/418/"))
		})
	})
})
