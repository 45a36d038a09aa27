package redirect

import (
	"net/http"
	"strconv"
)

const canonicalPath = "/code/200/"

// nestedTarget is deliberately relative. Clients must resolve it against the
// request path, so following it from /redirect/nested lands on /redirect/200.
const nestedTarget = "200"

// Target is where a redirect points and whether clients may cache it.
type Target struct {
	Location  string
	Permanent bool
}

// StatusCode returns 308 for permanent targets and 303 otherwise.
func (t Target) StatusCode() int {
	if t.Permanent {
		return http.StatusPermanentRedirect
	}

	return http.StatusSeeOther
}

// Fixed points at the canonical 200 response.
func Fixed() Target {
	return Target{Location: canonicalPath}
}

// ForCode points at the /code/{code}/ response for the given code.
func ForCode(code int) Target {
	return Target{Location: "/code/" + strconv.Itoa(code) + "/"}
}

// Nested returns a permanent redirect to a relative target.
func Nested() Target {
	return Target{Location: nestedTarget, Permanent: true}
}

// Write sends t without touching the Location value. http.Redirect is not
// used because it rewrites relative targets into root-absolute paths.
func Write(w http.ResponseWriter, t Target) {
	w.Header().Set("Location", t.Location)
	w.WriteHeader(t.StatusCode())
}
