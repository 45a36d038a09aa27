package catalog

import "net/http"

// Fallback is returned for any code that cannot be sent as a final status.
const Fallback = http.StatusBadRequest

const (
	minStatus = 200
	maxStatus = 999
)

// Resolve maps a requested code to the status that will actually be written.
// Codes outside [200, 999] resolve to Fallback with recognized set to false.
// The 1xx class is excluded because net/http sends those as interim
// responses and follows them with a 200.
func Resolve(code int) (status int, recognized bool) {
	if code < minStatus || code > maxStatus {
		return Fallback, false
	}

	return code, true
}
