package shield

import "net/http"

// HeadToGet rewrites HEAD requests to GET before routing. chi matches
// handlers per method, so a HEAD against a route registered with r.Get would
// otherwise 405; net/http strips the response body for HEAD on its own, so
// the rewrite is safe for every route in this service.
func HeadToGet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			r.Method = http.MethodGet
		}
		next.ServeHTTP(w, r)
	})
}
