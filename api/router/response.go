package router

import (
	"net/http"
)

// response is what a route produces for a request; serve renders it.
type response struct {
	status      int
	contentType string
	body        []byte
	location    string
}

type routeHandler func(r *http.Request) response

// serve adapts a routeHandler to grpc-gateway's runtime.HandlerFunc.
func (h routeHandler) serve(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	res := h(r)
	if res.location != "" {
		http.Redirect(w, r, res.location, res.status)
		return
	}
	if res.contentType != "" {
		w.Header().Set("Content-Type", res.contentType)
	}
	w.WriteHeader(res.status)
	if len(res.body) > 0 {
		_, _ = w.Write(res.body)
	}
}

func text(status int, msg string) response {
	return response{status: status, contentType: "text/plain; charset=utf-8", body: []byte(msg)}
}

func redirect(url string) response {
	return response{status: http.StatusFound, location: url}
}
