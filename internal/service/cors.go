package service

import "net/http"

// corsHeaders are sent on every response, preflight or not.
var corsHeaders = [...][2]string{
	{"Access-Control-Allow-Origin", "*"},
	{"Access-Control-Allow-Methods", "GET,HEAD,OPTIONS"},
	{"Access-Control-Allow-Headers", "*"},
	{"Access-Control-Max-Age", "86400"},
}

// ApplyCORS sets the permissive CORS headers on h, replacing any upstream values.
func ApplyCORS(h http.Header) {
	for _, kv := range corsHeaders {
		h.Set(kv[0], kv[1])
	}
}
