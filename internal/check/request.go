package check

import (
	"net"
	"net/http"
)

func FromHTTPRequest(r *http.Request) RequestContext {
	values := RequestContext{
		RemoteAddr:    remoteIP(r.RemoteAddr),
		XForwardedFor: r.Header.Get("X-Forwarded-For"),
		XRealIP:       r.Header.Get("X-Real-Ip"),
		Referrer:      r.Referer(),
		UserAgent:     r.UserAgent(),
		Headers:       r.Header.Clone(),
		FormData:      make(map[string]any),
	}
	// a body that is not a form just leaves FormData empty
	_ = r.ParseForm()
	for k, v := range r.PostForm {
		switch len(v) {
		case 0:
		case 1:
			values.FormData[k] = v[0]
		default:
			list := make([]any, 0, len(v))
			for _, s := range v {
				list = append(list, s)
			}
			values.FormData[k] = list
		}
	}
	return values
}

func remoteIP(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
