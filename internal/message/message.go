package message

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/maskrapp/spamguard/internal/check"
)

const (
	SDKName    = "cleantalk_wordpress_sdk"
	SDKVersion = "0.1.1"

	EventTokenField = "ct_bot_detector_event_token"
)

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// Message is the payload sent to the moderation endpoint.
type Message struct {
	SenderIP       string `json:"sender_ip"`
	XForwardedFor  string `json:"x_forwarded_for"`
	XRealIP        string `json:"x_real_ip"`
	AuthKey        string `json:"auth_key"`
	Agent          string `json:"agent"`
	SenderEmail    string `json:"sender_email"`
	SenderNickname string `json:"sender_nickname"`
	EventToken     string `json:"event_token"`
	AllHeaders     string `json:"all_headers"`
	Referrer       string `json:"referrer"`
	UserAgent      string `json:"user_agent"`
	SenderMessage  string `json:"sender_message"`
	SenderInfo     string `json:"sender_info"`
	SDKVersion     string `json:"sdk_version"`
}

type senderInfo struct {
	// the vendor expects this misspelling
	Referrer   string `json:"REFFERRER"`
	UserAgent  string `json:"user_agent"`
	Message    string `json:"message"`
	SDKVersion string `json:"sdk_version"`
}

func Build(req check.RequestContext, accessKey, agent string) *Message {
	if agent == "" {
		agent = SDKName + "_" + SDKVersion
	}
	msg := &Message{
		SenderIP:      req.RemoteAddr,
		XForwardedFor: req.XForwardedFor,
		XRealIP:       req.XRealIP,
		AuthKey:       accessKey,
		Agent:         agent,
		SenderEmail:   FindEmail(req.FormData),
		AllHeaders:    encodeHeaders(req.Headers),
		Referrer:      req.Referrer,
		UserAgent:     req.UserAgent,
		SDKVersion:    SDKVersion,
	}
	if token, ok := req.FormData[EventTokenField].(string); ok {
		msg.EventToken = token
	}
	msg.SenderInfo = msg.senderInfo()
	return msg
}

// JSON serializes the message, refreshing sender_info from the current
// field values first.
func (m *Message) JSON() ([]byte, error) {
	m.SenderInfo = m.senderInfo()
	return json.Marshal(m)
}

func (m *Message) senderInfo() string {
	data, err := json.Marshal(senderInfo{
		Referrer:   m.Referrer,
		UserAgent:  m.UserAgent,
		Message:    m.SenderMessage,
		SDKVersion: m.SDKVersion,
	})
	if err != nil {
		return ""
	}
	return string(data)
}

// FindEmail walks data depth-first and returns the first email-shaped
// substring it meets. Map keys are visited in sorted order and slices in
// index order, so the winner is stable for a given input.
func FindEmail(data any) string {
	email, _ := findEmail(data)
	return email
}

// maxDepth bounds the walk so self-referencing pointers cannot loop forever.
const maxDepth = 32

func findEmail(data any) (string, bool) {
	return walk(reflect.ValueOf(data), 0)
}

func walk(v reflect.Value, depth int) (string, bool) {
	if depth > maxDepth {
		return "", false
	}
	switch v.Kind() {
	case reflect.String:
		if match := emailPattern.FindString(v.String()); match != "" {
			return match, true
		}
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return "", false
		}
		return walk(v.Elem(), depth+1)
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if email, ok := walk(v.Index(i), depth+1); ok {
				return email, true
			}
		}
	case reflect.Map:
		for _, k := range sortedKeys(v) {
			if email, ok := walk(v.MapIndex(k), depth+1); ok {
				return email, true
			}
		}
	}
	return "", false
}

func sortedKeys(m reflect.Value) []reflect.Value {
	keys := m.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
	})
	return keys
}

func encodeHeaders(headers http.Header) string {
	filtered := make(map[string]string, len(headers))
	for k, v := range headers {
		if strings.EqualFold(k, "cookie") {
			continue
		}
		filtered[k] = strings.Join(v, ", ")
	}
	if len(filtered) == 0 {
		return ""
	}
	data, err := json.Marshal(filtered)
	if err != nil {
		return ""
	}
	return string(data)
}
