package youtube

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/devbush/ytlingo/internal/domain"
	"github.com/kkdai/youtube/v2"
)

// bestAudioFormat returns the audio-only format with the highest bitrate
func bestAudioFormat(formats youtube.FormatList) *youtube.Format {
	var best *youtube.Format
	for i := range formats {
		f := &formats[i]
		if !strings.HasPrefix(f.MimeType, "audio/") {
			continue
		}
		if best == nil || f.Bitrate > best.Bitrate {
			best = f
		}
	}
	return best
}

// withCredentials returns a client that attaches creds to every request.
// Empty credentials return base unchanged.
func withCredentials(base *http.Client, creds domain.Credentials) *http.Client {
	if creds.Empty() {
		return base
	}

	transport := base.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	c := *base
	c.Transport = &credentialTransport{
		base:  transport,
		creds: creds,
	}
	return &c
}

// credentialTransport sends visitor data as a header everywhere and the PO
// token as the pot parameter on media hosts
type credentialTransport struct {
	base  http.RoundTripper
	creds domain.Credentials
}

func (t *credentialTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())

	if vd := strings.TrimSpace(t.creds.VisitorData); vd != "" {
		r.Header.Set("X-Goog-Visitor-Id", vd)
	}
	if token := strings.TrimSpace(t.creds.POToken); token != "" && isMediaHost(r.URL) {
		q := r.URL.Query()
		q.Set("pot", token)
		r.URL.RawQuery = q.Encode()
	}

	return t.base.RoundTrip(r)
}

func isMediaHost(u *url.URL) bool {
	host := strings.ToLower(u.Hostname())
	return host == "googlevideo.com" || strings.HasSuffix(host, ".googlevideo.com")
}
