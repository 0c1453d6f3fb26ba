package ports

import (
	"context"
	"io"

	"github.com/devbush/ytlingo/internal/domain"
)

// AudioRequest describes a single audio download.
type AudioRequest struct {
	URL     string
	VideoID string
	// Credentials for this call only. When empty the source falls back to
	// its CredentialProvider, if it has one.
	Credentials domain.Credentials
}

// AudioSource yields the raw audio stream of a video.
type AudioSource interface {
	// FetchAudio opens the best audio-only stream. The caller closes it.
	// Failures wrap domain.ErrAudioUnavailable.
	FetchAudio(ctx context.Context, req AudioRequest) (io.ReadCloser, error)
}

// Transcoder converts an arbitrary audio container to MP3.
type Transcoder interface {
	// ToMP3 reads from in until EOF and writes MP3 bytes to out.
	ToMP3(ctx context.Context, in io.Reader, out io.Writer) error
}

// CredentialProvider supplies session tokens to an AudioSource.
type CredentialProvider interface {
	Credentials(ctx context.Context) (domain.Credentials, error)
}

// CredentialProviderFunc adapts a function to CredentialProvider.
type CredentialProviderFunc func(ctx context.Context) (domain.Credentials, error)

func (f CredentialProviderFunc) Credentials(ctx context.Context) (domain.Credentials, error) {
	return f(ctx)
}

// StaticCredentials always returns the same tokens.
type StaticCredentials domain.Credentials

func (s StaticCredentials) Credentials(ctx context.Context) (domain.Credentials, error) {
	return domain.Credentials(s), nil
}

// ResolveCredentials returns req's credentials, falling back to provider when
// the request carries none.
func ResolveCredentials(ctx context.Context, req AudioRequest, provider CredentialProvider) (domain.Credentials, error) {
	if !req.Credentials.Empty() || provider == nil {
		return req.Credentials, nil
	}
	return provider.Credentials(ctx)
}
