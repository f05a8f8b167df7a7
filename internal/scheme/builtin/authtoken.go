package builtin

import (
	"fmt"

	"github.com/marmos91/wgps/pkg/wgps"
)

// authTokenScheme is the default AuthorisationTokenScheme: a token is the
// concatenation of a static half (the read capability, sent once via a
// StaticToken handle) and a dynamic half (a sync signature, sent with
// every entry that authorisation covers).
type authTokenScheme struct{}

// AuthorisationToken returns the default AuthorisationTokenScheme.
func AuthorisationToken() wgps.AuthorisationTokenScheme { return authTokenScheme{} }

func (authTokenScheme) Decompose(token []byte) (static, dynamic []byte) {
	static, n, err := readBytes(token)
	if err != nil {
		return nil, nil
	}
	return static, token[n:]
}

func (authTokenScheme) Recompose(static, dynamic []byte) []byte {
	dst := writeBytes(nil, static)
	return append(dst, dynamic...)
}

func (authTokenScheme) EncodeStatic(static []byte) []byte { return writeBytes(nil, static) }

func (authTokenScheme) DecodeStatic(b []byte) ([]byte, int, error) { return readBytes(b) }

func (authTokenScheme) EncodeDynamic(dynamic []byte) []byte {
	dst := make([]byte, len(dynamic))
	copy(dst, dynamic)
	return dst
}

func (authTokenScheme) DecodeDynamic(b []byte) ([]byte, int, error) {
	if len(b) == 0 {
		return nil, 0, fmt.Errorf("builtin: empty dynamic token")
	}
	dst := make([]byte, len(b))
	copy(dst, b)
	return dst, len(b), nil
}
