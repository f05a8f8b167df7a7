package builtin

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/wgps/pkg/wgps"
)

func TestIdentityScheme_RoundTrips(t *testing.T) {
	s := Namespace()
	encoded := s.Encode([]byte("family"))
	decoded, n, err := s.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, len(encoded), n)
	assert.True(t, s.IsEqual([]byte("family"), decoded))
	assert.False(t, s.IsEqual([]byte("family"), []byte("gemma")))
}

func TestSubspaceScheme_Order(t *testing.T) {
	s := Subspace()
	assert.Negative(t, s.Order([]byte("a"), []byte("b")))
	assert.Positive(t, s.Order([]byte("b"), []byte("a")))
	assert.Zero(t, s.Order([]byte("a"), []byte("a")))
}

func TestPathScheme_RoundTrips(t *testing.T) {
	s := Path()
	path := [][]byte{[]byte("a"), []byte("bb"), []byte("ccc")}
	encoded := s.Encode(path)

	decoded, n, err := s.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, len(encoded), n)
	assert.Equal(t, path, decoded)
}

func TestPathScheme_RejectsOversizedComponentCount(t *testing.T) {
	s := Path()
	path := make([][]byte, s.MaxComponentCount()+1)
	for i := range path {
		path[i] = []byte("x")
	}
	encoded := s.Encode(path)

	_, _, err := s.Decode(encoded)
	require.Error(t, err)
}

func TestCapability_ValidAfterIssuance(t *testing.T) {
	namespacePub, namespacePriv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	receiverPub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	area := wgps.Area{
		SubspaceIsAny: true,
		PathPrefix:    [][]byte{[]byte("docs")},
		Times:         wgps.TimeRange{Start: 0, End: wgps.OpenEnd},
	}
	cap := IssueCapability(namespacePriv, receiverPub, area)

	assert.True(t, cap.IsValid())
	assert.Equal(t, []byte(receiverPub), cap.Receiver())
	assert.Equal(t, []byte(namespacePub), cap.GrantedNamespace())
	assert.Equal(t, area, cap.GrantedArea())
}

func TestCapability_InvalidAfterTampering(t *testing.T) {
	_, namespacePriv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	receiverPub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	cap := IssueCapability(namespacePriv, receiverPub, wgps.Area{})
	cap.Area.PathPrefix = [][]byte{[]byte("tampered")}

	assert.False(t, cap.IsValid())
}

func TestAccessControlScheme_EncodeDecodeRoundTrips(t *testing.T) {
	namespacePub, namespacePriv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	receiverPub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	area := wgps.Area{
		PathPrefix: [][]byte{[]byte("a"), []byte("b")},
		Times:      wgps.TimeRange{Start: 10, End: 20},
	}
	cap := IssueCapability(namespacePriv, receiverPub, area)

	scheme := AccessControl()
	encoded := scheme.EncodeCapability(cap, wgps.Area{}, namespacePub)

	decoded, n, err := scheme.DecodeCapability(encoded, wgps.Area{}, namespacePub)
	require.NoError(t, err)
	assert.Equal(t, len(encoded), n)
	assert.True(t, decoded.IsValid())
	assert.Equal(t, area, decoded.GrantedArea())
}

func TestSubspaceCapScheme_EncodeDecodeRoundTrips(t *testing.T) {
	_, namespacePriv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	receiverPub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	cap := IssueSubspaceCap(namespacePriv, receiverPub)
	scheme := SubspaceCapability()

	encoded := scheme.Encode(cap)
	decoded, n, err := scheme.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, len(encoded), n)
	assert.True(t, scheme.IsValidCapability(decoded))
}

func TestAuthTokenScheme_DecomposeRecompose(t *testing.T) {
	scheme := AuthorisationToken()
	token := scheme.Recompose([]byte("static-half"), []byte("dynamic-half"))

	static, dynamic := scheme.Decompose(token)
	assert.Equal(t, []byte("static-half"), static)
	assert.Equal(t, []byte("dynamic-half"), dynamic)
}

func TestFingerprintScheme_RoundTrips(t *testing.T) {
	scheme := Fingerprint()
	assert.Len(t, scheme.NeutralElement(), fingerprintSize)

	fp := make([]byte, fingerprintSize)
	for i := range fp {
		fp[i] = byte(i)
	}
	encoded := scheme.Encode(fp)
	decoded, n, err := scheme.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, fingerprintSize, n)
	assert.Equal(t, fp, decoded)
}

func TestBundle_PopulatesEverySessionScheme(t *testing.T) {
	b := Bundle()
	assert.NotNil(t, b.Namespace)
	assert.NotNil(t, b.Subspace)
	assert.NotNil(t, b.PayloadDigest)
	assert.NotNil(t, b.Path)
	assert.NotNil(t, b.Pai)
	assert.NotNil(t, b.AccessControl)
	assert.NotNil(t, b.SubspaceCap)
	assert.NotNil(t, b.AuthToken)
	assert.NotNil(t, b.Fingerprint)
}
