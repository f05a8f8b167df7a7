package builtin

import "fmt"

const (
	defaultMaxComponentLength = 4096
	defaultMaxComponentCount  = 64
	defaultMaxPathLength      = 16384
)

// pathScheme is the default PathScheme: a component-count-prefixed,
// length-prefixed encoding with generous fixed bounds.
type pathScheme struct{}

// Path returns the default PathScheme.
func Path() pathScheme { return pathScheme{} }

func (pathScheme) MaxComponentLength() int { return defaultMaxComponentLength }

func (pathScheme) MaxComponentCount() int { return defaultMaxComponentCount }

func (pathScheme) MaxPathLength() int { return defaultMaxPathLength }

func (pathScheme) Encode(path [][]byte) []byte {
	dst := writeUint(nil, uint64(len(path)))
	for _, component := range path {
		dst = writeBytes(dst, component)
	}
	return dst
}

func (s pathScheme) Decode(b []byte) ([][]byte, int, error) {
	count, consumed, err := readUint(b)
	if err != nil {
		return nil, 0, fmt.Errorf("builtin: path component count: %w", err)
	}
	if int(count) > s.MaxComponentCount() {
		return nil, 0, fmt.Errorf("builtin: path has %d components, max %d", count, s.MaxComponentCount())
	}

	path := make([][]byte, 0, count)
	total := 0
	for i := uint64(0); i < count; i++ {
		component, n, err := readBytes(b[consumed:])
		if err != nil {
			return nil, 0, fmt.Errorf("builtin: path component %d: %w", i, err)
		}
		if len(component) > s.MaxComponentLength() {
			return nil, 0, fmt.Errorf("builtin: path component %d has length %d, max %d", i, len(component), s.MaxComponentLength())
		}
		consumed += n
		total += len(component)
		if total > s.MaxPathLength() {
			return nil, 0, fmt.Errorf("builtin: path total length %d exceeds max %d", total, s.MaxPathLength())
		}
		path = append(path, component)
	}
	return path, consumed, nil
}
