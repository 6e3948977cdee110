// Package genome holds reference genome chromosome models and the registry
// that catalogs them.
package genome

import (
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Model is an immutable reference genome: a display alias, a stable content
// digest and the chromosome name to length mapping.
type Model struct {
	alias  string
	digest string
	sizes  map[string]int64
	total  int64
}

// NewModel builds a Model from a copy of sizes. An empty digest is replaced
// by the content digest of sizes.
func NewModel(alias, digest string, sizes map[string]int64) (*Model, error) {
	if strings.TrimSpace(alias) == "" {
		return nil, &RegistryError{Reason: "genome alias cannot be empty"}
	}
	if len(sizes) == 0 {
		return nil, &RegistryError{Alias: alias, Reason: "genome has no chromosomes"}
	}

	cp := make(map[string]int64, len(sizes))
	var total int64
	for name, length := range sizes {
		if length < 0 {
			return nil, &RegistryError{
				Alias:  alias,
				Reason: fmt.Sprintf("chromosome %s has negative length %d", name, length),
			}
		}
		cp[name] = length
		total += length
	}

	if digest == "" {
		digest = ContentDigest(cp)
	}

	return &Model{alias: alias, digest: digest, sizes: cp, total: total}, nil
}

// Alias returns the genome's display name.
func (m *Model) Alias() string { return m.alias }

// Digest returns the genome's content identifier.
func (m *Model) Digest() string { return m.digest }

// Len returns the number of chromosomes.
func (m *Model) Len() int { return len(m.sizes) }

// TotalLength returns the sum of all chromosome lengths.
func (m *Model) TotalLength() int64 { return m.total }

// Size returns the length of chrom.
func (m *Model) Size(chrom string) (int64, bool) {
	v, ok := m.sizes[chrom]
	return v, ok
}

// Names returns chromosome names in lexical order.
func (m *Model) Names() []string {
	names := make([]string, 0, len(m.sizes))
	for k := range m.sizes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Sizes returns a copy of the chromosome length mapping.
func (m *Model) Sizes() map[string]int64 {
	cp := make(map[string]int64, len(m.sizes))
	for k, v := range m.sizes {
		cp[k] = v
	}
	return cp
}

func (m *Model) String() string {
	return fmt.Sprintf("%s (%d chromosomes, %s)", m.alias, len(m.sizes), m.digest)
}

// ContentDigest computes a sha512t24u digest (SHA-512 truncated to 24 bytes,
// base64url encoded) over the sorted "name:length" pairs of sizes.
func ContentDigest(sizes map[string]int64) string {
	names := make([]string, 0, len(sizes))
	for k := range sizes {
		names = append(names, k)
	}
	sort.Strings(names)

	var sb strings.Builder
	for i, name := range names {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(name)
		sb.WriteByte(':')
		sb.WriteString(strconv.FormatInt(sizes[name], 10))
	}

	sum := sha512.Sum512([]byte(sb.String()))
	return base64.URLEncoding.EncodeToString(sum[:24])
}
