package router

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// ResolvePath maps a logical request onto its content-addressed cache file:
// {cacheDir}/{svcID}-{sha256hex}.{ext}. The digest covers the sanitized
// text, the service id, and the normalized options serialized as key=value
// pairs sorted by key, so the mapping is pure: identical inputs always
// yield the identical path regardless of option insertion order.
func ResolvePath(cacheDir, svcID, text string, options map[string]any, ext string) string {
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + fmt.Sprint(options[k])
	}

	sum := sha256.Sum256([]byte(text + "/" + svcID + "/" + strings.Join(pairs, ";")))
	name := svcID + "-" + hex.EncodeToString(sum[:]) + "." + ext
	return filepath.Join(cacheDir, name)
}
