package common

import (
	"path"
	"strings"
)

// PkgAlias returns the name a package path is usually imported as: its last
// element, skipping a major version suffix ("example.com/shop/v2" is "shop").
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	base := path.Base(pkgPath)
	if isMajorVersion(base) {
		if dir := path.Dir(pkgPath); dir != "." {
			return path.Base(dir)
		}
	}

	return base
}

func isMajorVersion(s string) bool {
	digits, ok := strings.CutPrefix(s, "v")
	if !ok || digits == "" || digits == "1" || digits[0] == '0' {
		return false
	}

	return strings.Trim(digits, "0123456789") == ""
}
