package config

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
)

// windowsEnvRef matches %VAR% references.
var windowsEnvRef = regexp.MustCompile(`%[^%\s]+%`)

// expandPath resolves $VAR and ${VAR} references (and %VAR% on Windows),
// then a leading ~ to the user's home directory. Unset %VAR% references are
// left as written.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if runtime.GOOS == "windows" {
		p = expandPercentVars(p)
	}
	return expandHome(p)
}

func expandPercentVars(p string) string {
	return windowsEnvRef.ReplaceAllStringFunc(p, func(ref string) string {
		if v, ok := os.LookupEnv(ref[1 : len(ref)-1]); ok {
			return v
		}
		return ref
	})
}

// expandHome replaces "~", "~/" and, on Windows, "~\" prefixes.
func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") && !(runtime.GOOS == "windows" && strings.HasPrefix(p, `~\`)) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}
