package config

import (
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

const scriptDirSentinel = "[file dirname [info script]]"

// ParseSearchPathFile reads an xschemrc-style file at path and resolves its
// "set"/"append" directives into an ordered list of library search
// directories. Variable references (${VAR}, $VAR, env(NAME)) and the
// literal script-directory sentinel are expanded; segments that don't
// name an existing path after expansion are silently dropped.
func ParseSearchPathFile(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	file, err := parseRC(string(raw))
	if err != nil {
		return nil, err
	}

	configDir := filepath.Dir(path)
	vars := make(map[string]string)
	var accum []string

	for _, d := range file.Directives {
		switch {
		case d.Set != nil:
			if d.Set.Var == "XSCHEM_LIBRARY_PATH" {
				accum = nil
				continue
			}
			vars[d.Set.Var] = expand(stripBraces(d.Set.Val), configDir, vars)

		case d.Append != nil:
			if d.Append.Var != "XSCHEM_LIBRARY_PATH" {
				continue
			}
			seg := strings.TrimPrefix(strings.TrimSpace(d.Append.Val), ":")
			accum = append(accum, expand(seg, configDir, vars))
		}
	}

	var out []string
	for _, seg := range accum {
		resolved, ok := resolvePath(seg, configDir)
		if !ok {
			log.Debugf("xschem: config: dropping non-existent search path %q", seg)
			continue
		}
		out = append(out, resolved)
	}
	return out, nil
}

func stripBraces(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '{' && s[len(s)-1] == '}' {
		return s[1 : len(s)-1]
	}
	return s
}

// expand substitutes ${VAR}, $VAR, $env(NAME) references and the
// script-directory sentinel within s. Unknown ${VAR}/$VAR references expand
// to the empty string, matching unset-variable behavior rather than failing
// the whole file over one bad reference.
func expand(s string, configDir string, vars map[string]string) string {
	s = strings.ReplaceAll(s, scriptDirSentinel, configDir)

	runes := []rune(s)
	n := len(runes)
	var b strings.Builder
	for i := 0; i < n; {
		if runes[i] != '$' || i+1 >= n {
			b.WriteRune(runes[i])
			i++
			continue
		}

		if runes[i+1] == '{' {
			j := i + 2
			for j < n && runes[j] != '}' {
				j++
			}
			b.WriteString(vars[string(runes[i+2:j])])
			if j < n {
				j++
			}
			i = j
			continue
		}

		if strings.HasPrefix(string(runes[i+1:]), "env(") {
			j := i + 5
			for j < n && runes[j] != ')' {
				j++
			}
			b.WriteString(os.Getenv(string(runes[i+5 : j])))
			if j < n {
				j++
			}
			i = j
			continue
		}

		if isIdentStart(runes[i+1]) {
			j := i + 1
			for j < n && isIdentChar(runes[j]) {
				j++
			}
			b.WriteString(vars[string(runes[i+1:j])])
			i = j
			continue
		}

		b.WriteRune(runes[i])
		i++
	}
	return b.String()
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentChar(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

// resolvePath makes seg absolute (relative to configDir when not already
// absolute), canonicalizes it, and reports whether it names an existing
// path.
func resolvePath(seg, configDir string) (string, bool) {
	seg = strings.TrimSpace(seg)
	if seg == "" {
		return "", false
	}
	if !filepath.IsAbs(seg) {
		seg = filepath.Join(configDir, seg)
	}
	seg = filepath.Clean(seg)

	if _, err := os.Stat(seg); err != nil {
		return "", false
	}
	if resolved, err := filepath.EvalSymlinks(seg); err == nil {
		seg = resolved
	}
	return seg, true
}
