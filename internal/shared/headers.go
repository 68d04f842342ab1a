// Browser authentication headers captured from a "Copy as cURL" request.
package shared

import (
	"bufio"
	"bytes"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"slices"
	"strings"
)

var (
	headerFlag = regexp.MustCompile(`(?:-H|--header)\s+(?:'([^']+)'|"([^"]+)")`)
	cookieFlag = regexp.MustCompile(`(?:-b|--cookie)\s+(?:'([^']+)'|"([^"]+)")`)
)

// AuthHeaders are the request headers a logged-in browser sends to YouTube Music.
type AuthHeaders struct {
	Header http.Header
}

// Cookie returns the raw cookie header.
func (a *AuthHeaders) Cookie() string {
	return a.Header.Get("Cookie")
}

// CookieValue returns a single cookie by name, or "" when absent.
func (a *AuthHeaders) CookieValue(name string) string {
	for part := range strings.SplitSeq(a.Cookie(), ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if ok && k == name {
			return v
		}
	}
	return ""
}

// ParseCurlFile reads a file containing a cURL command and extracts its headers.
func ParseCurlFile(path string) (*AuthHeaders, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlCommand(content)
}

// ParseCurlCommand extracts headers from a cURL command. A cookie passed with -b
// takes precedence over a Cookie header.
func ParseCurlCommand(data []byte) (*AuthHeaders, error) {
	cmd := strings.ReplaceAll(string(data), "\\\n", " ")
	h := http.Header{}

	for _, m := range headerFlag.FindAllStringSubmatch(cmd, -1) {
		line := firstNonEmpty(m[1], m[2])
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		h.Set(strings.TrimSpace(k), strings.TrimSpace(v))
	}

	if m := cookieFlag.FindStringSubmatch(cmd); m != nil {
		h.Set("Cookie", firstNonEmpty(m[1], m[2]))
	}

	if len(h) == 0 {
		return nil, fmt.Errorf("%w: no headers found in curl command", ErrInvalidInput)
	}
	return &AuthHeaders{Header: h}, nil
}

// Raw renders the headers as sorted "Key: Value" lines.
func (a *AuthHeaders) Raw() string {
	keys := make([]string, 0, len(a.Header))
	for k := range a.Header {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s", k, a.Header.Get(k))
	}
	return b.String()
}

// WriteHeadersFile stores headers in the format read by [LoadHeadersFile].
func WriteHeadersFile(path string, a *AuthHeaders) error {
	if err := os.WriteFile(path, []byte(a.Raw()+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write headers file: %w", err)
	}
	return nil
}

// LoadHeadersFile reads "Key: Value" lines. Blank lines and lines starting with # are skipped.
func LoadHeadersFile(path string) (*AuthHeaders, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingCredentials, err)
	}

	h := http.Header{}
	sc := bufio.NewScanner(bytes.NewReader(content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("%w: malformed header line %q", ErrInvalidInput, line)
		}
		h.Set(strings.TrimSpace(k), strings.TrimSpace(v))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if h.Get("Cookie") == "" {
		return nil, fmt.Errorf("%w: headers file has no cookie", ErrMissingCredentials)
	}
	return &AuthHeaders{Header: h}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
