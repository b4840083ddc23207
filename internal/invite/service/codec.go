package service

import (
	"encoding/base64"
	"net/url"
	"regexp"
	"strings"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
	"github.com/allisson/familykeys/internal/errors"
	inviteDomain "github.com/allisson/familykeys/internal/invite/domain"
)

var (
	lookupPattern = `FAMILY-[` + inviteDomain.LookupAlphabet + `]{16}`
	lookupRegex   = regexp.MustCompile(`^` + lookupPattern + `$`)
	fullCodeRegex = regexp.MustCompile(`^` + lookupPattern + `(:[A-Za-z0-9+/]{43}=)?$`)
)

type codec struct{}

// NewCodec creates the invite code codec.
func NewCodec() Codec {
	return codec{}
}

func malformed(reason string) error {
	return errors.Wrap(inviteDomain.ErrMalformedInviteCode, reason)
}

func validateLookup(lookupCode string) error {
	if !lookupRegex.MatchString(lookupCode) {
		return malformed("lookup code must be FAMILY- followed by 16 unambiguous symbols")
	}
	return nil
}

func validateRawKey(rawKeyBase64 string) error {
	if len(rawKeyBase64) != base64.StdEncoding.EncodedLen(cryptoDomain.KeySize) {
		return malformed("key segment has the wrong length")
	}
	raw, err := base64.StdEncoding.Strict().DecodeString(rawKeyBase64)
	if err != nil || len(raw) != cryptoDomain.KeySize {
		return malformed("key segment is not standard base64 of a 256-bit key")
	}
	cryptoDomain.Zero(raw)
	return nil
}

// Mint returns lookupCode, or lookupCode:rawKeyBase64 when a key is given.
func (codec) Mint(lookupCode, rawKeyBase64 string) (string, error) {
	if err := validateLookup(lookupCode); err != nil {
		return "", err
	}
	if rawKeyBase64 == "" {
		return lookupCode, nil
	}
	if err := validateRawKey(rawKeyBase64); err != nil {
		return "", err
	}
	return lookupCode + inviteDomain.KeySeparator + rawKeyBase64, nil
}

// Split parses a typed or pasted code. Surrounding whitespace is ignored and the lookup
// portion is upper-cased; the key segment is case sensitive.
func (codec) Split(fullCode string) (*inviteDomain.InviteCode, error) {
	fullCode = strings.TrimSpace(fullCode)
	lookupCode, rawKey, hasKey := strings.Cut(fullCode, inviteDomain.KeySeparator)
	lookupCode = strings.ToUpper(lookupCode)

	if err := validateLookup(lookupCode); err != nil {
		return nil, err
	}
	if hasKey {
		if err := validateRawKey(rawKey); err != nil {
			return nil, err
		}
	}
	return &inviteDomain.InviteCode{LookupCode: lookupCode, RawKey: rawKey}, nil
}

// ValidateFormat reports whether code is in canonical form.
func (codec) ValidateFormat(code string) bool {
	return fullCodeRegex.MatchString(code)
}

// ServerBound returns exactly the lookup portion of fullCode.
func (c codec) ServerBound(fullCode string) (string, error) {
	code, err := c.Split(fullCode)
	if err != nil {
		return "", err
	}
	return code.LookupCode, nil
}

// ShareLink places fullCode in the fragment of baseURL. HTTP clients never send fragments.
func (c codec) ShareLink(baseURL, fullCode string) (string, error) {
	code, err := c.Split(fullCode)
	if err != nil {
		return "", err
	}

	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", errors.Wrap(errors.ErrInvalidInput, "share link base must be an absolute URL")
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return "", errors.Wrap(errors.ErrInvalidInput, "share link base must not carry a query or fragment")
	}

	canonical, err := c.Mint(code.LookupCode, code.RawKey)
	if err != nil {
		return "", err
	}
	u.Fragment = canonical
	return u.String(), nil
}

// ParseShareLink extracts the invite code from the fragment of link.
func (c codec) ParseShareLink(link string) (*inviteDomain.InviteCode, error) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return nil, malformed("share link is not a URL")
	}
	if u.Fragment == "" {
		return nil, malformed("share link has no invite fragment")
	}
	return c.Split(u.Fragment)
}
