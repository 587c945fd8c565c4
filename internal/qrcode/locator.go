// Package qrcode builds image URLs for a public QR rendering service. No QR
// encoding happens locally.
package qrcode

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	DefaultServiceURL = "https://api.qrserver.com/v1/create-qr-code/"
	DefaultFormURL    = "http://localhost:8080/"
	DefaultSize       = 200
)

type Locator struct {
	serviceURL string
	formURL    string
}

// NewLocator falls back to DefaultServiceURL and DefaultFormURL for empty values.
func NewLocator(serviceURL, formURL string) Locator {
	if serviceURL == "" {
		serviceURL = DefaultServiceURL
	}
	if formURL == "" {
		formURL = DefaultFormURL
	}
	return Locator{serviceURL: serviceURL, formURL: formURL}
}

func (l Locator) ServiceURL() string {
	return l.serviceURL
}

// FormURL is the canonical address of the registration form.
func (l Locator) FormURL() string {
	return l.formURL
}

// FormQRCodeURL is the image URL for the form's own address.
func (l Locator) FormQRCodeURL(size int) string {
	return l.GenerateQRCodeURL(l.formURL, size)
}

// GenerateQRCodeURL returns {service}?size={N}x{N}&data={target}. An empty
// target still produces a well-formed URL with an empty payload.
func (l Locator) GenerateQRCodeURL(target string, size int) string {
	if size <= 0 {
		size = DefaultSize
	}

	separator := "?"
	if strings.Contains(l.serviceURL, "?") {
		separator = "&"
	}

	return fmt.Sprintf("%s%ssize=%dx%d&data=%s", l.serviceURL, separator, size, size, EncodeURIComponent(target))
}

// GenerateQRCodeURL uses the default service.
func GenerateQRCodeURL(target string, size int) string {
	return NewLocator("", "").GenerateQRCodeURL(target, size)
}

var uriComponentUnescapes = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent escapes s the way JavaScript's encodeURIComponent does.
func EncodeURIComponent(s string) string {
	return uriComponentUnescapes.Replace(url.QueryEscape(s))
}
