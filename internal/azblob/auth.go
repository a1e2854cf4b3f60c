package azblob

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// Credentials identifies a storage account.
type Credentials struct {
	AccountName string
	AccountKey  []byte // decoded
	Endpoint    string // e.g. https://account.blob.core.windows.net
}

// ParseConnectionString extracts account credentials from an Azure storage
// connection string (AccountName=...;AccountKey=...;EndpointSuffix=...).
func ParseConnectionString(conn string) (*Credentials, error) {
	parts := map[string]string{}
	for _, seg := range strings.Split(conn, ";") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		key, value, found := strings.Cut(seg, "=")
		if !found {
			return nil, fmt.Errorf("malformed connection string segment %q", key)
		}
		parts[key] = value
	}

	name := parts["AccountName"]
	if name == "" {
		return nil, fmt.Errorf("connection string missing AccountName")
	}
	rawKey := parts["AccountKey"]
	if rawKey == "" {
		return nil, fmt.Errorf("connection string missing AccountKey")
	}
	key, err := base64.StdEncoding.DecodeString(rawKey)
	if err != nil {
		return nil, fmt.Errorf("invalid AccountKey: %w", err)
	}

	endpoint := parts["BlobEndpoint"]
	if endpoint == "" {
		suffix := parts["EndpointSuffix"]
		if suffix == "" {
			suffix = "core.windows.net"
		}
		protocol := parts["DefaultEndpointsProtocol"]
		if protocol == "" {
			protocol = "https"
		}
		endpoint = fmt.Sprintf("%s://%s.blob.%s", protocol, name, suffix)
	}

	return &Credentials{
		AccountName: name,
		AccountKey:  key,
		Endpoint:    strings.TrimRight(endpoint, "/"),
	}, nil
}

// sign computes the SharedKey authorization header for a request and
// attaches it. The request must already carry its x-ms-* headers.
func (c *Credentials) sign(req *http.Request) {
	stringToSign := strings.Join([]string{
		req.Method,
		req.Header.Get("Content-Encoding"),
		req.Header.Get("Content-Language"),
		contentLengthString(req),
		req.Header.Get("Content-MD5"),
		req.Header.Get("Content-Type"),
		"", // Date - always empty, x-ms-date is used instead
		req.Header.Get("If-Modified-Since"),
		req.Header.Get("If-Match"),
		req.Header.Get("If-None-Match"),
		req.Header.Get("If-Unmodified-Since"),
		req.Header.Get("Range"),
		c.canonicalizedHeaders(req),
		c.canonicalizedResource(req.URL),
	}, "\n")

	req.Header.Set("Authorization",
		fmt.Sprintf("SharedKey %s:%s", c.AccountName, c.hmacSign(stringToSign)))
}

func (c *Credentials) hmacSign(stringToSign string) string {
	mac := hmac.New(sha256.New, c.AccountKey)
	mac.Write([]byte(stringToSign))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// contentLengthString renders Content-Length for the string-to-sign:
// empty when zero, per the 2015-02-21+ signing rules.
func contentLengthString(req *http.Request) string {
	if req.ContentLength <= 0 {
		return ""
	}
	return fmt.Sprintf("%d", req.ContentLength)
}

func (c *Credentials) canonicalizedHeaders(req *http.Request) string {
	var keys []string
	for key := range req.Header {
		lower := strings.ToLower(key)
		if strings.HasPrefix(lower, "x-ms-") {
			keys = append(keys, lower)
		}
	}
	sort.Strings(keys)

	lines := make([]string, len(keys))
	for i, key := range keys {
		lines[i] = key + ":" + strings.TrimSpace(req.Header.Get(key))
	}
	return strings.Join(lines, "\n")
}

func (c *Credentials) canonicalizedResource(u *url.URL) string {
	var sb strings.Builder
	sb.WriteString("/")
	sb.WriteString(c.AccountName)
	sb.WriteString(u.EscapedPath())

	query := u.Query()
	var params []string
	for key := range query {
		params = append(params, strings.ToLower(key))
	}
	sort.Strings(params)
	for _, key := range params {
		values := query[key]
		sort.Strings(values)
		sb.WriteString("\n")
		sb.WriteString(key)
		sb.WriteString(":")
		sb.WriteString(strings.Join(values, ","))
	}
	return sb.String()
}
