package azblob

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const sasVersion = "2021-08-06"

// SignedURL returns a read-only service SAS URL for a blob, valid from now
// until now+ttl. The URL is handed to the layout-analysis service so it can
// fetch the PDF without storage credentials.
func (c *Client) SignedURL(container, name string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("sas ttl must be positive")
	}

	start := c.now().UTC().Add(-5 * time.Minute) // clock-skew allowance
	expiry := c.now().UTC().Add(ttl)

	startStr := start.Format("2006-01-02T15:04:05Z")
	expiryStr := expiry.Format("2006-01-02T15:04:05Z")

	canonicalResource := fmt.Sprintf("/blob/%s/%s/%s", c.creds.AccountName, container, name)

	// Service SAS string-to-sign for blob resources, version 2020-12-06+.
	stringToSign := strings.Join([]string{
		"r", // signedPermissions: read only
		startStr,
		expiryStr,
		canonicalResource,
		"",      // signedIdentifier
		"",      // signedIP
		"https", // signedProtocol
		sasVersion,
		"b", // signedResource: blob
		"",  // signedSnapshotTime
		"",  // signedEncryptionScope
		"",  // rscc
		"",  // rscd
		"",  // rsce
		"",  // rscl
		"",  // rsct
	}, "\n")

	query := url.Values{
		"sv":  {sasVersion},
		"sr":  {"b"},
		"sp":  {"r"},
		"st":  {startStr},
		"se":  {expiryStr},
		"spr": {"https"},
		"sig": {c.creds.hmacSign(stringToSign)},
	}

	return fmt.Sprintf("%s/%s/%s?%s",
		c.creds.Endpoint, container, url.PathEscape(name), query.Encode()), nil
}
