// Package utils holds small helpers shared across the service.
package utils

import "net/url"

// DefaultQRBaseURL is the external QR render service used when no
// QR_BASE_URL override is configured.
const DefaultQRBaseURL = "https://api.qrserver.com/v1/create-qr-code/"

// qrSize is the rendered image size requested from the QR service.
const qrSize = "300x300"

// QRURL builds the render URL that embeds an access code.  The engine
// stores the URL as an opaque rendering hint; fetching the image is the
// client's business.
func QRURL(base, code string) string {
    return base + "?data=" + url.QueryEscape(code) + "&size=" + qrSize
}
